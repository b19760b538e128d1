package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONB JSONB类型
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONB: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// JSONBArray JSONB数组类型
type JSONBArray []interface{}

func (j JSONBArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONBArray) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan JSONBArray: %v", value)
	}
	return json.Unmarshal(bytes, j)
}

// RatingValue 评级字段，兼容两种历史形态：0-5标量 或 {overall, breakdown} 对象。
// 统一由 scorecard 包的提取器解析，业务代码不直接分支判断形态。
type RatingValue struct {
	Raw interface{} `json:"-"`
}

func (r RatingValue) Value() (driver.Value, error) {
	if r.Raw == nil {
		return nil, nil
	}
	return json.Marshal(r.Raw)
}

func (r *RatingValue) Scan(value interface{}) error {
	if value == nil {
		r.Raw = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("failed to scan RatingValue: %v", value)
	}
	return json.Unmarshal(bytes, &r.Raw)
}

func (r RatingValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Raw)
}

func (r *RatingValue) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &r.Raw)
}

// Supplier 供应商
type Supplier struct {
	ID           string `json:"id" gorm:"primaryKey;size:32"`
	Code         string `json:"code" gorm:"size:32;uniqueIndex;not null"`
	Name         string `json:"name" gorm:"size:200"`
	CompanyName  string `json:"company_name" gorm:"size:200"`
	Status       string `json:"status" gorm:"size:20;default:pending"`
	BusinessType string `json:"business_type" gorm:"size:50"`
	Region       string `json:"region" gorm:"size:100"`
	IsPreferred  bool   `json:"is_preferred" gorm:"default:false"`

	// 基本信息
	Country string `json:"country" gorm:"size:50"`
	City    string `json:"city" gorm:"size:50"`
	Address string `json:"address" gorm:"size:500"`
	Website string `json:"website" gorm:"size:200"`

	// 松散结构的评级/绩效/合规数据，历史形态不一，由记分引擎统一提取
	Rating           *RatingValue `json:"rating" gorm:"type:jsonb"`
	Performance      *JSONB       `json:"performance" gorm:"type:jsonb"`
	ComplianceStatus *JSONB       `json:"compliance_status" gorm:"type:jsonb"`
	Categories       *JSONBArray  `json:"categories" gorm:"type:jsonb"`
	PrimaryContact   *JSONB       `json:"primary_contact" gorm:"type:jsonb"`

	// 管理信息
	CreatedBy string    `json:"created_by" gorm:"size:32"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Notes     string    `json:"notes" gorm:"type:text"`

	// 关联
	Contacts []SupplierContact `json:"contacts,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Supplier) TableName() string {
	return "srm_suppliers"
}

// DisplayName 展示名称，公司名优先
func (s *Supplier) DisplayName() string {
	if s.CompanyName != "" {
		return s.CompanyName
	}
	return s.Name
}

// CategoryTags 类目标签列表
func (s *Supplier) CategoryTags() []string {
	if s.Categories == nil {
		return nil
	}
	tags := make([]string, 0, len(*s.Categories))
	for _, v := range *s.Categories {
		if tag, ok := v.(string); ok && tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// 供应商状态
const (
	SupplierStatusPending     = "pending"
	SupplierStatusActive      = "active"
	SupplierStatusSuspended   = "suspended"
	SupplierStatusBlacklisted = "blacklisted"
)

// SupplierContact 供应商联系人
type SupplierContact struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	SupplierID string    `json:"supplier_id" gorm:"size:32;not null;index"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Title      string    `json:"title" gorm:"size:100"`
	Phone      string    `json:"phone" gorm:"size:50"`
	Email      string    `json:"email" gorm:"size:200"`
	IsPrimary  bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SupplierContact) TableName() string {
	return "srm_supplier_contacts"
}
