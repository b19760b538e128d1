package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
	"gorm.io/gorm"
)

// SupplierRepository 供应商仓库
type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

// FindAll 查询供应商列表
func (r *SupplierRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	var items []entity.Supplier
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Supplier{})

	if search := filters["search"]; search != "" {
		query = query.Where("name ILIKE ? OR company_name ILIKE ? OR code ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}
	if businessType := filters["business_type"]; businessType != "" {
		query = query.Where("business_type = ?", businessType)
	}
	if region := filters["region"]; region != "" {
		query = query.Where("region = ?", region)
	}
	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找供应商
func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*entity.Supplier, error) {
	var supplier entity.Supplier
	err := r.db.WithContext(ctx).
		Preload("Contacts").
		Where("id = ?", id).
		First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAllForAnalysis 查询全部供应商（含非活跃，用于同行基准分析）
func (r *SupplierRepository) FindAllForAnalysis(ctx context.Context) ([]entity.Supplier, error) {
	var items []entity.Supplier
	err := r.db.WithContext(ctx).Find(&items).Error
	return items, err
}

// Create 创建供应商
func (r *SupplierRepository) Create(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// Update 更新供应商
func (r *SupplierRepository) Update(ctx context.Context, supplier *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(supplier).Error
}

// Delete 删除供应商
func (r *SupplierRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Supplier{}).Error
}

// FindContacts 查找供应商联系人
func (r *SupplierRepository) FindContacts(ctx context.Context, supplierID string) ([]entity.SupplierContact, error) {
	var contacts []entity.SupplierContact
	err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("is_primary DESC, created_at ASC").
		Find(&contacts).Error
	return contacts, err
}

// CreateContact 创建供应商联系人
func (r *SupplierRepository) CreateContact(ctx context.Context, contact *entity.SupplierContact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// GenerateCode 生成供应商编码 SUP-{4位}
func (r *SupplierRepository) GenerateCode(ctx context.Context) (string, error) {
	var maxCode string
	err := r.db.WithContext(ctx).
		Model(&entity.Supplier{}).
		Select("COALESCE(MAX(code), 'SUP-0000')").
		Scan(&maxCode).Error
	if err != nil {
		return "", err
	}

	var seq int
	fmt.Sscanf(maxCode, "SUP-%04d", &seq)
	seq++
	return fmt.Sprintf("SUP-%04d", seq), nil
}
