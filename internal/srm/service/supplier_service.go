package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/velocityfibre/fibreflow/internal/srm/entity"
	"github.com/velocityfibre/fibreflow/internal/srm/repository"
)

// SupplierService 供应商服务
type SupplierService struct {
	repo  *repository.SupplierRepository
	cache *CohortCache
}

func NewSupplierService(repo *repository.SupplierRepository, cache *CohortCache) *SupplierService {
	return &SupplierService{repo: repo, cache: cache}
}

// CreateSupplierRequest 创建供应商请求
type CreateSupplierRequest struct {
	Name             string              `json:"name"`
	CompanyName      string              `json:"company_name"`
	BusinessType     string              `json:"business_type"`
	Region           string              `json:"region"`
	IsPreferred      bool                `json:"is_preferred"`
	Country          string              `json:"country"`
	City             string              `json:"city"`
	Address          string              `json:"address"`
	Website          string              `json:"website"`
	Rating           *entity.RatingValue `json:"rating"`
	Performance      *entity.JSONB       `json:"performance"`
	ComplianceStatus *entity.JSONB       `json:"compliance_status"`
	Categories       *entity.JSONBArray  `json:"categories"`
	PrimaryContact   *entity.JSONB       `json:"primary_contact"`
	Notes            string              `json:"notes"`
}

// UpdateSupplierRequest 更新供应商请求
type UpdateSupplierRequest struct {
	Name             *string             `json:"name"`
	CompanyName      *string             `json:"company_name"`
	Status           *string             `json:"status"`
	BusinessType     *string             `json:"business_type"`
	Region           *string             `json:"region"`
	IsPreferred      *bool               `json:"is_preferred"`
	Country          *string             `json:"country"`
	City             *string             `json:"city"`
	Address          *string             `json:"address"`
	Website          *string             `json:"website"`
	Rating           *entity.RatingValue `json:"rating"`
	Performance      *entity.JSONB       `json:"performance"`
	ComplianceStatus *entity.JSONB       `json:"compliance_status"`
	Categories       *entity.JSONBArray  `json:"categories"`
	PrimaryContact   *entity.JSONB       `json:"primary_contact"`
	Notes            *string             `json:"notes"`
}

// List 获取供应商列表
func (s *SupplierService) List(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Supplier, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// Get 获取供应商详情
func (s *SupplierService) Get(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

// Create 创建供应商
func (s *SupplierService) Create(ctx context.Context, userID string, req *CreateSupplierRequest) (*entity.Supplier, error) {
	code, err := s.repo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	supplier := &entity.Supplier{
		ID:               uuid.New().String()[:32],
		Code:             code,
		Name:             req.Name,
		CompanyName:      req.CompanyName,
		Status:           entity.SupplierStatusPending,
		BusinessType:     req.BusinessType,
		Region:           req.Region,
		IsPreferred:      req.IsPreferred,
		Country:          req.Country,
		City:             req.City,
		Address:          req.Address,
		Website:          req.Website,
		Rating:           req.Rating,
		Performance:      req.Performance,
		ComplianceStatus: req.ComplianceStatus,
		Categories:       req.Categories,
		PrimaryContact:   req.PrimaryContact,
		Notes:            req.Notes,
		CreatedBy:        userID,
	}

	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	// 供应商数据变化会影响同行基准队列
	s.cache.Invalidate(ctx)
	return s.repo.FindByID(ctx, supplier.ID)
}

// Update 更新供应商
func (s *SupplierService) Update(ctx context.Context, id string, req *UpdateSupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.CompanyName != nil {
		supplier.CompanyName = *req.CompanyName
	}
	if req.Status != nil {
		supplier.Status = *req.Status
	}
	if req.BusinessType != nil {
		supplier.BusinessType = *req.BusinessType
	}
	if req.Region != nil {
		supplier.Region = *req.Region
	}
	if req.IsPreferred != nil {
		supplier.IsPreferred = *req.IsPreferred
	}
	if req.Country != nil {
		supplier.Country = *req.Country
	}
	if req.City != nil {
		supplier.City = *req.City
	}
	if req.Address != nil {
		supplier.Address = *req.Address
	}
	if req.Website != nil {
		supplier.Website = *req.Website
	}
	if req.Rating != nil {
		supplier.Rating = req.Rating
	}
	if req.Performance != nil {
		supplier.Performance = req.Performance
	}
	if req.ComplianceStatus != nil {
		supplier.ComplianceStatus = req.ComplianceStatus
	}
	if req.Categories != nil {
		supplier.Categories = req.Categories
	}
	if req.PrimaryContact != nil {
		supplier.PrimaryContact = req.PrimaryContact
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return supplier, nil
}

// Delete 删除供应商
func (s *SupplierService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// CreateContactRequest 创建联系人请求
type CreateContactRequest struct {
	Name      string `json:"name" binding:"required"`
	Title     string `json:"title"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	IsPrimary bool   `json:"is_primary"`
}

// ListContacts 获取供应商联系人
func (s *SupplierService) ListContacts(ctx context.Context, supplierID string) ([]entity.SupplierContact, error) {
	if _, err := s.repo.FindByID(ctx, supplierID); err != nil {
		return nil, err
	}
	return s.repo.FindContacts(ctx, supplierID)
}

// CreateContact 创建供应商联系人
func (s *SupplierService) CreateContact(ctx context.Context, supplierID string, req *CreateContactRequest) (*entity.SupplierContact, error) {
	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	contact := &entity.SupplierContact{
		ID:         uuid.New().String()[:32],
		SupplierID: supplier.ID,
		Name:       req.Name,
		Title:      req.Title,
		Phone:      req.Phone,
		Email:      req.Email,
		IsPrimary:  req.IsPrimary,
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}

	// 主联系人同步到供应商记录，评分引擎读取该字段
	if req.IsPrimary {
		pc := entity.JSONB{
			"name":  req.Name,
			"phone": req.Phone,
			"email": req.Email,
		}
		supplier.PrimaryContact = &pc
		if err := s.repo.Update(ctx, supplier); err != nil {
			return nil, err
		}
		s.cache.Invalidate(ctx)
	}

	return contact, nil
}
