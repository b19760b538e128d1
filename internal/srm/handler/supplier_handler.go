package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/velocityfibre/fibreflow/internal/srm/repository"
	"github.com/velocityfibre/fibreflow/internal/srm/service"
)

// SupplierHandler 供应商处理器
type SupplierHandler struct {
	svc *service.SupplierService
}

func NewSupplierHandler(svc *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// ListSuppliers 供应商列表
// GET /api/v1/srm/suppliers?search=xxx&business_type=xxx&region=xxx&status=xxx&page=1&page_size=20
func (h *SupplierHandler) ListSuppliers(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":        c.Query("search"),
		"business_type": c.Query("business_type"),
		"region":        c.Query("region"),
		"status":        c.Query("status"),
	}

	items, total, err := h.svc.List(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		InternalError(c, "failed to list suppliers: "+err.Error())
		return
	}

	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

// GetSupplier 供应商详情
// GET /api/v1/srm/suppliers/:id
func (h *SupplierHandler) GetSupplier(c *gin.Context) {
	id := c.Param("id")
	supplier, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		NotFound(c, "supplier not found")
		return
	}
	Success(c, supplier)
}

// CreateSupplier 创建供应商
// POST /api/v1/srm/suppliers
func (h *SupplierHandler) CreateSupplier(c *gin.Context) {
	var req service.CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Name == "" && req.CompanyName == "" {
		BadRequest(c, "supplier name is required")
		return
	}

	userID := GetUserID(c)
	supplier, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		InternalError(c, "failed to create supplier: "+err.Error())
		return
	}

	Created(c, supplier)
}

// UpdateSupplier 更新供应商
// PUT /api/v1/srm/suppliers/:id
func (h *SupplierHandler) UpdateSupplier(c *gin.Context) {
	id := c.Param("id")
	var req service.UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	supplier, err := h.svc.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "supplier not found")
			return
		}
		InternalError(c, "failed to update supplier: "+err.Error())
		return
	}

	Success(c, supplier)
}

// ListContacts 供应商联系人列表
// GET /api/v1/srm/suppliers/:id/contacts
func (h *SupplierHandler) ListContacts(c *gin.Context) {
	id := c.Param("id")
	contacts, err := h.svc.ListContacts(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "supplier not found")
			return
		}
		InternalError(c, "failed to list contacts: "+err.Error())
		return
	}
	Success(c, contacts)
}

// CreateContact 创建供应商联系人
// POST /api/v1/srm/suppliers/:id/contacts
func (h *SupplierHandler) CreateContact(c *gin.Context) {
	id := c.Param("id")
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}

	contact, err := h.svc.CreateContact(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "supplier not found")
			return
		}
		InternalError(c, "failed to create contact: "+err.Error())
		return
	}

	Created(c, contact)
}

// DeleteSupplier 删除供应商
// DELETE /api/v1/srm/suppliers/:id
func (h *SupplierHandler) DeleteSupplier(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		InternalError(c, "failed to delete supplier: "+err.Error())
		return
	}
	Success(c, gin.H{"id": id})
}
