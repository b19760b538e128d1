package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/velocityfibre/fibreflow/internal/srm/repository"
	"github.com/velocityfibre/fibreflow/internal/srm/scorecard"
	"github.com/velocityfibre/fibreflow/internal/srm/service"
)

// ScorecardHandler 记分卡处理器
type ScorecardHandler struct {
	svc       *service.ScorecardService
	exportSvc *service.ExportService
}

func NewScorecardHandler(svc *service.ScorecardService, exportSvc *service.ExportService) *ScorecardHandler {
	return &ScorecardHandler{svc: svc, exportSvc: exportSvc}
}

func boolQuery(c *gin.Context, key string, def bool) bool {
	v := c.Query(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1"
}

// GetScorecard 获取单个供应商记分卡
// GET /api/v1/srm/suppliers/:id/scorecard?trends=true&benchmarks=true&recommendations=true
func (h *ScorecardHandler) GetScorecard(c *gin.Context) {
	id := c.Param("id")
	opts := scorecard.Options{
		IncludeTrends:          boolQuery(c, "trends", true),
		IncludeBenchmarks:      boolQuery(c, "benchmarks", true),
		IncludeRecommendations: boolQuery(c, "recommendations", true),
	}

	result, err := h.svc.Generate(c.Request.Context(), id, opts)
	if err != nil {
		if errors.Is(err, scorecard.ErrInvalidSupplierID) || errors.Is(err, scorecard.ErrInvalidSupplier) {
			BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "supplier not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, result)
}

// GetEnhancedScorecard 获取增强记分卡（区域基准、分类基准、优先建议）
// GET /api/v1/srm/suppliers/:id/scorecard/enhanced
func (h *ScorecardHandler) GetEnhancedScorecard(c *gin.Context) {
	id := c.Param("id")
	result, err := h.svc.GenerateEnhanced(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, scorecard.ErrInvalidSupplierID) || errors.Is(err, scorecard.ErrInvalidSupplier) {
			BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "supplier not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	Success(c, result)
}

// GetScorecardReport 获取文本报告
// GET /api/v1/srm/suppliers/:id/scorecard/report
func (h *ScorecardHandler) GetScorecardReport(c *gin.Context) {
	id := c.Param("id")
	report, err := h.svc.TextReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "supplier not found")
			return
		}
		InternalError(c, err.Error())
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(200, report)
}

// BatchScorecardRequest 批量生成请求
type BatchScorecardRequest struct {
	SupplierIDs []string `json:"supplier_ids" binding:"required"`
	MinScore    float64  `json:"min_score"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	SortBy      string   `json:"sort_by"`
	BatchSize   int      `json:"batch_size"`
	Concurrency int      `json:"concurrency"`
}

// BatchScorecards 批量生成记分卡
// POST /api/v1/srm/scorecards/batch
func (h *ScorecardHandler) BatchScorecards(c *gin.Context) {
	var req BatchScorecardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if len(req.SupplierIDs) == 0 {
		BadRequest(c, "supplier_ids is required")
		return
	}

	cfg := scorecard.DefaultBatchConfig()
	if req.BatchSize > 0 {
		cfg.BatchSize = req.BatchSize
	}
	if req.Concurrency > 0 {
		cfg.Concurrency = req.Concurrency
	}

	filters := scorecard.FilterOptions{
		MinScore: req.MinScore,
		Category: req.Category,
		Status:   req.Status,
	}

	result := h.svc.GenerateBatch(c.Request.Context(), req.SupplierIDs, scorecard.DefaultOptions(), cfg, filters, req.SortBy)
	Success(c, result)
}

// CompareScorecardsRequest 供应商对比请求
type CompareScorecardsRequest struct {
	SupplierIDs []string `json:"supplier_ids" binding:"required"`
}

// CompareScorecards 供应商横向对比
// POST /api/v1/srm/scorecards/compare
func (h *ScorecardHandler) CompareScorecards(c *gin.Context) {
	var req CompareScorecardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if len(req.SupplierIDs) < 2 {
		BadRequest(c, "at least 2 supplier_ids are required")
		return
	}

	result, err := h.svc.Compare(c.Request.Context(), req.SupplierIDs)
	if err != nil {
		InternalError(c, err.Error())
		return
	}

	Success(c, result)
}

// ExportScorecardsRequest 导出请求
type ExportScorecardsRequest struct {
	SupplierIDs []string `json:"supplier_ids" binding:"required"`
	MinScore    float64  `json:"min_score"`
	Category    string   `json:"category"`
	Status      string   `json:"status"`
	SortBy      string   `json:"sort_by"`
	Upload      bool     `json:"upload"`
}

// ExportScorecards 批量生成并导出Excel。upload=true 上传对象存储返回对象键，
// 否则直接以附件下载
// POST /api/v1/srm/scorecards/export
func (h *ScorecardHandler) ExportScorecards(c *gin.Context) {
	var req ExportScorecardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if len(req.SupplierIDs) == 0 {
		BadRequest(c, "supplier_ids is required")
		return
	}

	filters := scorecard.FilterOptions{
		MinScore: req.MinScore,
		Category: req.Category,
		Status:   req.Status,
	}
	sortBy := req.SortBy
	if strings.TrimSpace(sortBy) == "" {
		sortBy = scorecard.SortByScore
	}

	result := h.svc.GenerateBatch(c.Request.Context(), req.SupplierIDs, scorecard.DefaultOptions(), scorecard.DefaultBatchConfig(), filters, sortBy)

	f, filename, err := h.exportSvc.RenderBatchWorkbook(result)
	if err != nil {
		InternalError(c, "failed to render workbook: "+err.Error())
		return
	}

	if req.Upload {
		objectName, err := h.exportSvc.UploadWorkbook(c.Request.Context(), f, filename)
		if err != nil {
			InternalError(c, "failed to upload workbook: "+err.Error())
			return
		}

		Success(c, gin.H{
			"object_name":     objectName,
			"filename":        filename,
			"total_processed": result.TotalProcessed,
			"success_rate":    result.SuccessRate,
		})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "failed to write workbook: "+err.Error())
	}
}
