package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/velocityfibre/fibreflow/internal/srm/service"
)

// AnalyticsHandler 分析处理器
type AnalyticsHandler struct {
	svc *service.ScorecardService
}

func NewAnalyticsHandler(svc *service.ScorecardService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func monthsQuery(c *gin.Context) int {
	months, err := strconv.Atoi(c.DefaultQuery("months", "12"))
	if err != nil || months <= 0 {
		return 12
	}
	if months > 60 {
		return 60
	}
	return months
}

// GetTrends 月度绩效趋势
// GET /api/v1/srm/analytics/trends?months=12
func (h *AnalyticsHandler) GetTrends(c *gin.Context) {
	months := monthsQuery(c)

	trends, err := h.svc.PerformanceTrends(c.Request.Context(), months)
	if err != nil {
		InternalError(c, "failed to calculate trends: "+err.Error())
		return
	}

	analyses, err := h.svc.TrendAnalyses(c.Request.Context(), months)
	if err != nil {
		InternalError(c, "failed to analyze trends: "+err.Error())
		return
	}

	Success(c, gin.H{
		"months":   months,
		"trends":   trends,
		"analyses": analyses,
	})
}

// GetBenchmarks 全体及分组基准统计
// GET /api/v1/srm/analytics/benchmarks
func (h *AnalyticsHandler) GetBenchmarks(c *gin.Context) {
	stats, err := h.svc.Benchmarks(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to calculate benchmarks: "+err.Error())
		return
	}
	Success(c, stats)
}

// GetDashboard 评分分布仪表盘
// GET /api/v1/srm/analytics/dashboard
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	summary, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		InternalError(c, "failed to build dashboard: "+err.Error())
		return
	}
	Success(c, summary)
}
