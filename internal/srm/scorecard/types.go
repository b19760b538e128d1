package scorecard

import (
	"context"
	"time"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
)

// SupplierStore 供应商数据访问接口，由 repository 层注入。
// 引擎本身不做任何I/O，取数全部经过这里。
type SupplierStore interface {
	GetSupplierByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetAllSuppliers(ctx context.Context) ([]entity.Supplier, error)
}

// RatingBreakdown 评级细分，各维度 0-5
type RatingBreakdown struct {
	Quality       float64 `json:"quality"`
	Delivery      float64 `json:"delivery"`
	Communication float64 `json:"communication"`
	Pricing       float64 `json:"pricing"`
	Reliability   float64 `json:"reliability"`
}

// PerformanceMetrics 绩效指标，各项 0-100
type PerformanceMetrics struct {
	OnTimeDelivery  float64 `json:"on_time_delivery"`
	QualityScore    float64 `json:"quality_score"`
	ResponseTime    float64 `json:"response_time"`
	IssueResolution float64 `json:"issue_resolution"`
	OverallScore    float64 `json:"overall_score"`
}

// 合规状态档位
const (
	ComplianceExcellent        = "Excellent"
	ComplianceGood             = "Good"
	ComplianceAcceptable       = "Acceptable"
	ComplianceNeedsImprovement = "Needs Improvement"
	ComplianceCritical         = "Critical"
)

// ComplianceInfo 合规信息
type ComplianceInfo struct {
	Score     float64   `json:"score"`
	Status    string    `json:"status"`
	LastCheck time.Time `json:"last_check"`
}

// TrendData 近期趋势值，各项 0-100
type TrendData struct {
	Last3Months  float64 `json:"last_3_months"`
	Last6Months  float64 `json:"last_6_months"`
	Last12Months float64 `json:"last_12_months"`
}

// 同行对比结果
const (
	PeerAbove = "above"
	PeerAt    = "at"
	PeerBelow = "below"
)

// BenchmarkData 基准对比数据
type BenchmarkData struct {
	IndustryPercentile float64 `json:"industry_percentile"`
	CategoryPercentile float64 `json:"category_percentile"`
	PeerComparison     string  `json:"peer_comparison"`
}

// BenchmarkStats 数值队列的描述统计
type BenchmarkStats struct {
	Mean              float64 `json:"mean"`
	Median            float64 `json:"median"`
	Q1                float64 `json:"q1"`
	Q3                float64 `json:"q3"`
	Min               float64 `json:"min"`
	Max               float64 `json:"max"`
	StandardDeviation float64 `json:"standard_deviation"`
	SampleSize        int     `json:"sample_size"`
}

// Scorecard 供应商记分卡，生成后不再修改
type Scorecard struct {
	SupplierID      string             `json:"supplier_id"`
	SupplierName    string             `json:"supplier_name"`
	OverallScore    float64            `json:"overall_score"`
	Ratings         RatingBreakdown    `json:"ratings"`
	Performance     PerformanceMetrics `json:"performance"`
	Compliance      ComplianceInfo     `json:"compliance"`
	Trends          TrendData          `json:"trends"`
	Benchmarks      BenchmarkData      `json:"benchmarks"`
	Recommendations []string           `json:"recommendations"`
	LastUpdated     time.Time          `json:"last_updated"`
}

// Options 生成选项
type Options struct {
	IncludeTrends          bool `json:"include_trends"`
	IncludeBenchmarks      bool `json:"include_benchmarks"`
	IncludeRecommendations bool `json:"include_recommendations"`
}

// DefaultOptions 默认全开
func DefaultOptions() Options {
	return Options{
		IncludeTrends:          true,
		IncludeBenchmarks:      true,
		IncludeRecommendations: true,
	}
}

// Result 单个供应商的生成结果。可选阶段失败会降级为警告，
// 记分卡仍然返回。Categories/Status 在生成时捕获，供批量过滤使用。
type Result struct {
	Scorecard  *Scorecard `json:"scorecard"`
	Warnings   []string   `json:"warnings,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Status     string     `json:"status,omitempty"`
}

// BatchConfig 批量处理配置
type BatchConfig struct {
	BatchSize   int `json:"batch_size"`
	Concurrency int `json:"concurrency"`
}

// DefaultBatchConfig 默认：每批10个，批内并发5
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{
		BatchSize:   10,
		Concurrency: 5,
	}
}

// FailedScorecard 批量处理中失败的条目
type FailedScorecard struct {
	SupplierID string `json:"supplier_id"`
	Error      string `json:"error"`
}

// BatchResult 批量生成结果
type BatchResult struct {
	Successful     []Result          `json:"successful"`
	Failed         []FailedScorecard `json:"failed"`
	TotalProcessed int               `json:"total_processed"`
	SuccessRate    float64           `json:"success_rate"`
}

// 排序方式
const (
	SortByScore = "score"
	SortByName  = "name"
)

// FilterOptions 批量结果过滤条件
type FilterOptions struct {
	MinScore float64 `json:"min_score"`
	Category string  `json:"category"`
	Status   string  `json:"status"`
}

// RankedSupplier 排名条目
type RankedSupplier struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// RegionalBenchmarks 区域基准
type RegionalBenchmarks struct {
	RegionalPercentile   float64          `json:"regional_percentile"`
	RegionalAverage      float64          `json:"regional_average"`
	TopRegionalSuppliers []RankedSupplier `json:"top_regional_suppliers"`
}

// CategoryBenchmark 单一类目基准
type CategoryBenchmark struct {
	Category           string           `json:"category"`
	CategoryPercentile float64          `json:"category_percentile"`
	CategoryAverage    float64          `json:"category_average"`
	CategoryLeaders    []RankedSupplier `json:"category_leaders"`
}

// 建议优先级/影响/投入档位
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"

	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"
)

// PriorityRecommendation 带优先级标注的改进建议
type PriorityRecommendation struct {
	Priority       string `json:"priority"`
	Category       string `json:"category"`
	Recommendation string `json:"recommendation"`
	Impact         string `json:"impact"`
	Effort         string `json:"effort"`
	Timeline       string `json:"timeline"`
}

// RankedRecommendation 按ROI排序后的建议
type RankedRecommendation struct {
	Recommendation PriorityRecommendation `json:"recommendation"`
	ROIScore       float64                `json:"roi_score"`
	PriorityRank   int                    `json:"priority_rank"`
}

// EnhancedResult 增强记分卡：基础结果 + 区域/类目基准 + 优先级建议
type EnhancedResult struct {
	Result
	RegionalBenchmarks      *RegionalBenchmarks      `json:"regional_benchmarks,omitempty"`
	CategoryBenchmarks      []CategoryBenchmark      `json:"category_benchmarks,omitempty"`
	PriorityRecommendations []PriorityRecommendation `json:"priority_recommendations,omitempty"`
}

// MonthlyTrend 月度绩效快照
type MonthlyTrend struct {
	Month              string         `json:"month"`
	Year               int            `json:"year"`
	TotalSuppliers     int            `json:"total_suppliers"`
	NewSuppliers       int            `json:"new_suppliers"`
	ActiveSuppliers    int            `json:"active_suppliers"`
	AverageRating      float64        `json:"average_rating"`
	AveragePerformance float64        `json:"average_performance"`
	ComplianceRate     float64        `json:"compliance_rate"`
	TopPerformers      int            `json:"top_performers"`
	UnderPerformers    int            `json:"under_performers"`
	CategoryBreakdown  map[string]int `json:"category_breakdown"`
}

// TrendPoint 趋势序列中的一个数据点
type TrendPoint struct {
	Date          string  `json:"date"`
	Value         float64 `json:"value"`
	SupplierCount int     `json:"supplier_count"`
}

// 趋势方向
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// 变化显著性
const (
	SignificanceHigh   = "high"
	SignificanceMedium = "medium"
	SignificanceLow    = "low"
)

// TrendAnalysis 某一指标序列的趋势分析结论
type TrendAnalysis struct {
	Category      string       `json:"category"`
	Timeframe     string       `json:"timeframe"`
	Trend         string       `json:"trend"`
	Significance  string       `json:"significance"`
	ChangePercent float64      `json:"change_percent"`
	CurrentValue  float64      `json:"current_value"`
	PreviousValue float64      `json:"previous_value"`
	DataPoints    []TrendPoint `json:"data_points"`
}

// 动量强度
const (
	MomentumStrong   = "strong"
	MomentumModerate = "moderate"
	MomentumWeak     = "weak"
)

// Momentum 近期得分动量
type Momentum struct {
	Value     float64 `json:"value"`
	Direction string  `json:"direction"`
	Strength  string  `json:"strength"`
}

// ComparedSupplier 横向对比中的一个供应商
type ComparedSupplier struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Scores PerformanceMetrics `json:"scores"`
	Rank   int                `json:"rank"`
}

// BestPerformers 各维度最佳供应商名称
type BestPerformers struct {
	Overall         string `json:"overall"`
	OnTimeDelivery  string `json:"on_time_delivery"`
	Quality         string `json:"quality"`
	ResponseTime    string `json:"response_time"`
	IssueResolution string `json:"issue_resolution"`
}

// ComparisonResult 多供应商横向对比结果
type ComparisonResult struct {
	Suppliers      []ComparedSupplier `json:"suppliers"`
	Averages       PerformanceMetrics `json:"averages"`
	BestPerformers BestPerformers     `json:"best_performers"`
}
