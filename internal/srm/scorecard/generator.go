package scorecard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidSupplierID 供应商ID为空
	ErrInvalidSupplierID = errors.New("invalid supplier id")
	// ErrInvalidSupplier 供应商记录缺少可识别名称等基本结构
	ErrInvalidSupplier = errors.New("supplier not found or invalid")
)

// Generator 记分卡编排器。串联取数→校验→提取→打分→可选分析阶段，
// 可选阶段失败降级为警告，不影响基础记分卡产出。
type Generator struct {
	store   SupplierStore
	weights Weights
	logger  *zap.Logger
}

func NewGenerator(store SupplierStore, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		store:   store,
		weights: DefaultWeights(),
		logger:  logger,
	}
}

// SetWeights 覆盖默认权重
func (g *Generator) SetWeights(w Weights) {
	g.weights = w
}

// Generate 生成单个供应商记分卡
func (g *Generator) Generate(ctx context.Context, supplierID string, opts Options) (*Result, error) {
	if strings.TrimSpace(supplierID) == "" {
		return nil, ErrInvalidSupplierID
	}

	supplier, err := g.store.GetSupplierByID(ctx, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate scorecard: %w", err)
	}
	if supplier == nil || supplier.DisplayName() == "" {
		return nil, fmt.Errorf("failed to generate scorecard: %w: %s", ErrInvalidSupplier, supplierID)
	}

	overallScore := CalculateOverallScore(supplier, g.weights)
	_, ratings := ExtractRating(supplier)
	performance := ExtractPerformance(supplier)
	compliance := ExtractCompliance(supplier)

	result := &Result{
		Categories: supplier.CategoryTags(),
		Status:     supplier.Status,
	}

	// 未启用的阶段用中性默认值填充
	trends := TrendData{Last3Months: overallScore, Last6Months: overallScore, Last12Months: overallScore}
	if opts.IncludeTrends {
		trends = CalculateTrends(supplier, overallScore)
	}

	benchmarks := BenchmarkData{
		IndustryPercentile: neutralPercentile,
		CategoryPercentile: neutralPercentile,
		PeerComparison:     PeerAt,
	}
	if opts.IncludeBenchmarks {
		if cohort, cohortErr := g.store.GetAllSuppliers(ctx); cohortErr != nil {
			result.Warnings = append(result.Warnings, "failed to calculate benchmarks: "+cohortErr.Error())
		} else {
			benchmarks = CalculateBenchmarks(supplier, cohort, g.weights)
		}
	}

	var recommendations []string
	if opts.IncludeRecommendations {
		recommendations = GenerateRecommendations(supplier, overallScore, compliance, performance)
	}

	result.Scorecard = &Scorecard{
		SupplierID:      supplierID,
		SupplierName:    supplier.DisplayName(),
		OverallScore:    overallScore,
		Ratings:         ratings,
		Performance:     performance,
		Compliance:      compliance,
		Trends:          trends,
		Benchmarks:      benchmarks,
		Recommendations: recommendations,
		LastUpdated:     time.Now(),
	}

	g.logger.Info("generated supplier scorecard",
		zap.String("supplier_id", supplierID),
		zap.String("supplier_name", result.Scorecard.SupplierName),
		zap.Float64("overall_score", overallScore),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// GenerateBatch 批量生成。外层按 BatchSize 分批严格串行，
// 批内以 Concurrency 为上限并发执行；单个失败只记入 Failed，
// 不中断整批。成功结果按得分降序。
func (g *Generator) GenerateBatch(ctx context.Context, supplierIDs []string, opts Options, cfg BatchConfig) *BatchResult {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchConfig().BatchSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultBatchConfig().Concurrency
	}

	result := &BatchResult{
		Successful:     []Result{},
		Failed:         []FailedScorecard{},
		TotalProcessed: len(supplierIDs),
	}
	var mu sync.Mutex

	for start := 0; start < len(supplierIDs); start += cfg.BatchSize {
		end := start + cfg.BatchSize
		if end > len(supplierIDs) {
			end = len(supplierIDs)
		}

		group, groupCtx := errgroup.WithContext(ctx)
		group.SetLimit(cfg.Concurrency)

		for _, id := range supplierIDs[start:end] {
			id := id
			group.Go(func() error {
				item, err := g.Generate(groupCtx, id, opts)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					g.logger.Warn("scorecard generation failed",
						zap.String("supplier_id", id), zap.Error(err))
					result.Failed = append(result.Failed, FailedScorecard{SupplierID: id, Error: err.Error()})
					return nil
				}
				result.Successful = append(result.Successful, *item)
				return nil
			})
		}
		// 失败在组内吞掉，Wait 只等待本批结清
		_ = group.Wait()
	}

	sort.SliceStable(result.Successful, func(i, j int) bool {
		return result.Successful[i].Scorecard.OverallScore > result.Successful[j].Scorecard.OverallScore
	})

	if result.TotalProcessed > 0 {
		rate := float64(len(result.Successful)) / float64(result.TotalProcessed) * 100
		result.SuccessRate = math.Round(rate*100) / 100
	}
	return result
}

// FilterResults 按最低得分/类目/状态过滤批量结果
func FilterResults(results []Result, filters FilterOptions) []Result {
	out := make([]Result, 0, len(results))
	for _, r := range results {
		if r.Scorecard == nil {
			continue
		}
		if filters.MinScore > 0 && r.Scorecard.OverallScore < filters.MinScore {
			continue
		}
		if filters.Category != "" && !containsTag(r.Categories, filters.Category) {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortResults 排序：score 得分降序，name 名称字典序
func SortResults(results []Result, sortBy string) {
	switch sortBy {
	case SortByName:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Scorecard.SupplierName < results[j].Scorecard.SupplierName
		})
	case SortByScore:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Scorecard.OverallScore > results[j].Scorecard.OverallScore
		})
	}
}

// GenerateEnhanced 增强模式：基础记分卡之上叠加区域基准、
// 逐类目基准和优先级建议；增强项失败仅追加警告。
func (g *Generator) GenerateEnhanced(ctx context.Context, supplierID string) (*EnhancedResult, error) {
	base, err := g.Generate(ctx, supplierID, DefaultOptions())
	if err != nil {
		return nil, err
	}

	enhanced := &EnhancedResult{Result: *base}

	supplier, err := g.store.GetSupplierByID(ctx, supplierID)
	if err != nil {
		enhanced.Warnings = append(enhanced.Warnings, "failed to calculate enhanced benchmarks: "+err.Error())
		return enhanced, nil
	}

	cohort, err := g.store.GetAllSuppliers(ctx)
	if err != nil {
		enhanced.Warnings = append(enhanced.Warnings, "failed to load peer cohort: "+err.Error())
		cohort = nil
	}

	if cohort != nil {
		regional := CalculateRegionalBenchmarks(supplier, cohort, g.weights)
		enhanced.RegionalBenchmarks = &regional

		for _, category := range supplier.CategoryTags() {
			enhanced.CategoryBenchmarks = append(enhanced.CategoryBenchmarks,
				CalculateCategoryBenchmarks(supplier, category, cohort, g.weights))
		}
	}

	enhanced.PriorityRecommendations = GeneratePriorityRecommendations(supplier, base.Scorecard.OverallScore)
	return enhanced, nil
}

// Compare 多供应商横向对比：逐项指标、排名、均值与各维度最佳
func (g *Generator) Compare(ctx context.Context, supplierIDs []string) (*ComparisonResult, error) {
	if len(supplierIDs) == 0 {
		return nil, ErrInvalidSupplierID
	}

	compared := make([]ComparedSupplier, 0, len(supplierIDs))
	for _, id := range supplierIDs {
		supplier, err := g.store.GetSupplierByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to compare suppliers: %w", err)
		}
		metrics := ExtractPerformance(supplier)
		if metrics.OverallScore == 0 {
			metrics.OverallScore = CalculateOverallScore(supplier, g.weights)
		}
		compared = append(compared, ComparedSupplier{
			ID:     supplier.ID,
			Name:   supplier.DisplayName(),
			Scores: metrics,
		})
	}

	sort.SliceStable(compared, func(i, j int) bool {
		return compared[i].Scores.OverallScore > compared[j].Scores.OverallScore
	})
	for i := range compared {
		compared[i].Rank = i + 1
	}

	n := float64(len(compared))
	var totals PerformanceMetrics
	best := BestPerformers{}
	bestValues := PerformanceMetrics{}
	for _, c := range compared {
		totals.OverallScore += c.Scores.OverallScore
		totals.OnTimeDelivery += c.Scores.OnTimeDelivery
		totals.QualityScore += c.Scores.QualityScore
		totals.ResponseTime += c.Scores.ResponseTime
		totals.IssueResolution += c.Scores.IssueResolution

		if c.Scores.OverallScore > bestValues.OverallScore {
			bestValues.OverallScore = c.Scores.OverallScore
			best.Overall = c.Name
		}
		if c.Scores.OnTimeDelivery > bestValues.OnTimeDelivery {
			bestValues.OnTimeDelivery = c.Scores.OnTimeDelivery
			best.OnTimeDelivery = c.Name
		}
		if c.Scores.QualityScore > bestValues.QualityScore {
			bestValues.QualityScore = c.Scores.QualityScore
			best.Quality = c.Name
		}
		if c.Scores.ResponseTime > bestValues.ResponseTime {
			bestValues.ResponseTime = c.Scores.ResponseTime
			best.ResponseTime = c.Name
		}
		if c.Scores.IssueResolution > bestValues.IssueResolution {
			bestValues.IssueResolution = c.Scores.IssueResolution
			best.IssueResolution = c.Name
		}
	}

	return &ComparisonResult{
		Suppliers: compared,
		Averages: PerformanceMetrics{
			OverallScore:    math.Round(totals.OverallScore / n),
			OnTimeDelivery:  math.Round(totals.OnTimeDelivery / n),
			QualityScore:    math.Round(totals.QualityScore / n),
			ResponseTime:    math.Round(totals.ResponseTime / n),
			IssueResolution: math.Round(totals.IssueResolution / n),
		},
		BestPerformers: best,
	}, nil
}
