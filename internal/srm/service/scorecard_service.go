package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/velocityfibre/fibreflow/internal/srm/entity"
	"github.com/velocityfibre/fibreflow/internal/srm/repository"
	"github.com/velocityfibre/fibreflow/internal/srm/scorecard"
	"go.uber.org/zap"
)

// cohortCacheKey 同行队列缓存键
const cohortCacheKey = "srm:cohort:suppliers"

// CohortCache 同行基准队列的Redis缓存。
// 每次基准计算都要全量扫供应商，短TTL缓存避免批量生成时反复取数。
// 记分卡本身永不缓存，每次请求现算。
type CohortCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCohortCache rdb 可为 nil，此时缓存退化为直通
func NewCohortCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CohortCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &CohortCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CohortCache) Get(ctx context.Context) ([]entity.Supplier, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cohortCacheKey).Bytes()
	if err != nil {
		return nil, false
	}
	var suppliers []entity.Supplier
	if err := json.Unmarshal(raw, &suppliers); err != nil {
		c.logger.Warn("cohort cache decode failed", zap.Error(err))
		return nil, false
	}
	return suppliers, true
}

func (c *CohortCache) Set(ctx context.Context, suppliers []entity.Supplier) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(suppliers)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cohortCacheKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cohort cache write failed", zap.Error(err))
	}
}

// Invalidate 供应商增删改后清空队列缓存
func (c *CohortCache) Invalidate(ctx context.Context) {
	if c == nil || c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, cohortCacheKey).Err(); err != nil {
		c.logger.Warn("cohort cache invalidate failed", zap.Error(err))
	}
}

// supplierStore 把仓库适配成引擎的 SupplierStore，取全量队列时走缓存
type supplierStore struct {
	repo  *repository.SupplierRepository
	cache *CohortCache
}

func (s *supplierStore) GetSupplierByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *supplierStore) GetAllSuppliers(ctx context.Context) ([]entity.Supplier, error) {
	if cached, ok := s.cache.Get(ctx); ok {
		return cached, nil
	}
	suppliers, err := s.repo.FindAllForAnalysis(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, suppliers)
	return suppliers, nil
}

// ScorecardService 记分卡服务，处理器与引擎之间的薄层
type ScorecardService struct {
	store     scorecard.SupplierStore
	generator *scorecard.Generator
	logger    *zap.Logger
}

func NewScorecardService(repo *repository.SupplierRepository, cache *CohortCache, logger *zap.Logger) *ScorecardService {
	store := &supplierStore{repo: repo, cache: cache}
	return &ScorecardService{
		store:     store,
		generator: scorecard.NewGenerator(store, logger),
		logger:    logger,
	}
}

// Generate 单个记分卡
func (s *ScorecardService) Generate(ctx context.Context, supplierID string, opts scorecard.Options) (*scorecard.Result, error) {
	return s.generator.Generate(ctx, supplierID, opts)
}

// GenerateBatch 批量记分卡，生成后应用过滤与排序
func (s *ScorecardService) GenerateBatch(ctx context.Context, supplierIDs []string, opts scorecard.Options, cfg scorecard.BatchConfig, filters scorecard.FilterOptions, sortBy string) *scorecard.BatchResult {
	result := s.generator.GenerateBatch(ctx, supplierIDs, opts, cfg)
	result.Successful = scorecard.FilterResults(result.Successful, filters)
	if sortBy != "" {
		scorecard.SortResults(result.Successful, sortBy)
	}
	return result
}

// GenerateEnhanced 增强记分卡
func (s *ScorecardService) GenerateEnhanced(ctx context.Context, supplierID string) (*scorecard.EnhancedResult, error) {
	return s.generator.GenerateEnhanced(ctx, supplierID)
}

// Compare 多供应商对比
func (s *ScorecardService) Compare(ctx context.Context, supplierIDs []string) (*scorecard.ComparisonResult, error) {
	return s.generator.Compare(ctx, supplierIDs)
}

// TextReport 文本报告
func (s *ScorecardService) TextReport(ctx context.Context, supplierID string) (string, error) {
	result, err := s.generator.Generate(ctx, supplierID, scorecard.DefaultOptions())
	if err != nil {
		return "", err
	}
	return scorecard.FormatTextReport(result), nil
}

// PerformanceTrends 月度绩效趋势序列
func (s *ScorecardService) PerformanceTrends(ctx context.Context, months int) ([]scorecard.MonthlyTrend, error) {
	suppliers, err := s.store.GetAllSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	return scorecard.GeneratePerformanceTrends(suppliers, months), nil
}

// TrendAnalyses 趋势分析结论
func (s *ScorecardService) TrendAnalyses(ctx context.Context, months int) ([]scorecard.TrendAnalysis, error) {
	suppliers, err := s.store.GetAllSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	return scorecard.AnalyzeTrends(suppliers, months), nil
}

// Benchmarks 全行业/分类目/分业务类型的基准统计
func (s *ScorecardService) Benchmarks(ctx context.Context) (map[string]scorecard.BenchmarkStats, error) {
	suppliers, err := s.store.GetAllSuppliers(ctx)
	if err != nil {
		return nil, err
	}

	weights := scorecard.DefaultWeights()
	stats := make(map[string]scorecard.BenchmarkStats)

	var overall []float64
	byCategory := map[string][]float64{}
	byBusinessType := map[string][]float64{}

	for i := range suppliers {
		score := scorecard.CalculateOverallScore(&suppliers[i], weights)
		if score == 0 {
			continue
		}
		overall = append(overall, score)
		for _, tag := range suppliers[i].CategoryTags() {
			byCategory[tag] = append(byCategory[tag], score)
		}
		if bt := suppliers[i].BusinessType; bt != "" {
			byBusinessType[bt] = append(byBusinessType[bt], score)
		}
	}

	stats["overall"] = scorecard.CalculateBenchmarkStats(overall)
	for tag, values := range byCategory {
		stats["category:"+tag] = scorecard.CalculateBenchmarkStats(values)
	}
	for bt, values := range byBusinessType {
		stats["business_type:"+bt] = scorecard.CalculateBenchmarkStats(values)
	}
	return stats, nil
}

// Dashboard 仪表盘汇总
func (s *ScorecardService) Dashboard(ctx context.Context) (*scorecard.DashboardSummary, error) {
	suppliers, err := s.store.GetAllSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	summary := scorecard.BuildDashboardSummary(suppliers, scorecard.DefaultWeights())
	return &summary, nil
}
