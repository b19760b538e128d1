package scorecard

import (
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
)

// 绩效分档阈值：综合得分≥85算头部供应商，<50算落后供应商
const (
	topPerformerScore   = 85
	underPerformerScore = 50
)

// complianceThreshold 合规分达到该值视为合规
const complianceThreshold = 80

// CalculateTrends 重建近3/6/12个月的趋势值。
// 平台没有历史快照存储，趋势用当前得分加有界伪随机波动重建，
// 波动按供应商稳定性缩放；这是真实时序数据接入前的替代实现。
// 伪随机种子取自供应商ID的FNV-1a哈希，同一供应商结果恒定。
func CalculateTrends(s *entity.Supplier, overallScore float64) TrendData {
	variation := trendVariation(s)
	return TrendData{
		Last3Months:  clampScore(overallScore + variation*0.5),
		Last6Months:  clampScore(overallScore + variation),
		Last12Months: clampScore(overallScore + variation*1.5),
	}
}

// trendVariation 基础波动±5分，乘以稳定性系数：
// 优选供应商波动小30%，入驻不足6个月波动大50%，合规供应商波动小20%
func trendVariation(s *entity.Supplier) float64 {
	h := fnv.New64a()
	h.Write([]byte(s.ID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	variation := rng.Float64()*10 - 5

	stability := 1.0
	if s.IsPreferred {
		stability *= 0.7
	}
	if time.Since(s.CreatedAt) < 6*30*24*time.Hour {
		stability *= 1.5
	}
	if ExtractCompliance(s).Score >= complianceThreshold {
		stability *= 0.8
	}

	return variation * stability
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// CalculateMomentum 近期得分动量：短期差值权重大，长期差值权重小。
// momentum = 0.5*(3月-6月) + 0.3*(6月-12月) + 0.2*(3月-12月)
func CalculateMomentum(trends TrendData) Momentum {
	value := 0.5*(trends.Last3Months-trends.Last6Months) +
		0.3*(trends.Last6Months-trends.Last12Months) +
		0.2*(trends.Last3Months-trends.Last12Months)

	direction := TrendStable
	if value > 2 {
		direction = TrendImproving
	} else if value < -2 {
		direction = TrendDeclining
	}

	strength := MomentumWeak
	abs := math.Abs(value)
	if abs > 5 {
		strength = MomentumStrong
	} else if abs > 2 {
		strength = MomentumModerate
	}

	return Momentum{Value: value, Direction: direction, Strength: strength}
}

// CalculateChangePercent 环比变化百分比；前值为0时有增长记100，否则记0
func CalculateChangePercent(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// DetermineTrend 变化幅度在±2%以内视为稳定
func DetermineTrend(changePercent float64) string {
	if math.Abs(changePercent) < 2 {
		return TrendStable
	}
	if changePercent > 0 {
		return TrendImproving
	}
	return TrendDeclining
}

// DetermineSignificance 变化显著性：>20%高，>10%中，其余低
func DetermineSignificance(absChangePercent float64) string {
	if absChangePercent > 20 {
		return SignificanceHigh
	}
	if absChangePercent > 10 {
		return SignificanceMedium
	}
	return SignificanceLow
}

// GeneratePerformanceTrends 按自然月回溯生成月度绩效序列
func GeneratePerformanceTrends(suppliers []entity.Supplier, months int) []MonthlyTrend {
	return generatePerformanceTrends(suppliers, months, time.Now())
}

func generatePerformanceTrends(suppliers []entity.Supplier, months int, now time.Time) []MonthlyTrend {
	trends := make([]MonthlyTrend, 0, months)

	for i := months - 1; i >= 0; i-- {
		targetMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		monthEnd := targetMonth.AddDate(0, 1, 0).Add(-time.Nanosecond)

		var existing []entity.Supplier
		newCount := 0
		for _, s := range suppliers {
			if s.CreatedAt.IsZero() || s.CreatedAt.After(monthEnd) {
				continue
			}
			existing = append(existing, s)
			if s.CreatedAt.Year() == targetMonth.Year() && s.CreatedAt.Month() == targetMonth.Month() {
				newCount++
			}
		}

		snapshot := analyzeCohort(existing)
		snapshot.Month = targetMonth.Format("January")
		snapshot.Year = targetMonth.Year()
		snapshot.NewSuppliers = newCount
		trends = append(trends, snapshot)
	}

	return trends
}

// analyzeCohort 汇总一组供应商的月度指标
func analyzeCohort(suppliers []entity.Supplier) MonthlyTrend {
	snapshot := MonthlyTrend{
		TotalSuppliers:    len(suppliers),
		CategoryBreakdown: map[string]int{},
	}

	var ratingSum, perfSum float64
	var ratingCount, perfCount, compliant int
	weights := DefaultWeights()

	for i := range suppliers {
		s := &suppliers[i]
		if s.Status == entity.SupplierStatusActive {
			snapshot.ActiveSuppliers++
		}

		if rating, _ := ExtractRating(s); rating > 0 {
			ratingSum += rating
			ratingCount++
		}
		if perf := ExtractPerformance(s); perf.OverallScore > 0 {
			perfSum += perf.OverallScore
			perfCount++
		}
		if ExtractCompliance(s).Score >= complianceThreshold {
			compliant++
		}

		switch score := CalculateOverallScore(s, weights); {
		case score >= topPerformerScore:
			snapshot.TopPerformers++
		case score > 0 && score < underPerformerScore:
			snapshot.UnderPerformers++
		}

		for _, tag := range s.CategoryTags() {
			snapshot.CategoryBreakdown[tag]++
		}
	}

	if ratingCount > 0 {
		snapshot.AverageRating = round2(ratingSum / float64(ratingCount))
	}
	if perfCount > 0 {
		snapshot.AveragePerformance = round2(perfSum / float64(perfCount))
	}
	if len(suppliers) > 0 {
		snapshot.ComplianceRate = round2(float64(compliant) / float64(len(suppliers)))
	}

	return snapshot
}

// AnalyzeTrendSeries 对一条指标序列给出趋势结论，点数不足时返回nil
func AnalyzeTrendSeries(dataPoints []TrendPoint, category string) *TrendAnalysis {
	if len(dataPoints) < 2 {
		return nil
	}

	latest := dataPoints[len(dataPoints)-1]
	previous := dataPoints[len(dataPoints)-2]
	changePercent := CalculateChangePercent(latest.Value, previous.Value)

	return &TrendAnalysis{
		Category:      category,
		Timeframe:     "Monthly",
		Trend:         DetermineTrend(changePercent),
		Significance:  DetermineSignificance(math.Abs(changePercent)),
		ChangePercent: round2(changePercent),
		CurrentValue:  latest.Value,
		PreviousValue: previous.Value,
		DataPoints:    dataPoints,
	}
}

// AnalyzeTrends 基于月度序列输出各指标的趋势分析
func AnalyzeTrends(suppliers []entity.Supplier, months int) []TrendAnalysis {
	trends := GeneratePerformanceTrends(suppliers, months)
	if len(trends) < 2 {
		return nil
	}

	series := []struct {
		category string
		value    func(MonthlyTrend) float64
	}{
		{"Overall Rating", func(t MonthlyTrend) float64 { return t.AverageRating }},
		{"Overall Performance", func(t MonthlyTrend) float64 { return t.AveragePerformance }},
		{"Supplier Count", func(t MonthlyTrend) float64 { return float64(t.TotalSuppliers) }},
		{"New Suppliers", func(t MonthlyTrend) float64 { return float64(t.NewSuppliers) }},
	}

	analyses := make([]TrendAnalysis, 0, len(series))
	for _, s := range series {
		points := make([]TrendPoint, 0, len(trends))
		for _, t := range trends {
			points = append(points, TrendPoint{
				Date:          t.Month + " " + strconv.Itoa(t.Year),
				Value:         s.value(t),
				SupplierCount: t.TotalSuppliers,
			})
		}
		if analysis := AnalyzeTrendSeries(points, s.category); analysis != nil {
			analyses = append(analyses, *analysis)
		}
	}

	return analyses
}
