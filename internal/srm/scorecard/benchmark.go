package scorecard

import (
	"math"
	"sort"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
)

// neutralPercentile 空队列时的中性默认值，避免无同行可比时出现未定义行为
const neutralPercentile = 50

// CalculatePercentile 计算 value 在升序队列中的百分位。
// 取第一个不小于 value 的下标，percentile = index/len*100；
// 高于全部队列值时为100；空队列返回中性的50。
func CalculatePercentile(value float64, sortedAscending []float64) float64 {
	if len(sortedAscending) == 0 {
		return neutralPercentile
	}
	for i, v := range sortedAscending {
		if v >= value {
			return float64(i) / float64(len(sortedAscending)) * 100
		}
	}
	return 100
}

// CalculateBenchmarkStats 升序排序后的最近秩四分位统计。
// 四分位下标 floor((n+1)*p)-1，夹在数组边界内；标准差为总体标准差。
func CalculateBenchmarkStats(values []float64) BenchmarkStats {
	if len(values) == 0 {
		return BenchmarkStats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	var variance float64
	for _, v := range sorted {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(n)

	return BenchmarkStats{
		Mean:              round2(mean),
		Median:            nearestRank(sorted, 0.5),
		Q1:                nearestRank(sorted, 0.25),
		Q3:                nearestRank(sorted, 0.75),
		Min:               sorted[0],
		Max:               sorted[n-1],
		StandardDeviation: round2(math.Sqrt(variance)),
		SampleSize:        n,
	}
}

func nearestRank(sortedAscending []float64, p float64) float64 {
	idx := int(math.Floor(float64(len(sortedAscending)+1)*p)) - 1
	if idx < 0 {
		idx = 0
	}
	if idx > len(sortedAscending)-1 {
		idx = len(sortedAscending) - 1
	}
	return sortedAscending[idx]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateBenchmarks 针对全行业与同类目队列计算百分位。
// 队列成员的得分用同一套权重现算，0分（无数据）成员剔除。
func CalculateBenchmarks(subject *entity.Supplier, cohort []entity.Supplier, weights Weights) BenchmarkData {
	subjectScore := CalculateOverallScore(subject, weights)

	industryScores := cohortScores(cohort, weights, nil)
	industryPercentile := math.Round(CalculatePercentile(subjectScore, industryScores))

	categoryPercentile := float64(neutralPercentile)
	if tags := subject.CategoryTags(); len(tags) > 0 {
		categoryScores := cohortScores(cohort, weights, func(s *entity.Supplier) bool {
			return sharesCategory(tags, s.CategoryTags())
		})
		categoryPercentile = math.Round(CalculatePercentile(subjectScore, categoryScores))
	}

	return BenchmarkData{
		IndustryPercentile: industryPercentile,
		CategoryPercentile: categoryPercentile,
		PeerComparison:     PeerComparisonFor(industryPercentile),
	}
}

// PeerComparisonFor 百分位到同行对比结论：≥75 above，≤25 below，其余 at
func PeerComparisonFor(industryPercentile float64) string {
	switch {
	case industryPercentile >= 75:
		return PeerAbove
	case industryPercentile <= 25:
		return PeerBelow
	default:
		return PeerAt
	}
}

// cohortScores 队列成员得分，升序；filter 为 nil 时不过滤
func cohortScores(cohort []entity.Supplier, weights Weights, filter func(*entity.Supplier) bool) []float64 {
	scores := make([]float64, 0, len(cohort))
	for i := range cohort {
		if filter != nil && !filter(&cohort[i]) {
			continue
		}
		if score := CalculateOverallScore(&cohort[i], weights); score > 0 {
			scores = append(scores, score)
		}
	}
	sort.Float64s(scores)
	return scores
}

func sharesCategory(subject, other []string) bool {
	for _, a := range subject {
		for _, b := range other {
			if a == b {
				return true
			}
		}
	}
	return false
}

// CalculateRegionalBenchmarks 区域基准：同区域队列的百分位、均分与前5名
func CalculateRegionalBenchmarks(subject *entity.Supplier, cohort []entity.Supplier, weights Weights) RegionalBenchmarks {
	regional := make([]entity.Supplier, 0)
	for i := range cohort {
		if cohort[i].Region != "" && cohort[i].Region == subject.Region {
			regional = append(regional, cohort[i])
		}
	}

	if len(regional) == 0 {
		return RegionalBenchmarks{
			RegionalPercentile:   neutralPercentile,
			TopRegionalSuppliers: []RankedSupplier{},
		}
	}

	subjectScore := CalculateOverallScore(subject, weights)
	ranked := rankSuppliers(regional, weights)

	var sum float64
	sorted := make([]float64, 0, len(ranked))
	for _, r := range ranked {
		sum += r.Score
		sorted = append(sorted, r.Score)
	}
	sort.Float64s(sorted)

	return RegionalBenchmarks{
		RegionalPercentile:   math.Round(CalculatePercentile(subjectScore, sorted)),
		RegionalAverage:      math.Round(sum / float64(len(ranked))),
		TopRegionalSuppliers: topN(ranked, 5),
	}
}

// CalculateCategoryBenchmarks 单一类目的基准：百分位、均分与前3名
func CalculateCategoryBenchmarks(subject *entity.Supplier, category string, cohort []entity.Supplier, weights Weights) CategoryBenchmark {
	members := make([]entity.Supplier, 0)
	for i := range cohort {
		if containsTag(cohort[i].CategoryTags(), category) {
			members = append(members, cohort[i])
		}
	}

	if len(members) == 0 {
		return CategoryBenchmark{
			Category:           category,
			CategoryPercentile: neutralPercentile,
			CategoryLeaders:    []RankedSupplier{},
		}
	}

	subjectScore := CalculateOverallScore(subject, weights)
	ranked := rankSuppliers(members, weights)

	var sum float64
	sorted := make([]float64, 0, len(ranked))
	for _, r := range ranked {
		sum += r.Score
		sorted = append(sorted, r.Score)
	}
	sort.Float64s(sorted)

	return CategoryBenchmark{
		Category:           category,
		CategoryPercentile: math.Round(CalculatePercentile(subjectScore, sorted)),
		CategoryAverage:    math.Round(sum / float64(len(ranked))),
		CategoryLeaders:    topN(ranked, 3),
	}
}

// rankSuppliers 按得分降序排名
func rankSuppliers(suppliers []entity.Supplier, weights Weights) []RankedSupplier {
	ranked := make([]RankedSupplier, 0, len(suppliers))
	for i := range suppliers {
		ranked = append(ranked, RankedSupplier{
			Name:  suppliers[i].DisplayName(),
			Score: CalculateOverallScore(&suppliers[i], weights),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func topN(ranked []RankedSupplier, n int) []RankedSupplier {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]RankedSupplier, n)
	copy(out, ranked[:n])
	return out
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
