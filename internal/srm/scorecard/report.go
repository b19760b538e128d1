package scorecard

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
)

// FormatTextReport 单个记分卡的多段文本报告，纯格式化不做新计算
func FormatTextReport(result *Result) string {
	card := result.Scorecard
	var b strings.Builder

	b.WriteString("SUPPLIER PERFORMANCE SCORECARD\n")
	b.WriteString("==============================\n\n")
	fmt.Fprintf(&b, "Supplier: %s (%s)\n", card.SupplierName, card.SupplierID)
	fmt.Fprintf(&b, "Generated: %s\n\n", card.LastUpdated.Format("2006-01-02 15:04"))

	fmt.Fprintf(&b, "OVERALL SCORE: %.0f/100\n\n", card.OverallScore)

	b.WriteString("RATINGS (0-5)\n")
	fmt.Fprintf(&b, "  Quality:       %.1f\n", card.Ratings.Quality)
	fmt.Fprintf(&b, "  Delivery:      %.1f\n", card.Ratings.Delivery)
	fmt.Fprintf(&b, "  Communication: %.1f\n", card.Ratings.Communication)
	fmt.Fprintf(&b, "  Pricing:       %.1f\n", card.Ratings.Pricing)
	fmt.Fprintf(&b, "  Reliability:   %.1f\n\n", card.Ratings.Reliability)

	b.WriteString("PERFORMANCE (0-100)\n")
	fmt.Fprintf(&b, "  On-time delivery: %.0f\n", card.Performance.OnTimeDelivery)
	fmt.Fprintf(&b, "  Quality score:    %.0f\n", card.Performance.QualityScore)
	fmt.Fprintf(&b, "  Response time:    %.0f\n", card.Performance.ResponseTime)
	fmt.Fprintf(&b, "  Issue resolution: %.0f\n\n", card.Performance.IssueResolution)

	fmt.Fprintf(&b, "COMPLIANCE: %.0f/100 (%s)\n\n", card.Compliance.Score, card.Compliance.Status)

	b.WriteString("TRENDS\n")
	fmt.Fprintf(&b, "  Last 3 months:  %.1f\n", card.Trends.Last3Months)
	fmt.Fprintf(&b, "  Last 6 months:  %.1f\n", card.Trends.Last6Months)
	fmt.Fprintf(&b, "  Last 12 months: %.1f\n\n", card.Trends.Last12Months)

	b.WriteString("BENCHMARKS\n")
	fmt.Fprintf(&b, "  Industry percentile: %.0f\n", card.Benchmarks.IndustryPercentile)
	fmt.Fprintf(&b, "  Category percentile: %.0f\n", card.Benchmarks.CategoryPercentile)
	fmt.Fprintf(&b, "  Peer comparison:     %s\n\n", card.Benchmarks.PeerComparison)

	if len(card.Recommendations) > 0 {
		b.WriteString("RECOMMENDATIONS\n")
		for i, rec := range card.Recommendations {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}

	if len(result.Warnings) > 0 {
		b.WriteString("WARNINGS\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "  - %s\n", w)
		}
	}

	return b.String()
}

// TrendsCSV 月度趋势序列的CSV投影
func TrendsCSV(trends []MonthlyTrend) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"month", "year", "total_suppliers", "new_suppliers", "active_suppliers",
		"average_rating", "average_performance", "compliance_rate",
		"top_performers", "under_performers",
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, t := range trends {
		record := []string{
			t.Month,
			strconv.Itoa(t.Year),
			strconv.Itoa(t.TotalSuppliers),
			strconv.Itoa(t.NewSuppliers),
			strconv.Itoa(t.ActiveSuppliers),
			strconv.FormatFloat(t.AverageRating, 'f', 2, 64),
			strconv.FormatFloat(t.AveragePerformance, 'f', 2, 64),
			strconv.FormatFloat(t.ComplianceRate, 'f', 2, 64),
			strconv.Itoa(t.TopPerformers),
			strconv.Itoa(t.UnderPerformers),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// BenchmarkStatsCSV 基准统计的CSV投影，按队列名排序输出
func BenchmarkStatsCSV(stats map[string]BenchmarkStats) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"cohort", "mean", "median", "q1", "q3", "min", "max", "standard_deviation", "sample_size"}
	if err := w.Write(header); err != nil {
		return "", err
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := stats[name]
		record := []string{
			name,
			strconv.FormatFloat(s.Mean, 'f', 2, 64),
			strconv.FormatFloat(s.Median, 'f', 2, 64),
			strconv.FormatFloat(s.Q1, 'f', 2, 64),
			strconv.FormatFloat(s.Q3, 'f', 2, 64),
			strconv.FormatFloat(s.Min, 'f', 2, 64),
			strconv.FormatFloat(s.Max, 'f', 2, 64),
			strconv.FormatFloat(s.StandardDeviation, 'f', 2, 64),
			strconv.Itoa(s.SampleSize),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	w.Flush()
	return buf.String(), w.Error()
}

// DashboardSummary 仪表盘汇总结构，供前端直接消费
type DashboardSummary struct {
	TotalSuppliers      int              `json:"total_suppliers"`
	ScoreDistribution   map[string]int   `json:"score_distribution"`
	ComplianceBreakdown map[string]int   `json:"compliance_breakdown"`
	TopPerformers       []RankedSupplier `json:"top_performers"`
	BottomPerformers    []RankedSupplier `json:"bottom_performers"`
	AverageScore        float64          `json:"average_score"`
}

// BuildDashboardSummary 汇总全体供应商的得分分布与合规分布
func BuildDashboardSummary(suppliers []entity.Supplier, weights Weights) DashboardSummary {
	summary := DashboardSummary{
		TotalSuppliers:      len(suppliers),
		ScoreDistribution:   map[string]int{},
		ComplianceBreakdown: map[string]int{},
	}

	ranked := rankSuppliers(suppliers, weights)
	var sum float64
	var scored int
	for _, r := range ranked {
		if r.Score == 0 {
			summary.ScoreDistribution["no_data"]++
			continue
		}
		sum += r.Score
		scored++
		switch {
		case r.Score >= 90:
			summary.ScoreDistribution["90-100"]++
		case r.Score >= 75:
			summary.ScoreDistribution["75-89"]++
		case r.Score >= 60:
			summary.ScoreDistribution["60-74"]++
		case r.Score >= 40:
			summary.ScoreDistribution["40-59"]++
		default:
			summary.ScoreDistribution["0-39"]++
		}
	}

	for i := range suppliers {
		summary.ComplianceBreakdown[ExtractCompliance(&suppliers[i]).Status]++
	}

	if scored > 0 {
		summary.AverageScore = round2(sum / float64(scored))
	}

	summary.TopPerformers = topN(ranked, 5)
	if len(ranked) > 0 {
		bottom := make([]RankedSupplier, len(ranked))
		copy(bottom, ranked)
		sort.SliceStable(bottom, func(i, j int) bool { return bottom[i].Score < bottom[j].Score })
		summary.BottomPerformers = topN(bottom, 5)
	}

	return summary
}
