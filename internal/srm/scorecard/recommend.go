package scorecard

import (
	"sort"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
)

// maxRecommendations 记分卡建议条数上限，保证产出可消化
const maxRecommendations = 8

// maxPriorityRecommendations 优先级建议条数上限
const maxPriorityRecommendations = 5

// defaultRecommendation 没有任何规则命中时的兜底建议
const defaultRecommendation = "Maintain current excellent performance standards"

// GenerateRecommendations 按维度规则生成改进建议。
// 各维度独立检查阈值并追加固定文案，结果去重、封顶8条；
// 全部规则未命中时返回单条兜底建议。
func GenerateRecommendations(s *entity.Supplier, overallScore float64, compliance ComplianceInfo, performance PerformanceMetrics) []string {
	var recommendations []string

	recommendations = append(recommendations, overallScoreRecommendations(overallScore)...)

	rating, _ := ExtractRating(s)
	recommendations = append(recommendations, ratingRecommendations(rating)...)
	recommendations = append(recommendations, performanceRecommendations(performance)...)
	recommendations = append(recommendations, complianceRecommendations(compliance.Score)...)

	if PrimaryContactEmail(s) == "" && PrimaryContactPhone(s) == "" {
		recommendations = append(recommendations, "Ensure complete contact information is on file")
	}

	recommendations = dedupe(recommendations)
	if len(recommendations) == 0 {
		return []string{defaultRecommendation}
	}
	if len(recommendations) > maxRecommendations {
		recommendations = recommendations[:maxRecommendations]
	}
	return recommendations
}

func overallScoreRecommendations(score float64) []string {
	switch {
	case score < 40:
		return []string{
			"Implement comprehensive performance improvement plan across all service areas",
			"Schedule urgent review meeting with supplier management",
			"Consider probationary status pending measurable improvement",
		}
	case score < 60:
		return []string{
			"Focus on key improvement areas to raise overall performance",
			"Establish monthly performance review cadence with improvement targets",
		}
	case score < 80:
		return []string{
			"Fine-tune operational processes to reach preferred supplier standards",
			"Target specific underperforming metrics with an improvement roadmap",
		}
	case score >= 90:
		return []string{
			"Share best practices with other suppliers in the network",
			"Consider expanding scope of engagement with this supplier",
		}
	default:
		return nil
	}
}

func ratingRecommendations(rating float64) []string {
	if rating == 0 {
		return nil
	}
	switch {
	case rating < 2.5:
		return []string{
			"Address service quality concerns as a matter of urgency",
			"Initiate corrective action plan for service delivery",
		}
	case rating < 3.5:
		return []string{
			"Develop quality improvement initiatives with measurable milestones",
		}
	case rating < 4.0:
		return []string{
			"Maintain regular relationship check-ins to support supplier retention",
		}
	default:
		return nil
	}
}

func performanceRecommendations(performance PerformanceMetrics) []string {
	var recommendations []string

	if performance.OnTimeDelivery > 0 {
		if performance.OnTimeDelivery < 80 {
			recommendations = append(recommendations, "Improve delivery scheduling and logistics coordination")
		} else if performance.OnTimeDelivery < 95 {
			recommendations = append(recommendations, "Implement delivery tracking to raise on-time delivery rates")
		}
	}
	if performance.QualityScore > 0 {
		if performance.QualityScore < 75 {
			recommendations = append(recommendations, "Enhance quality control processes to reduce defects")
		} else if performance.QualityScore < 90 {
			recommendations = append(recommendations, "Establish stricter quality checkpoints at key stages")
		}
	}
	if performance.ResponseTime > 0 && performance.ResponseTime < 70 {
		recommendations = append(recommendations, "Establish service level agreements for response times")
	}
	if performance.IssueResolution > 0 && performance.IssueResolution < 75 {
		recommendations = append(recommendations, "Strengthen issue escalation and resolution procedures")
	}

	return recommendations
}

func complianceRecommendations(score float64) []string {
	switch {
	case score < 60:
		return []string{
			"Address critical compliance gaps immediately",
			"Suspend new purchase orders pending compliance remediation",
			"Conduct full compliance audit with corrective action follow-up",
		}
	case score < 80:
		return []string{
			"Update compliance documentation and certifications",
			"Schedule compliance review with the documentation team",
		}
	case score < 90:
		return []string{
			"Maintain regular compliance monitoring cadence",
		}
	default:
		return nil
	}
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// GeneratePriorityRecommendations 带优先级/影响/投入/时间线标注的建议，封顶5条
func GeneratePriorityRecommendations(s *entity.Supplier, overallScore float64) []PriorityRecommendation {
	var recommendations []PriorityRecommendation

	if overallScore < 50 {
		recommendations = append(recommendations, PriorityRecommendation{
			Priority:       PriorityCritical,
			Category:       "Performance",
			Recommendation: "Immediate supplier performance review and improvement plan required",
			Impact:         LevelHigh,
			Effort:         LevelHigh,
			Timeline:       "1-2 weeks",
		})
	}

	if overallScore < 70 {
		recommendations = append(recommendations, PriorityRecommendation{
			Priority:       PriorityHigh,
			Category:       "Quality",
			Recommendation: "Implement quality improvement initiative",
			Impact:         LevelHigh,
			Effort:         LevelMedium,
			Timeline:       "1-3 months",
		})
	}

	if compliance := ExtractCompliance(s); compliance.Score > 0 && compliance.Score < 80 {
		recommendations = append(recommendations, PriorityRecommendation{
			Priority:       PriorityHigh,
			Category:       "Compliance",
			Recommendation: "Update compliance documentation and certifications",
			Impact:         LevelHigh,
			Effort:         LevelMedium,
			Timeline:       "2-4 weeks",
		})
	}

	if performance := ExtractPerformance(s); performance.OnTimeDelivery > 0 && performance.OnTimeDelivery < 90 {
		recommendations = append(recommendations, PriorityRecommendation{
			Priority:       PriorityMedium,
			Category:       "Delivery",
			Recommendation: "Improve delivery time consistency and logistics",
			Impact:         LevelMedium,
			Effort:         LevelMedium,
			Timeline:       "2-3 months",
		})
	}

	if s != nil && !s.IsPreferred && overallScore > 85 {
		recommendations = append(recommendations, PriorityRecommendation{
			Priority:       PriorityLow,
			Category:       "Strategic",
			Recommendation: "Evaluate for preferred supplier status",
			Impact:         LevelMedium,
			Effort:         LevelLow,
			Timeline:       "1 month",
		})
	}

	if len(recommendations) > maxPriorityRecommendations {
		recommendations = recommendations[:maxPriorityRecommendations]
	}
	return recommendations
}

var (
	impactScores   = map[string]float64{LevelHigh: 3, LevelMedium: 2, LevelLow: 1}
	effortScores   = map[string]float64{LevelHigh: 3, LevelMedium: 2, LevelLow: 1}
	priorityScores = map[string]float64{PriorityCritical: 4, PriorityHigh: 3, PriorityMedium: 2, PriorityLow: 1}
)

// RankByROI 按 roi = 影响*优先级/投入 对建议降序排序
func RankByROI(recommendations []PriorityRecommendation) []RankedRecommendation {
	ranked := make([]RankedRecommendation, 0, len(recommendations))
	for i, rec := range recommendations {
		effort := effortScores[rec.Effort]
		if effort == 0 {
			effort = 1
		}
		ranked = append(ranked, RankedRecommendation{
			Recommendation: rec,
			ROIScore:       impactScores[rec.Impact] * priorityScores[rec.Priority] / effort,
			PriorityRank:   i + 1,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ROIScore > ranked[j].ROIScore
	})
	return ranked
}
