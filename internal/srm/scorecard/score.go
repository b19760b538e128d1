package scorecard

import (
	"math"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
)

// Weights 综合得分各信号的权重，可由调用方覆盖
type Weights struct {
	Rating         float64 `json:"rating"`
	Performance    float64 `json:"performance"`
	Compliance     float64 `json:"compliance"`
	Preferred      float64 `json:"preferred"`
	Responsiveness float64 `json:"responsiveness"`
}

// DefaultWeights 默认权重：评级30、绩效25、合规25、优选10、响应能力10
func DefaultWeights() Weights {
	return Weights{
		Rating:         30,
		Performance:    25,
		Compliance:     25,
		Preferred:      10,
		Responsiveness: 10,
	}
}

// 响应能力启发式打分：有主联系人邮箱视为响应通道完备
const (
	responseScoreWithEmail   = 80
	responseScoreContactOnly = 40
)

// ScoreBreakdown 各信号对综合得分的贡献明细
type ScoreBreakdown struct {
	Rating         float64 `json:"rating"`
	Performance    float64 `json:"performance"`
	Compliance     float64 `json:"compliance"`
	Preferred      float64 `json:"preferred"`
	Responsiveness float64 `json:"responsiveness"`
	WeightUsed     float64 `json:"weight_used"`
}

// CalculateOverallScore 计算 0-100 综合得分。
// 每个信号按 (归一值/量程)*权重 计入分子、权重计入分母；
// 值为0的信号（即数据缺失）同时从分子分母剔除，缺数据
// 只是不参与评分，不会把得分拉向0。全部缺失时得0分。
func CalculateOverallScore(s *entity.Supplier, weights Weights) float64 {
	score, _ := calculateScore(s, weights)
	return score
}

// CalculateDetailedScore 综合得分 + 各信号贡献明细
func CalculateDetailedScore(s *entity.Supplier, weights Weights) (float64, ScoreBreakdown) {
	return calculateScore(s, weights)
}

func calculateScore(s *entity.Supplier, weights Weights) (float64, ScoreBreakdown) {
	var totalScore, weightedSum float64
	var breakdown ScoreBreakdown

	rating, _ := ExtractRating(s)
	if rating > 0 && weights.Rating > 0 {
		contribution := rating / 5 * weights.Rating
		totalScore += contribution
		weightedSum += weights.Rating
		breakdown.Rating = contribution
	}

	performance := ExtractPerformance(s)
	if performance.OverallScore > 0 && weights.Performance > 0 {
		contribution := performance.OverallScore / 100 * weights.Performance
		totalScore += contribution
		weightedSum += weights.Performance
		breakdown.Performance = contribution
	}

	compliance := ExtractCompliance(s)
	if compliance.Score > 0 && weights.Compliance > 0 {
		contribution := compliance.Score / 100 * weights.Compliance
		totalScore += contribution
		weightedSum += weights.Compliance
		breakdown.Compliance = contribution
	}

	if s != nil && s.IsPreferred && weights.Preferred > 0 {
		totalScore += weights.Preferred
		weightedSum += weights.Preferred
		breakdown.Preferred = weights.Preferred
	}

	if response := responseCapabilityScore(s); response > 0 && weights.Responsiveness > 0 {
		contribution := response / 100 * weights.Responsiveness
		totalScore += contribution
		weightedSum += weights.Responsiveness
		breakdown.Responsiveness = contribution
	}

	breakdown.WeightUsed = weightedSum
	if weightedSum == 0 {
		return 0, breakdown
	}
	return math.Round(totalScore / weightedSum * 100), breakdown
}

// responseCapabilityScore 响应能力启发式：有邮箱80分，仅有联系人记录40分，
// 完全没有联系人按数据缺失处理（0分，随缺失剔除规则不参与评分）。
func responseCapabilityScore(s *entity.Supplier) float64 {
	if !HasPrimaryContact(s) {
		return 0
	}
	if PrimaryContactEmail(s) != "" {
		return responseScoreWithEmail
	}
	return responseScoreContactOnly
}
