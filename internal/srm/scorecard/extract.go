package scorecard

import (
	"math"
	"time"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
)

// 合规分数缺失时按布尔合规标志折算的分值
const (
	taxCompliantScore      = 30
	beeCompliantScore      = 25
	isoCompliantScore      = 25
	documentsVerifiedScore = 20
)

// numField 从松散map中取数值字段，非有限数值一律按缺失处理
func numField(m map[string]interface{}, key string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// boundedField 取数值字段并校验范围，越界或缺失返回0
func boundedField(m map[string]interface{}, key string, min, max float64) float64 {
	f, ok := numField(m, key)
	if !ok || f < min || f > max {
		return 0
	}
	return f
}

func boolField(m map[string]interface{}, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

// ExtractRating 解析评级字段。历史数据存在两种形态：
// 0-5 标量，或 {overall, breakdown} 对象；在这里一次性归一，
// 下游不再区分形态。
func ExtractRating(s *entity.Supplier) (float64, RatingBreakdown) {
	if s == nil || s.Rating == nil || s.Rating.Raw == nil {
		return 0, RatingBreakdown{}
	}

	switch v := s.Rating.Raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 5 {
			return 0, RatingBreakdown{}
		}
		return v, uniformBreakdown(v)
	case map[string]interface{}:
		overall := boundedField(v, "overall", 0, 5)
		breakdown, ok := v["breakdown"].(map[string]interface{})
		if !ok {
			return overall, uniformBreakdown(overall)
		}
		return overall, RatingBreakdown{
			Quality:       boundedField(breakdown, "quality", 0, 5),
			Delivery:      boundedField(breakdown, "delivery", 0, 5),
			Communication: boundedField(breakdown, "communication", 0, 5),
			Pricing:       boundedField(breakdown, "pricing", 0, 5),
			Reliability:   boundedField(breakdown, "reliability", 0, 5),
		}
	default:
		return 0, RatingBreakdown{}
	}
}

func uniformBreakdown(overall float64) RatingBreakdown {
	return RatingBreakdown{
		Quality:       overall,
		Delivery:      overall,
		Communication: overall,
		Pricing:       overall,
		Reliability:   overall,
	}
}

// ExtractPerformance 解析绩效指标，缺失/非法字段归0，整体缺失返回全0
func ExtractPerformance(s *entity.Supplier) PerformanceMetrics {
	if s == nil || s.Performance == nil {
		return PerformanceMetrics{}
	}
	m := map[string]interface{}(*s.Performance)
	return PerformanceMetrics{
		OnTimeDelivery:  boundedField(m, "onTimeDelivery", 0, 100),
		QualityScore:    boundedField(m, "qualityScore", 0, 100),
		ResponseTime:    boundedField(m, "responseTime", 0, 100),
		IssueResolution: boundedField(m, "issueResolution", 0, 100),
		OverallScore:    boundedField(m, "overallScore", 0, 100),
	}
}

// ExtractCompliance 解析合规信息。没有数值合规分时退回按布尔标志折算。
func ExtractCompliance(s *entity.Supplier) ComplianceInfo {
	info := ComplianceInfo{Status: ComplianceCritical}
	if s == nil || s.ComplianceStatus == nil {
		return info
	}
	m := map[string]interface{}(*s.ComplianceStatus)

	score := boundedField(m, "complianceScore", 0, 100)
	if score == 0 {
		score = complianceScoreFromFlags(m)
	}

	info.Score = score
	info.Status = ComplianceStatusFor(score)
	info.LastCheck = complianceLastCheck(m)
	return info
}

func complianceScoreFromFlags(m map[string]interface{}) float64 {
	var score float64
	var factors int
	if boolField(m, "taxCompliant") {
		score += taxCompliantScore
		factors++
	}
	if boolField(m, "beeCompliant") {
		score += beeCompliantScore
		factors++
	}
	if boolField(m, "isoCompliant") {
		score += isoCompliantScore
		factors++
	}
	if boolField(m, "documentsVerified") {
		score += documentsVerifiedScore
		factors++
	}
	if factors == 0 {
		return 0
	}
	return score
}

func complianceLastCheck(m map[string]interface{}) time.Time {
	raw, ok := m["lastCheck"].(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ComplianceStatusFor 合规分到状态档位的映射
func ComplianceStatusFor(score float64) string {
	switch {
	case score >= 90:
		return ComplianceExcellent
	case score >= 80:
		return ComplianceGood
	case score >= 60:
		return ComplianceAcceptable
	case score >= 40:
		return ComplianceNeedsImprovement
	default:
		return ComplianceCritical
	}
}

// PrimaryContactEmail 主联系人邮箱，缺失返回空串
func PrimaryContactEmail(s *entity.Supplier) string {
	return contactField(s, "email")
}

// PrimaryContactPhone 主联系人电话，缺失返回空串
func PrimaryContactPhone(s *entity.Supplier) string {
	return contactField(s, "phone")
}

func contactField(s *entity.Supplier, key string) string {
	if s == nil || s.PrimaryContact == nil {
		return ""
	}
	v, _ := map[string]interface{}(*s.PrimaryContact)[key].(string)
	return v
}

// HasPrimaryContact 是否有主联系人记录
func HasPrimaryContact(s *entity.Supplier) bool {
	return s != nil && s.PrimaryContact != nil && len(*s.PrimaryContact) > 0
}
