package scorecard

import (
	"math"
	"testing"
	"time"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
)

func supplierWithRating(raw interface{}) *entity.Supplier {
	return &entity.Supplier{
		ID:     "sup-001",
		Name:   "Test Supplier",
		Rating: &entity.RatingValue{Raw: raw},
	}
}

func TestExtractRatingScalar(t *testing.T) {
	overall, breakdown := ExtractRating(supplierWithRating(4.2))
	if overall != 4.2 {
		t.Fatalf("expected overall 4.2, got %v", overall)
	}
	// Scalar form spreads the overall value across all dimensions
	if breakdown.Quality != 4.2 || breakdown.Reliability != 4.2 {
		t.Fatalf("expected uniform breakdown 4.2, got %+v", breakdown)
	}
}

func TestExtractRatingObject(t *testing.T) {
	raw := map[string]interface{}{
		"overall": 3.8,
		"breakdown": map[string]interface{}{
			"quality":       4.0,
			"delivery":      3.5,
			"communication": 4.5,
			"pricing":       3.0,
			"reliability":   4.0,
		},
	}
	overall, breakdown := ExtractRating(supplierWithRating(raw))
	if overall != 3.8 {
		t.Fatalf("expected overall 3.8, got %v", overall)
	}
	if breakdown.Delivery != 3.5 || breakdown.Communication != 4.5 {
		t.Fatalf("unexpected breakdown: %+v", breakdown)
	}
}

func TestExtractRatingObjectWithoutBreakdown(t *testing.T) {
	raw := map[string]interface{}{"overall": 4.0}
	overall, breakdown := ExtractRating(supplierWithRating(raw))
	if overall != 4.0 {
		t.Fatalf("expected overall 4.0, got %v", overall)
	}
	if breakdown.Pricing != 4.0 {
		t.Fatalf("expected uniform breakdown, got %+v", breakdown)
	}
}

func TestExtractRatingInvalid(t *testing.T) {
	cases := []struct {
		name string
		raw  interface{}
	}{
		{"out of range high", 7.5},
		{"negative", -1.0},
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
		{"wrong type", "excellent"},
		{"nil raw", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			overall, breakdown := ExtractRating(supplierWithRating(tc.raw))
			if overall != 0 {
				t.Fatalf("expected 0 for %s, got %v", tc.name, overall)
			}
			if breakdown != (RatingBreakdown{}) {
				t.Fatalf("expected empty breakdown for %s, got %+v", tc.name, breakdown)
			}
		})
	}
}

func TestExtractRatingNilSupplier(t *testing.T) {
	overall, _ := ExtractRating(nil)
	if overall != 0 {
		t.Fatalf("expected 0 for nil supplier, got %v", overall)
	}
	overall, _ = ExtractRating(&entity.Supplier{})
	if overall != 0 {
		t.Fatalf("expected 0 for missing rating, got %v", overall)
	}
}

func TestExtractPerformance(t *testing.T) {
	perf := entity.JSONB{
		"onTimeDelivery":  88.0,
		"qualityScore":    92.5,
		"responseTime":    150.0, // out of range, must be dropped
		"issueResolution": "high", // wrong type, must be dropped
		"overallScore":    90.0,
	}
	metrics := ExtractPerformance(&entity.Supplier{Performance: &perf})
	if metrics.OnTimeDelivery != 88 || metrics.QualityScore != 92.5 {
		t.Fatalf("unexpected metrics: %+v", metrics)
	}
	if metrics.ResponseTime != 0 {
		t.Fatalf("expected out-of-range responseTime to be 0, got %v", metrics.ResponseTime)
	}
	if metrics.IssueResolution != 0 {
		t.Fatalf("expected non-numeric issueResolution to be 0, got %v", metrics.IssueResolution)
	}
}

func TestExtractPerformanceMissing(t *testing.T) {
	metrics := ExtractPerformance(&entity.Supplier{})
	if metrics != (PerformanceMetrics{}) {
		t.Fatalf("expected zero metrics, got %+v", metrics)
	}
}

func TestExtractComplianceNumericScore(t *testing.T) {
	cs := entity.JSONB{
		"complianceScore": 95.0,
		"lastCheck":       "2026-05-01T10:00:00Z",
	}
	info := ExtractCompliance(&entity.Supplier{ComplianceStatus: &cs})
	if info.Score != 95 {
		t.Fatalf("expected score 95, got %v", info.Score)
	}
	if info.Status != ComplianceExcellent {
		t.Fatalf("expected Excellent, got %v", info.Status)
	}
	want := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	if !info.LastCheck.Equal(want) {
		t.Fatalf("expected lastCheck %v, got %v", want, info.LastCheck)
	}
}

func TestExtractComplianceFlagFallback(t *testing.T) {
	cs := entity.JSONB{
		"taxCompliant":      true,
		"beeCompliant":      true,
		"isoCompliant":      false,
		"documentsVerified": true,
	}
	info := ExtractCompliance(&entity.Supplier{ComplianceStatus: &cs})
	// 30 (tax) + 25 (bee) + 20 (documents)
	if info.Score != 75 {
		t.Fatalf("expected flag-derived score 75, got %v", info.Score)
	}
	if info.Status != ComplianceAcceptable {
		t.Fatalf("expected Acceptable, got %v", info.Status)
	}
}

func TestExtractComplianceMissing(t *testing.T) {
	info := ExtractCompliance(&entity.Supplier{})
	if info.Score != 0 {
		t.Fatalf("expected score 0, got %v", info.Score)
	}
	if info.Status != ComplianceCritical {
		t.Fatalf("expected Critical, got %v", info.Status)
	}
}

func TestComplianceStatusFor(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{95, ComplianceExcellent},
		{90, ComplianceExcellent},
		{85, ComplianceGood},
		{80, ComplianceGood},
		{70, ComplianceAcceptable},
		{60, ComplianceAcceptable},
		{50, ComplianceNeedsImprovement},
		{40, ComplianceNeedsImprovement},
		{30, ComplianceCritical},
		{0, ComplianceCritical},
	}
	for _, tc := range cases {
		if got := ComplianceStatusFor(tc.score); got != tc.want {
			t.Errorf("ComplianceStatusFor(%v) = %v, want %v", tc.score, got, tc.want)
		}
	}
}

func TestPrimaryContactHelpers(t *testing.T) {
	pc := entity.JSONB{"name": "Jane", "email": "jane@example.com", "phone": "021-555-0100"}
	s := &entity.Supplier{PrimaryContact: &pc}
	if !HasPrimaryContact(s) {
		t.Fatal("expected HasPrimaryContact true")
	}
	if PrimaryContactEmail(s) != "jane@example.com" {
		t.Fatalf("unexpected email: %v", PrimaryContactEmail(s))
	}
	if PrimaryContactPhone(s) != "021-555-0100" {
		t.Fatalf("unexpected phone: %v", PrimaryContactPhone(s))
	}

	empty := &entity.Supplier{}
	if HasPrimaryContact(empty) {
		t.Fatal("expected HasPrimaryContact false for missing contact")
	}
	if PrimaryContactEmail(empty) != "" {
		t.Fatal("expected empty email for missing contact")
	}
}
