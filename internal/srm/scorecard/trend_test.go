package scorecard

import (
	"testing"
	"time"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
)

func TestCalculateTrendsDeterministic(t *testing.T) {
	s := &entity.Supplier{ID: "sup-trend-001", Name: "Stable", CreatedAt: time.Now().AddDate(-2, 0, 0)}
	first := CalculateTrends(s, 75)
	second := CalculateTrends(s, 75)
	if first != second {
		t.Fatalf("expected identical trends for same supplier, got %+v vs %+v", first, second)
	}
}

func TestCalculateTrendsDifferentSuppliersDiffer(t *testing.T) {
	a := &entity.Supplier{ID: "sup-trend-a", Name: "A", CreatedAt: time.Now().AddDate(-2, 0, 0)}
	b := &entity.Supplier{ID: "sup-trend-b", Name: "B", CreatedAt: time.Now().AddDate(-2, 0, 0)}
	if CalculateTrends(a, 75) == CalculateTrends(b, 75) {
		t.Fatal("expected different suppliers to produce different trend variation")
	}
}

func TestCalculateTrendsBounded(t *testing.T) {
	for _, score := range []float64{0, 3, 50, 97, 100} {
		s := &entity.Supplier{ID: "sup-bound", Name: "Bound", CreatedAt: time.Now().AddDate(0, -1, 0)}
		trends := CalculateTrends(s, score)
		for _, v := range []float64{trends.Last3Months, trends.Last6Months, trends.Last12Months} {
			if v < 0 || v > 100 {
				t.Fatalf("trend value %v out of [0,100] for score %v", v, score)
			}
		}
	}
}

func TestCalculateMomentum(t *testing.T) {
	// 0.5*(80-70) + 0.3*(70-60) + 0.2*(80-60) = 5 + 3 + 4 = 12
	m := CalculateMomentum(TrendData{Last3Months: 80, Last6Months: 70, Last12Months: 60})
	if diff := m.Value - 12; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("momentum value = %v, want 12", m.Value)
	}
	if m.Direction != TrendImproving {
		t.Fatalf("direction = %v, want improving", m.Direction)
	}
	if m.Strength != MomentumStrong {
		t.Fatalf("strength = %v, want strong", m.Strength)
	}
}

func TestCalculateMomentumFlat(t *testing.T) {
	m := CalculateMomentum(TrendData{Last3Months: 70, Last6Months: 70, Last12Months: 70})
	if m.Value != 0 || m.Direction != TrendStable || m.Strength != MomentumWeak {
		t.Fatalf("expected flat momentum, got %+v", m)
	}
}

func TestCalculateMomentumDeclining(t *testing.T) {
	// 0.5*(-5) + 0.3*(-2) + 0.2*(-7) = -2.5 - 0.6 - 1.4 = -4.5
	m := CalculateMomentum(TrendData{Last3Months: 63, Last6Months: 68, Last12Months: 70})
	if m.Direction != TrendDeclining {
		t.Fatalf("direction = %v, want declining", m.Direction)
	}
	if m.Strength != MomentumModerate {
		t.Fatalf("strength = %v, want moderate", m.Strength)
	}
}

func TestCalculateChangePercent(t *testing.T) {
	cases := []struct {
		current, previous, want float64
	}{
		{110, 100, 10},
		{90, 100, -10},
		{100, 100, 0},
		{50, 0, 100}, // growth from zero baseline
		{0, 0, 0},
	}
	for _, tc := range cases {
		if got := CalculateChangePercent(tc.current, tc.previous); got != tc.want {
			t.Errorf("CalculateChangePercent(%v, %v) = %v, want %v", tc.current, tc.previous, got, tc.want)
		}
	}
}

func TestDetermineTrend(t *testing.T) {
	cases := []struct {
		change float64
		want   string
	}{
		{0, TrendStable},
		{1.9, TrendStable},
		{-1.9, TrendStable},
		{2, TrendImproving},
		{15, TrendImproving},
		{-2, TrendDeclining},
	}
	for _, tc := range cases {
		if got := DetermineTrend(tc.change); got != tc.want {
			t.Errorf("DetermineTrend(%v) = %v, want %v", tc.change, got, tc.want)
		}
	}
}

func TestDetermineSignificance(t *testing.T) {
	cases := []struct {
		change float64
		want   string
	}{
		{25, SignificanceHigh},
		{20, SignificanceMedium},
		{15, SignificanceMedium},
		{10, SignificanceLow},
		{1, SignificanceLow},
	}
	for _, tc := range cases {
		if got := DetermineSignificance(tc.change); got != tc.want {
			t.Errorf("DetermineSignificance(%v) = %v, want %v", tc.change, got, tc.want)
		}
	}
}

func TestGeneratePerformanceTrends(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	perf := entity.JSONB{"overallScore": 80.0}
	suppliers := []entity.Supplier{
		{
			ID: "old", Name: "Old", Status: entity.SupplierStatusActive,
			Rating:      &entity.RatingValue{Raw: 4.0},
			Performance: &perf,
			CreatedAt:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "new", Name: "New", Status: entity.SupplierStatusActive,
			Rating:    &entity.RatingValue{Raw: 3.0},
			CreatedAt: time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC),
		},
	}

	trends := generatePerformanceTrends(suppliers, 3, now)
	if len(trends) != 3 {
		t.Fatalf("expected 3 monthly snapshots, got %d", len(trends))
	}

	// June 2026: only the old supplier exists
	june := trends[0]
	if june.Month != "June" || june.Year != 2026 {
		t.Fatalf("unexpected first month: %s %d", june.Month, june.Year)
	}
	if june.TotalSuppliers != 1 || june.NewSuppliers != 0 {
		t.Fatalf("june: total=%d new=%d, want 1/0", june.TotalSuppliers, june.NewSuppliers)
	}
	if june.AverageRating != 4.0 {
		t.Fatalf("june average rating = %v, want 4.0", june.AverageRating)
	}

	// July 2026: second supplier onboards that month
	july := trends[1]
	if july.TotalSuppliers != 2 || july.NewSuppliers != 1 {
		t.Fatalf("july: total=%d new=%d, want 2/1", july.TotalSuppliers, july.NewSuppliers)
	}
	if july.AverageRating != 3.5 {
		t.Fatalf("july average rating = %v, want 3.5", july.AverageRating)
	}
	if july.AveragePerformance != 80 {
		t.Fatalf("july average performance = %v, want 80", july.AveragePerformance)
	}
	if july.ActiveSuppliers != 2 {
		t.Fatalf("july active = %d, want 2", july.ActiveSuppliers)
	}

	august := trends[2]
	if august.Month != "August" || august.NewSuppliers != 0 {
		t.Fatalf("unexpected last month: %s new=%d", august.Month, august.NewSuppliers)
	}
}

func TestAnalyzeTrendSeries(t *testing.T) {
	points := []TrendPoint{
		{Date: "June 2026", Value: 50, SupplierCount: 10},
		{Date: "July 2026", Value: 65, SupplierCount: 12},
	}
	analysis := AnalyzeTrendSeries(points, "Overall Performance")
	if analysis == nil {
		t.Fatal("expected analysis, got nil")
	}
	if analysis.Trend != TrendImproving {
		t.Errorf("trend = %v, want improving", analysis.Trend)
	}
	if analysis.ChangePercent != 30 {
		t.Errorf("change percent = %v, want 30", analysis.ChangePercent)
	}
	if analysis.Significance != SignificanceHigh {
		t.Errorf("significance = %v, want high", analysis.Significance)
	}
	if analysis.Timeframe != "Monthly" {
		t.Errorf("timeframe = %v, want Monthly", analysis.Timeframe)
	}
	if analysis.CurrentValue != 65 || analysis.PreviousValue != 50 {
		t.Errorf("current/previous = %v/%v", analysis.CurrentValue, analysis.PreviousValue)
	}
}

func TestAnalyzeTrendSeriesTooShort(t *testing.T) {
	if got := AnalyzeTrendSeries([]TrendPoint{{Value: 50}}, "x"); got != nil {
		t.Fatalf("expected nil for single point, got %+v", got)
	}
	if got := AnalyzeTrendSeries(nil, "x"); got != nil {
		t.Fatalf("expected nil for empty series, got %+v", got)
	}
}

func TestAnalyzeTrends(t *testing.T) {
	suppliers := []entity.Supplier{
		{
			ID: "s1", Name: "S1", Status: entity.SupplierStatusActive,
			Rating:    &entity.RatingValue{Raw: 4.0},
			CreatedAt: time.Now().AddDate(-1, 0, 0),
		},
	}
	analyses := AnalyzeTrends(suppliers, 3)
	if len(analyses) != 4 {
		t.Fatalf("expected 4 metric analyses, got %d", len(analyses))
	}
	categories := map[string]bool{}
	for _, a := range analyses {
		categories[a.Category] = true
		if len(a.DataPoints) != 3 {
			t.Errorf("%s: expected 3 data points, got %d", a.Category, len(a.DataPoints))
		}
	}
	for _, want := range []string{"Overall Rating", "Overall Performance", "Supplier Count", "New Suppliers"} {
		if !categories[want] {
			t.Errorf("missing analysis for %q", want)
		}
	}
}
