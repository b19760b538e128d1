package handler

import (
	"net/http"
	"testing"

	"go.uber.org/zap"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
	"github.com/velocityfibre/fibreflow/internal/srm/repository"
	"github.com/velocityfibre/fibreflow/internal/srm/service"
	"github.com/velocityfibre/fibreflow/internal/srm/testutil"
)

func setupAnalyticsTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repo := repository.NewSupplierRepository(db)
	cache := service.NewCohortCache(nil, 0, nil)
	svc := service.NewScorecardService(repo, cache, zap.NewNop())
	h := NewAnalyticsHandler(svc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/srm")
	api.GET("/analytics/trends", h.GetTrends)
	api.GET("/analytics/benchmarks", h.GetBenchmarks)
	api.GET("/analytics/dashboard", h.GetDashboard)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func seedAnalyticsSuppliers(t *testing.T, env *testutil.TestEnv) {
	t.Helper()
	cats := entity.JSONBArray{"drop cable"}
	testutil.SeedSupplier(t, env.DB, &entity.Supplier{
		ID: "sup-a1", Name: "Analytics A", Status: "active", BusinessType: "manufacturer",
		Rating: &entity.RatingValue{Raw: 4.5}, Categories: &cats,
	})
	testutil.SeedSupplier(t, env.DB, &entity.Supplier{
		ID: "sup-a2", Name: "Analytics B", Status: "active", BusinessType: "distributor",
		Rating: &entity.RatingValue{Raw: 3.0},
	})
	testutil.SeedSupplier(t, env.DB, &entity.Supplier{
		ID: "sup-a3", Name: "Analytics C", Status: "pending",
	})
}

// TestGetTrendsEndpoint tests the trends response and months clamping
func TestGetTrendsEndpoint(t *testing.T) {
	env := setupAnalyticsTest(t)
	token := testutil.DefaultTestToken()
	seedAnalyticsSuppliers(t, env)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/srm/analytics/trends?months=6", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["months"].(float64) != 6 {
		t.Fatalf("expected months 6, got %v", data["months"])
	}
	trends := data["trends"].([]interface{})
	if len(trends) != 6 {
		t.Fatalf("expected 6 monthly buckets, got %d", len(trends))
	}
	latest := trends[len(trends)-1].(map[string]interface{})
	if latest["total_suppliers"].(float64) != 3 {
		t.Fatalf("expected 3 suppliers in latest bucket, got %v", latest["total_suppliers"])
	}

	// Invalid months falls back to the default window
	w = testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/srm/analytics/trends?months=abc", nil, token)
	resp = testutil.ParseResponse(w)
	if resp["data"].(map[string]interface{})["months"].(float64) != 12 {
		t.Fatalf("expected default 12 months, got %v", resp["data"])
	}
}

// TestGetBenchmarksEndpoint tests the cohort stats response
func TestGetBenchmarksEndpoint(t *testing.T) {
	env := setupAnalyticsTest(t)
	token := testutil.DefaultTestToken()
	seedAnalyticsSuppliers(t, env)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/srm/analytics/benchmarks", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	overall, ok := data["overall"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected overall cohort, got %v", data)
	}
	// Suppliers without signals stay out of the sample
	if overall["sample_size"].(float64) != 2 {
		t.Fatalf("expected sample size 2, got %v", overall["sample_size"])
	}
	if _, ok := data["category:drop cable"]; !ok {
		t.Fatalf("expected category cohort, got keys %v", data)
	}
	if _, ok := data["business_type:manufacturer"]; !ok {
		t.Fatalf("expected business type cohort, got keys %v", data)
	}
}

// TestGetDashboardEndpoint tests the dashboard summary
func TestGetDashboardEndpoint(t *testing.T) {
	env := setupAnalyticsTest(t)
	token := testutil.DefaultTestToken()
	seedAnalyticsSuppliers(t, env)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/srm/analytics/dashboard", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["total_suppliers"].(float64) != 3 {
		t.Fatalf("expected 3 suppliers, got %v", data["total_suppliers"])
	}
	dist := data["score_distribution"].(map[string]interface{})
	if dist["no_data"].(float64) != 1 {
		t.Fatalf("expected 1 no_data supplier, got %v", dist)
	}
	top := data["top_performers"].([]interface{})
	if len(top) != 3 {
		t.Fatalf("expected 3 ranked performers, got %d", len(top))
	}
	if top[0].(map[string]interface{})["name"] != "Analytics A" {
		t.Fatalf("expected Analytics A on top, got %v", top[0])
	}
}
