package handler

import (
	"net/http"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/velocityfibre/fibreflow/internal/srm/entity"
	"github.com/velocityfibre/fibreflow/internal/srm/repository"
	"github.com/velocityfibre/fibreflow/internal/srm/service"
	"github.com/velocityfibre/fibreflow/internal/srm/testutil"
)

func setupScorecardTest(t *testing.T) *testutil.TestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)

	repo := repository.NewSupplierRepository(db)
	cache := service.NewCohortCache(nil, 0, nil)
	svc := service.NewScorecardService(repo, cache, zap.NewNop())
	exportSvc := service.NewExportService(nil, "", nil)
	h := NewScorecardHandler(svc, exportSvc)

	router := testutil.SetupRouter()
	api := testutil.AuthGroup(router, "/api/v1/srm")
	api.GET("/suppliers/:id/scorecard", h.GetScorecard)
	api.GET("/suppliers/:id/scorecard/enhanced", h.GetEnhancedScorecard)
	api.GET("/suppliers/:id/scorecard/report", h.GetScorecardReport)
	api.POST("/scorecards/batch", h.BatchScorecards)
	api.POST("/scorecards/compare", h.CompareScorecards)
	api.POST("/scorecards/export", h.ExportScorecards)

	return &testutil.TestEnv{DB: db, Router: router, T: t}
}

func seedScoredSupplier(t *testing.T, env *testutil.TestEnv, id, name string, rating float64) {
	t.Helper()
	perf := entity.JSONB{"onTimeDelivery": 90.0, "qualityScore": 85.0, "overallScore": 88.0}
	cs := entity.JSONB{"complianceScore": 92.0}
	pc := entity.JSONB{"name": "Sipho", "email": "sipho@" + id + ".example"}
	testutil.SeedSupplier(t, env.DB, &entity.Supplier{
		ID:               id,
		Name:             name,
		Status:           "active",
		Rating:           &entity.RatingValue{Raw: rating},
		Performance:      &perf,
		ComplianceStatus: &cs,
		PrimaryContact:   &pc,
	})
}

// TestGetScorecardEndpoint tests the full scorecard response shape
func TestGetScorecardEndpoint(t *testing.T) {
	env := setupScorecardTest(t)
	token := testutil.DefaultTestToken()

	seedScoredSupplier(t, env, "sup-sc1", "Scored Supplier", 4.2)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/srm/suppliers/sup-sc1/scorecard", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	card := data["scorecard"].(map[string]interface{})
	if card["supplier_name"] != "Scored Supplier" {
		t.Fatalf("unexpected supplier name: %v", card["supplier_name"])
	}
	score := card["overall_score"].(float64)
	if score <= 0 || score > 100 {
		t.Fatalf("score out of range: %v", score)
	}
	if card["compliance"].(map[string]interface{})["status"] != "Excellent" {
		t.Fatalf("expected Excellent compliance, got %v", card["compliance"])
	}
	if _, ok := card["benchmarks"].(map[string]interface{}); !ok {
		t.Fatal("expected benchmarks in default response")
	}
}

// TestGetScorecardOptionsOff tests disabling optional stages via query flags
func TestGetScorecardOptionsOff(t *testing.T) {
	env := setupScorecardTest(t)
	token := testutil.DefaultTestToken()

	seedScoredSupplier(t, env, "sup-sc2", "Flagged Supplier", 3.8)

	w := testutil.DoRequest(env.Router, http.MethodGet,
		"/api/v1/srm/suppliers/sup-sc2/scorecard?recommendations=false&benchmarks=false", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	card := resp["data"].(map[string]interface{})["scorecard"].(map[string]interface{})
	if _, ok := card["recommendations"]; ok && card["recommendations"] != nil {
		t.Fatalf("expected no recommendations, got %v", card["recommendations"])
	}
	benchmarks := card["benchmarks"].(map[string]interface{})
	if benchmarks["industry_percentile"].(float64) != 50 {
		t.Fatalf("expected neutral percentile 50, got %v", benchmarks["industry_percentile"])
	}
}

// TestGetScorecardNotFound tests the unknown supplier path
func TestGetScorecardNotFound(t *testing.T) {
	env := setupScorecardTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/srm/suppliers/ghost/scorecard", nil, token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40400 {
		t.Fatalf("expected code 40400, got %v", resp["code"])
	}
}

// TestGetEnhancedScorecardEndpoint tests the enhanced scorecard surface
func TestGetEnhancedScorecardEndpoint(t *testing.T) {
	env := setupScorecardTest(t)
	token := testutil.DefaultTestToken()

	cats := entity.JSONBArray{"drop cable"}
	perf := entity.JSONB{"overallScore": 85.0}
	testutil.SeedSupplier(t, env.DB, &entity.Supplier{
		ID: "sup-en1", Name: "Enhanced Co", Region: "Western Cape",
		Rating: &entity.RatingValue{Raw: 4.0}, Performance: &perf, Categories: &cats,
	})
	testutil.SeedSupplier(t, env.DB, &entity.Supplier{
		ID: "sup-en2", Name: "Peer Co", Region: "Western Cape",
		Rating: &entity.RatingValue{Raw: 3.0}, Categories: &cats,
	})

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/srm/suppliers/sup-en1/scorecard/enhanced", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if _, ok := data["regional_benchmarks"].(map[string]interface{}); !ok {
		t.Fatal("expected regional benchmarks")
	}
	catBench := data["category_benchmarks"].([]interface{})
	if len(catBench) != 1 {
		t.Fatalf("expected 1 category benchmark, got %d", len(catBench))
	}
}

// TestGetScorecardReportEndpoint tests the plain-text report
func TestGetScorecardReportEndpoint(t *testing.T) {
	env := setupScorecardTest(t)
	token := testutil.DefaultTestToken()

	seedScoredSupplier(t, env, "sup-rp1", "Report Co", 4.0)

	w := testutil.DoRequest(env.Router, http.MethodGet, "/api/v1/srm/suppliers/sup-rp1/scorecard/report", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), "SUPPLIER PERFORMANCE SCORECARD") {
		t.Fatalf("unexpected report body: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Report Co") {
		t.Fatal("report missing supplier name")
	}
}

// TestBatchScorecardsEndpoint tests batch generation with partial failure
func TestBatchScorecardsEndpoint(t *testing.T) {
	env := setupScorecardTest(t)
	token := testutil.DefaultTestToken()

	seedScoredSupplier(t, env, "sup-b1", "Batch One", 4.5)
	seedScoredSupplier(t, env, "sup-b2", "Batch Two", 3.0)

	body := map[string]interface{}{
		"supplier_ids": []string{"sup-b1", "sup-b2", "ghost"},
	}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/srm/scorecards/batch", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["total_processed"].(float64) != 3 {
		t.Fatalf("expected 3 processed, got %v", data["total_processed"])
	}
	successful := data["successful"].([]interface{})
	if len(successful) != 2 {
		t.Fatalf("expected 2 successes, got %d", len(successful))
	}
	failed := data["failed"].([]interface{})
	if len(failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failed))
	}
	if data["success_rate"].(float64) != 66.67 {
		t.Fatalf("expected success rate 66.67, got %v", data["success_rate"])
	}

	// Highest scorer first
	first := successful[0].(map[string]interface{})["scorecard"].(map[string]interface{})
	if first["supplier_name"] != "Batch One" {
		t.Fatalf("expected Batch One first, got %v", first["supplier_name"])
	}
}

// TestBatchScorecardsValidation tests the empty-ids rejection
func TestBatchScorecardsValidation(t *testing.T) {
	env := setupScorecardTest(t)
	token := testutil.DefaultTestToken()

	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/srm/scorecards/batch",
		map[string]interface{}{"supplier_ids": []string{}}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

// TestCompareScorecardsEndpoint tests supplier comparison
func TestCompareScorecardsEndpoint(t *testing.T) {
	env := setupScorecardTest(t)
	token := testutil.DefaultTestToken()

	seedScoredSupplier(t, env, "sup-cp1", "Alpha", 4.5)
	seedScoredSupplier(t, env, "sup-cp2", "Bravo", 3.0)

	body := map[string]interface{}{"supplier_ids": []string{"sup-cp1", "sup-cp2"}}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/srm/scorecards/compare", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	suppliers := data["suppliers"].([]interface{})
	if len(suppliers) != 2 {
		t.Fatalf("expected 2 compared suppliers, got %d", len(suppliers))
	}
	first := suppliers[0].(map[string]interface{})
	if first["rank"].(float64) != 1 {
		t.Fatalf("expected rank 1 first, got %v", first["rank"])
	}
	if _, ok := data["best_performers"].(map[string]interface{}); !ok {
		t.Fatal("expected best_performers")
	}

	// Fewer than 2 ids is rejected
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/srm/scorecards/compare",
		map[string]interface{}{"supplier_ids": []string{"sup-cp1"}}, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

// TestExportScorecardsDownload tests the direct xlsx download path
func TestExportScorecardsDownload(t *testing.T) {
	env := setupScorecardTest(t)
	token := testutil.DefaultTestToken()

	seedScoredSupplier(t, env, "sup-x1", "Export Co", 4.0)

	body := map[string]interface{}{"supplier_ids": []string{"sup-x1"}}
	w := testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/srm/scorecards/export", body, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("expected xlsx content type, got %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "supplier_scorecards_") {
		t.Fatalf("expected attachment disposition, got %s", cd)
	}
	if w.Body.Len() == 0 {
		t.Fatal("expected workbook bytes")
	}

	// Upload mode without object storage configured fails cleanly
	w = testutil.DoRequest(env.Router, http.MethodPost, "/api/v1/srm/scorecards/export",
		map[string]interface{}{"supplier_ids": []string{"sup-x1"}, "upload": true}, token)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 without storage, got %d: %s", w.Code, w.Body.String())
	}
}
