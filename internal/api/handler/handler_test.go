package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/reviewpulse/reviewpulse/internal/api/middleware"
	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/insight"
	"github.com/reviewpulse/reviewpulse/internal/judgeme"
	"github.com/reviewpulse/reviewpulse/internal/store"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

// mockService implements InsightService with overridable function fields.
type mockService struct {
	summaries  func(filter insight.ResultFilter) ([]models.ProductSummary, error)
	summary    func(handle string) (models.ProductSummary, error)
	atRisk     func(threshold float64) ([]models.RiskResult, error)
	trends     func(handle string, days int) ([]models.TrendResult, error)
	alerts     func(handle string, params insight.AlertParams) ([]models.AlertResult, error)
	themes     func(handle string) (models.ThemeReport, error)
	actionable func(handle string, days int, withThemes bool, filter insight.ResultFilter) ([]models.ActionableResult, error)
	insights   func(handle string) (models.PhraseInsights, error)
	stats      func() (models.TenantStats, error)
	handles    func() ([]string, error)
}

func (m *mockService) Now() time.Time { return fixedNow }

func (m *mockService) Defaults() config.AnalyticsConfig {
	return config.AnalyticsConfig{
		RecentWindowDays: 7,
		AnalysisDays:     30,
		RiskThreshold:    0.5,
		RatingDrop:       0.5,
		NegativeSpike:    20,
	}
}

func (m *mockService) ProductSummary(_ context.Context, _ models.Tenant, handle string) (models.ProductSummary, error) {
	return m.summary(handle)
}

func (m *mockService) AllSummaries(_ context.Context, _ models.Tenant, filter insight.ResultFilter) ([]models.ProductSummary, error) {
	return m.summaries(filter)
}

func (m *mockService) AtRisk(_ context.Context, _ models.Tenant, threshold float64) ([]models.RiskResult, error) {
	return m.atRisk(threshold)
}

func (m *mockService) Trends(_ context.Context, _ models.Tenant, handle string, days int) ([]models.TrendResult, error) {
	return m.trends(handle, days)
}

func (m *mockService) Alerts(_ context.Context, _ models.Tenant, handle string, params insight.AlertParams) ([]models.AlertResult, error) {
	return m.alerts(handle, params)
}

func (m *mockService) Themes(_ context.Context, _ models.Tenant, handle string) (models.ThemeReport, error) {
	return m.themes(handle)
}

func (m *mockService) Actionable(_ context.Context, _ models.Tenant, handle string, days int, withThemes bool, filter insight.ResultFilter) ([]models.ActionableResult, error) {
	return m.actionable(handle, days, withThemes, filter)
}

func (m *mockService) Insights(_ context.Context, _ models.Tenant, handle string) (models.PhraseInsights, error) {
	return m.insights(handle)
}

func (m *mockService) Stats(_ context.Context, _ models.Tenant) (models.TenantStats, error) {
	return m.stats()
}

func (m *mockService) ProductHandles(_ context.Context, _ models.Tenant) ([]string, error) {
	return m.handles()
}

// mockTenants serves one tenant by ID and by domain.
type mockTenants struct {
	tenant *models.Tenant
	err    error
}

func (m *mockTenants) GetTenant(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.tenant == nil || m.tenant.ID != id {
		return nil, store.ErrNotFound
	}
	return m.tenant, nil
}

func (m *mockTenants) GetTenantByDomain(_ context.Context, domain string) (*models.Tenant, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.tenant == nil || m.tenant.ShopDomain != domain {
		return nil, store.ErrNotFound
	}
	return m.tenant, nil
}

func (m *mockTenants) ListTenants(_ context.Context) ([]*models.Tenant, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.tenant == nil {
		return []*models.Tenant{}, nil
	}
	return []*models.Tenant{m.tenant}, nil
}

func knownTenant() (*models.Tenant, *mockTenants) {
	tenant := &models.Tenant{
		ID:             uuid.New(),
		Name:           "acme",
		ShopDomain:     "acme.example.com",
		APITokenSecret: "ACME_TOKEN",
	}
	return tenant, &mockTenants{tenant: tenant}
}

func authedGet(t *testing.T, target string, tenantID uuid.UUID) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, target, nil)
	return r.WithContext(mw.SetTenantID(r.Context(), tenantID))
}

func parseData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Data
}

func parseErr(t *testing.T, rec *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, env.Error.Code
}

// --- all summaries ---

func TestAllSummariesHandler_Success(t *testing.T) {
	tenant, tenants := knownTenant()
	svc := &mockService{summaries: func(filter insight.ResultFilter) ([]models.ProductSummary, error) {
		return []models.ProductSummary{{ProductHandle: "mug", Total: 2}}, nil
	}}

	h := NewAllSummariesHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/summary", tenant.ID))

	data := parseData(t, rec)
	if data["generated_at"] != "2024-06-15T12:00:00Z" {
		t.Errorf("unexpected generated_at: %v", data["generated_at"])
	}
	products, ok := data["products"].([]any)
	if !ok || len(products) != 1 {
		t.Fatalf("expected 1 product, got %v", data["products"])
	}
}

func TestAllSummariesHandler_FilterParsing(t *testing.T) {
	tenant, tenants := knownTenant()
	var captured insight.ResultFilter
	svc := &mockService{summaries: func(filter insight.ResultFilter) ([]models.ProductSummary, error) {
		captured = filter
		return nil, nil
	}}

	h := NewAllSummariesHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/summary?min_avg_rating=2.5&max_negative_pct=40", tenant.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.MinAvgRating == nil || *captured.MinAvgRating != 2.5 {
		t.Errorf("expected min_avg_rating 2.5, got %v", captured.MinAvgRating)
	}
	if captured.MaxNegativePct == nil || *captured.MaxNegativePct != 40 {
		t.Errorf("expected max_negative_pct 40, got %v", captured.MaxNegativePct)
	}
	if captured.MaxAvgRating != nil || captured.MinNegativePct != nil {
		t.Error("expected unset filters to stay nil")
	}
}

func TestAllSummariesHandler_NotFound(t *testing.T) {
	tenant, tenants := knownTenant()
	svc := &mockService{summaries: func(insight.ResultFilter) ([]models.ProductSummary, error) {
		return nil, insight.ErrNotFound
	}}

	h := NewAllSummariesHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/summary", tenant.ID))

	status, code := parseErr(t, rec)
	if status != http.StatusNotFound || code != "NOT_FOUND" {
		t.Errorf("expected 404 NOT_FOUND, got %d %s", status, code)
	}
}

func TestAllSummariesHandler_UpstreamUnavailable(t *testing.T) {
	tenant, tenants := knownTenant()
	svc := &mockService{summaries: func(insight.ResultFilter) ([]models.ProductSummary, error) {
		return nil, judgeme.ErrUpstreamUnreachable
	}}

	h := NewAllSummariesHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/summary", tenant.ID))

	status, code := parseErr(t, rec)
	if status != http.StatusBadGateway || code != "UPSTREAM_UNAVAILABLE" {
		t.Errorf("expected 502 UPSTREAM_UNAVAILABLE, got %d %s", status, code)
	}
}

func TestAllSummariesHandler_UpstreamTimeout(t *testing.T) {
	tenant, tenants := knownTenant()
	svc := &mockService{summaries: func(insight.ResultFilter) ([]models.ProductSummary, error) {
		return nil, judgeme.ErrUpstreamTimeout
	}}

	h := NewAllSummariesHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/summary", tenant.ID))

	status, code := parseErr(t, rec)
	if status != http.StatusGatewayTimeout || code != "UPSTREAM_TIMEOUT" {
		t.Errorf("expected 504 UPSTREAM_TIMEOUT, got %d %s", status, code)
	}
}

func TestAllSummariesHandler_NoTenantContext(t *testing.T) {
	_, tenants := knownTenant()
	svc := &mockService{}

	h := NewAllSummariesHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ratings/summary", nil))

	status, code := parseErr(t, rec)
	if status != http.StatusUnauthorized || code != "INVALID_TOKEN" {
		t.Errorf("expected 401 INVALID_TOKEN, got %d %s", status, code)
	}
}

func TestAllSummariesHandler_UnknownTenant(t *testing.T) {
	_, tenants := knownTenant()
	svc := &mockService{}

	h := NewAllSummariesHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/summary", uuid.New()))

	status, code := parseErr(t, rec)
	if status != http.StatusNotFound || code != "TENANT_NOT_FOUND" {
		t.Errorf("expected 404 TENANT_NOT_FOUND, got %d %s", status, code)
	}
}

// --- product summary ---

func TestProductSummaryHandler_HandleFromPath(t *testing.T) {
	tenant, tenants := knownTenant()
	svc := &mockService{summary: func(handle string) (models.ProductSummary, error) {
		if handle != "blue-mug" {
			t.Errorf("unexpected handle %q", handle)
		}
		return models.ProductSummary{ProductHandle: handle, Total: 3}, nil
	}}

	router := chi.NewRouter()
	router.Get("/api/v1/ratings/products/{handle}/summary", NewProductSummaryHandler(svc, tenants))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/products/blue-mug/summary", tenant.ID))

	data := parseData(t, rec)
	if data["product_handle"] != "blue-mug" {
		t.Errorf("unexpected product_handle: %v", data["product_handle"])
	}
	if data["generated_at"] != "2024-06-15T12:00:00Z" {
		t.Errorf("expected generated_at on summary response, got %v", data["generated_at"])
	}
}

func TestProductSummaryHandler_UnknownProduct(t *testing.T) {
	tenant, tenants := knownTenant()
	svc := &mockService{summary: func(string) (models.ProductSummary, error) {
		return models.ProductSummary{}, insight.ErrNotFound
	}}

	router := chi.NewRouter()
	router.Get("/api/v1/ratings/products/{handle}/summary", NewProductSummaryHandler(svc, tenants))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/products/ghost/summary", tenant.ID))

	status, code := parseErr(t, rec)
	if status != http.StatusNotFound || code != "NOT_FOUND" {
		t.Errorf("expected 404 NOT_FOUND, got %d %s", status, code)
	}
}

// --- at-risk ---

func TestAtRiskHandler_ThresholdParam(t *testing.T) {
	tenant, tenants := knownTenant()
	var captured float64
	svc := &mockService{atRisk: func(threshold float64) ([]models.RiskResult, error) {
		captured = threshold
		return nil, nil
	}}

	h := NewAtRiskHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/at-risk?threshold=0.7", tenant.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured != 0.7 {
		t.Errorf("expected threshold 0.7, got %v", captured)
	}
}

func TestAtRiskHandler_DefaultsToConfiguredThreshold(t *testing.T) {
	tenant, tenants := knownTenant()
	var captured float64 = -1
	svc := &mockService{atRisk: func(threshold float64) ([]models.RiskResult, error) {
		captured = threshold
		return nil, nil
	}}

	h := NewAtRiskHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/at-risk", tenant.ID))

	if captured != 0.5 {
		t.Errorf("expected configured default threshold, got %v", captured)
	}
	data := parseData(t, rec)
	if data["threshold"] != 0.5 {
		t.Errorf("expected response to echo effective threshold, got %v", data["threshold"])
	}
}

func TestAtRiskHandler_ExplicitZeroThreshold(t *testing.T) {
	tenant, tenants := knownTenant()
	var captured float64 = -1
	svc := &mockService{atRisk: func(threshold float64) ([]models.RiskResult, error) {
		captured = threshold
		return nil, nil
	}}

	h := NewAtRiskHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/at-risk?threshold=0", tenant.ID))

	if captured != 0 {
		t.Errorf("expected explicit zero threshold honored, got %v", captured)
	}
	data := parseData(t, rec)
	if data["threshold"] != float64(0) {
		t.Errorf("expected response to echo zero threshold, got %v", data["threshold"])
	}
}

// --- trends / alerts ---

func TestTrendsHandler_Params(t *testing.T) {
	tenant, tenants := knownTenant()
	var gotHandle string
	var gotDays int
	svc := &mockService{trends: func(handle string, days int) ([]models.TrendResult, error) {
		gotHandle, gotDays = handle, days
		return []models.TrendResult{{ProductHandle: handle, Trend: models.TrendStable}}, nil
	}}

	h := NewTrendsHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/trends?product_handle=mug&recent_window=14", tenant.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotHandle != "mug" || gotDays != 14 {
		t.Errorf("expected mug/14, got %s/%d", gotHandle, gotDays)
	}
}

func TestTrendsHandler_Defaults(t *testing.T) {
	tenant, tenants := knownTenant()
	var gotHandle string
	var gotDays int
	svc := &mockService{trends: func(handle string, days int) ([]models.TrendResult, error) {
		gotHandle, gotDays = handle, days
		return nil, nil
	}}

	h := NewTrendsHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/trends", tenant.ID))

	if gotHandle != insight.AllProducts {
		t.Errorf("expected all-products selector, got %q", gotHandle)
	}
	if gotDays != 7 {
		t.Errorf("expected configured default window, got %d", gotDays)
	}
	data := parseData(t, rec)
	if data["recent_window_days"] != float64(7) {
		t.Errorf("expected response to echo effective window, got %v", data["recent_window_days"])
	}
}

func TestAlertsHandler_ThresholdOverrides(t *testing.T) {
	tenant, tenants := knownTenant()
	var captured insight.AlertParams
	svc := &mockService{alerts: func(handle string, params insight.AlertParams) ([]models.AlertResult, error) {
		captured = params
		return nil, nil
	}}

	h := NewAlertsHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/alerts?rating_drop=1.5&negative_spike=30&recent_window=3", tenant.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.RatingDrop != 1.5 || captured.NegativeSpike != 30 || captured.RecentWindowDays != 3 {
		t.Errorf("unexpected params: %+v", captured)
	}
}

// --- actionable ---

func TestActionableHandler_WithThemesFlag(t *testing.T) {
	tenant, tenants := knownTenant()
	var gotThemes bool
	svc := &mockService{actionable: func(handle string, days int, withThemes bool, filter insight.ResultFilter) ([]models.ActionableResult, error) {
		gotThemes = withThemes
		return nil, nil
	}}

	plain := NewActionableHandler(svc, tenants, false)
	rec := httptest.NewRecorder()
	plain.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/actionable", tenant.ID))
	if gotThemes {
		t.Error("expected withThemes=false for actionable")
	}

	themed := NewActionableHandler(svc, tenants, true)
	rec = httptest.NewRecorder()
	themed.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/actionable-themes", tenant.ID))
	if !gotThemes {
		t.Error("expected withThemes=true for actionable-themes")
	}
}

func TestActionableHandler_PriorityFilter(t *testing.T) {
	tenant, tenants := knownTenant()
	var captured insight.ResultFilter
	svc := &mockService{actionable: func(handle string, days int, withThemes bool, filter insight.ResultFilter) ([]models.ActionableResult, error) {
		captured = filter
		return nil, nil
	}}

	h := NewActionableHandler(svc, tenants, false)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/actionable?priority=high", tenant.ID))

	if captured.Priority != "high" {
		t.Errorf("expected priority filter high, got %q", captured.Priority)
	}
}

// --- themes / insights ---

func TestThemesHandler_EmbedsGeneratedAt(t *testing.T) {
	tenant, tenants := knownTenant()
	svc := &mockService{themes: func(handle string) (models.ThemeReport, error) {
		return models.ThemeReport{ProductHandle: handle}, nil
	}}

	h := NewThemesHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/themes", tenant.ID))

	data := parseData(t, rec)
	if data["generated_at"] != "2024-06-15T12:00:00Z" {
		t.Errorf("expected generated_at on themes response, got %v", data["generated_at"])
	}
	if data["product_handle"] != insight.AllProducts {
		t.Errorf("unexpected product_handle: %v", data["product_handle"])
	}
}

func TestInsightsHandler_EmbedsGeneratedAt(t *testing.T) {
	tenant, tenants := knownTenant()
	svc := &mockService{insights: func(handle string) (models.PhraseInsights, error) {
		return models.PhraseInsights{ProductHandle: handle}, nil
	}}

	h := NewInsightsHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/insights", tenant.ID))

	data := parseData(t, rec)
	if data["generated_at"] != "2024-06-15T12:00:00Z" {
		t.Errorf("expected generated_at on insights response, got %v", data["generated_at"])
	}
}

// --- stats ---

func TestStatsHandler(t *testing.T) {
	tenant, tenants := knownTenant()
	svc := &mockService{stats: func() (models.TenantStats, error) {
		return models.TenantStats{Count: 12, AverageRating: 4.2}, nil
	}}

	h := NewStatsHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/stats", tenant.ID))

	data := parseData(t, rec)
	if data["count"] != float64(12) {
		t.Errorf("unexpected count: %v", data["count"])
	}
	if data["average_rating"] != 4.2 {
		t.Errorf("unexpected average: %v", data["average_rating"])
	}
	if data["generated_at"] != "2024-06-15T12:00:00Z" {
		t.Errorf("expected generated_at on stats response, got %v", data["generated_at"])
	}
}

// --- internal error mapping ---

func TestServiceError_Unexpected(t *testing.T) {
	tenant, tenants := knownTenant()
	svc := &mockService{stats: func() (models.TenantStats, error) {
		return models.TenantStats{}, errors.New("boom")
	}}

	h := NewStatsHandler(svc, tenants)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, authedGet(t, "/api/v1/ratings/stats", tenant.ID))

	status, code := parseErr(t, rec)
	if status != http.StatusInternalServerError || code != "INTERNAL_ERROR" {
		t.Errorf("expected 500 INTERNAL_ERROR, got %d %s", status, code)
	}
}
