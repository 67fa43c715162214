// Package handler contains the HTTP handlers for the insight API. Handlers
// validate query parameters, resolve the authenticated tenant, and delegate
// all computation to the insight service.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	mw "github.com/reviewpulse/reviewpulse/internal/api/middleware"
	"github.com/reviewpulse/reviewpulse/internal/api/response"
	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/insight"
	"github.com/reviewpulse/reviewpulse/internal/judgeme"
	"github.com/reviewpulse/reviewpulse/internal/store"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// InsightService is the interface handlers depend on.
type InsightService interface {
	Now() time.Time
	Defaults() config.AnalyticsConfig
	ProductSummary(ctx context.Context, tenant models.Tenant, handle string) (models.ProductSummary, error)
	AllSummaries(ctx context.Context, tenant models.Tenant, filter insight.ResultFilter) ([]models.ProductSummary, error)
	AtRisk(ctx context.Context, tenant models.Tenant, threshold float64) ([]models.RiskResult, error)
	Trends(ctx context.Context, tenant models.Tenant, handle string, recentWindowDays int) ([]models.TrendResult, error)
	Alerts(ctx context.Context, tenant models.Tenant, handle string, params insight.AlertParams) ([]models.AlertResult, error)
	Themes(ctx context.Context, tenant models.Tenant, handle string) (models.ThemeReport, error)
	Actionable(ctx context.Context, tenant models.Tenant, handle string, recentWindowDays int, withThemes bool, filter insight.ResultFilter) ([]models.ActionableResult, error)
	Insights(ctx context.Context, tenant models.Tenant, handle string) (models.PhraseInsights, error)
	Stats(ctx context.Context, tenant models.Tenant) (models.TenantStats, error)
	ProductHandles(ctx context.Context, tenant models.Tenant) ([]string, error)
}

// TenantStore is the subset of the store handlers need.
type TenantStore interface {
	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetTenantByDomain(ctx context.Context, shopDomain string) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
}

// requireTenant resolves the authenticated tenant from the request context.
// Writes the error response and returns ok=false on failure.
func requireTenant(w http.ResponseWriter, r *http.Request, tenants TenantStore) (models.Tenant, bool) {
	tenantID, ok := mw.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
		return models.Tenant{}, false
	}

	tenant, err := tenants.GetTenant(r.Context(), tenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "TENANT_NOT_FOUND", "Tenant not found", nil)
		} else {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load tenant", nil)
		}
		return models.Tenant{}, false
	}
	return *tenant, true
}

// serviceError maps insight service failures to API error responses.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, insight.ErrNotFound):
		response.Error(w, http.StatusNotFound, "NOT_FOUND",
			"No review data found for the given parameters", nil)
	case errors.Is(err, judgeme.ErrUpstreamTimeout):
		response.Error(w, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT",
			"The review provider took too long to respond", nil)
	case errors.Is(err, judgeme.ErrUpstreamUnreachable), errors.Is(err, judgeme.ErrUpstreamStatus):
		response.Error(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE",
			"The review provider is not available and no cached data exists", nil)
	default:
		response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
			"An unexpected error occurred", nil)
	}
}

// --- query parameter helpers ---

func queryHandle(r *http.Request) string {
	if h := r.URL.Query().Get("product_handle"); h != "" {
		return h
	}
	return insight.AllProducts
}

func queryInt(r *http.Request, name string, defaultVal int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryWindow resolves the recent_window parameter, falling back to the
// configured default so the response echoes the window actually applied.
func queryWindow(r *http.Request, svc InsightService) int {
	if days := queryInt(r, "recent_window", 0); days > 0 {
		return days
	}
	return svc.Defaults().RecentWindowDays
}

func queryFloat(r *http.Request, name string) *float64 {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func queryFilter(r *http.Request) insight.ResultFilter {
	return insight.ResultFilter{
		MinAvgRating:   queryFloat(r, "min_avg_rating"),
		MaxAvgRating:   queryFloat(r, "max_avg_rating"),
		MinNegativePct: queryFloat(r, "min_negative_pct"),
		MaxNegativePct: queryFloat(r, "max_negative_pct"),
		Priority:       r.URL.Query().Get("priority"),
	}
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
