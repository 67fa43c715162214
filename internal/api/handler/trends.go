package handler

import (
	"net/http"

	"github.com/reviewpulse/reviewpulse/internal/api/response"
	"github.com/reviewpulse/reviewpulse/internal/insight"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

type trendListResponse struct {
	GeneratedAt      string               `json:"generated_at"`
	RecentWindowDays int                  `json:"recent_window_days"`
	Products         []models.TrendResult `json:"products"`
}

// NewTrendsHandler returns a handler for GET /ratings/trends.
func NewTrendsHandler(svc InsightService, tenants TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r, tenants)
		if !ok {
			return
		}

		days := queryWindow(r, svc)
		results, err := svc.Trends(r.Context(), tenant, queryHandle(r), days)
		if err != nil {
			serviceError(w, err)
			return
		}

		response.JSON(w, trendListResponse{
			GeneratedAt:      timestamp(svc.Now()),
			RecentWindowDays: days,
			Products:         results,
		})
	}
}

type alertListResponse struct {
	GeneratedAt string               `json:"generated_at"`
	Products    []models.AlertResult `json:"products"`
}

// NewAlertsHandler returns a handler for GET /ratings/alerts. The rating_drop
// and negative_spike query parameters override the configured thresholds.
func NewAlertsHandler(svc InsightService, tenants TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r, tenants)
		if !ok {
			return
		}

		params := insight.AlertParams{
			RecentWindowDays: queryWindow(r, svc),
		}
		if v := queryFloat(r, "rating_drop"); v != nil {
			params.RatingDrop = *v
		}
		if v := queryFloat(r, "negative_spike"); v != nil {
			params.NegativeSpike = *v
		}

		results, err := svc.Alerts(r.Context(), tenant, queryHandle(r), params)
		if err != nil {
			serviceError(w, err)
			return
		}

		response.JSON(w, alertListResponse{
			GeneratedAt: timestamp(svc.Now()),
			Products:    results,
		})
	}
}
