package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/reviewpulse/reviewpulse/internal/api/response"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

type summaryListResponse struct {
	GeneratedAt string                  `json:"generated_at"`
	Products    []models.ProductSummary `json:"products"`
}

// NewAllSummariesHandler returns a handler for GET /ratings/summary.
// Supports min/max average-rating and negative-percentage filters.
func NewAllSummariesHandler(svc InsightService, tenants TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r, tenants)
		if !ok {
			return
		}

		summaries, err := svc.AllSummaries(r.Context(), tenant, queryFilter(r))
		if err != nil {
			serviceError(w, err)
			return
		}

		response.JSON(w, summaryListResponse{
			GeneratedAt: timestamp(svc.Now()),
			Products:    summaries,
		})
	}
}

type productSummaryResponse struct {
	GeneratedAt string `json:"generated_at"`
	models.ProductSummary
}

// NewProductSummaryHandler returns a handler for GET /ratings/products/{handle}/summary.
func NewProductSummaryHandler(svc InsightService, tenants TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r, tenants)
		if !ok {
			return
		}

		handle := chi.URLParam(r, "handle")
		summary, err := svc.ProductSummary(r.Context(), tenant, handle)
		if err != nil {
			serviceError(w, err)
			return
		}

		response.JSON(w, productSummaryResponse{
			GeneratedAt:    timestamp(svc.Now()),
			ProductSummary: summary,
		})
	}
}

// NewProductsHandler returns a handler for GET /ratings/products, the list of
// product handles known to the review provider for the tenant's shop.
func NewProductsHandler(svc InsightService, tenants TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r, tenants)
		if !ok {
			return
		}

		handles, err := svc.ProductHandles(r.Context(), tenant)
		if err != nil {
			serviceError(w, err)
			return
		}

		response.JSON(w, map[string]any{
			"generated_at": timestamp(svc.Now()),
			"products":     handles,
		})
	}
}
