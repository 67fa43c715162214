package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/reviewpulse/reviewpulse/internal/api/middleware"
	"github.com/reviewpulse/reviewpulse/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler         http.HandlerFunc
	CatalogWebhookHandler http.HandlerFunc

	AllSummariesHandler   http.HandlerFunc
	ProductSummaryHandler http.HandlerFunc
	ProductsHandler       http.HandlerFunc
	AtRiskHandler         http.HandlerFunc
	TrendsHandler         http.HandlerFunc
	AlertsHandler         http.HandlerFunc
	ThemesHandler         http.HandlerFunc
	ActionableHandler     http.HandlerFunc
	ActionableThemes      http.HandlerFunc
	InsightsHandler       http.HandlerFunc
	StatsHandler          http.HandlerFunc

	CreateTenantHandler http.HandlerFunc
	ListTenantsHandler  http.HandlerFunc
	CreateKeyHandler    http.HandlerFunc
	RevokeKeyHandler    http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public endpoints
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))
	r.Post("/api/v1/webhooks/catalog", orNotImplemented(deps.CatalogWebhookHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		r.Get("/api/v1/ratings/summary", orNotImplemented(deps.AllSummariesHandler))
		r.Get("/api/v1/ratings/products", orNotImplemented(deps.ProductsHandler))
		r.Get("/api/v1/ratings/products/{handle}/summary", orNotImplemented(deps.ProductSummaryHandler))
		r.Get("/api/v1/ratings/at-risk", orNotImplemented(deps.AtRiskHandler))
		r.Get("/api/v1/ratings/trends", orNotImplemented(deps.TrendsHandler))
		r.Get("/api/v1/ratings/alerts", orNotImplemented(deps.AlertsHandler))
		r.Get("/api/v1/ratings/themes", orNotImplemented(deps.ThemesHandler))
		r.Get("/api/v1/ratings/actionable", orNotImplemented(deps.ActionableHandler))
		r.Get("/api/v1/ratings/actionable-themes", orNotImplemented(deps.ActionableThemes))
		r.Get("/api/v1/ratings/insights", orNotImplemented(deps.InsightsHandler))
		r.Get("/api/v1/ratings/stats", orNotImplemented(deps.StatsHandler))

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope("admin"))

			r.Post("/api/v1/admin/tenants", orNotImplemented(deps.CreateTenantHandler))
			r.Get("/api/v1/admin/tenants", orNotImplemented(deps.ListTenantsHandler))
			r.Post("/api/v1/admin/keys", orNotImplemented(deps.CreateKeyHandler))
			r.Delete("/api/v1/admin/keys/{keyID}", orNotImplemented(deps.RevokeKeyHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
