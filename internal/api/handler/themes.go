package handler

import (
	"net/http"

	"github.com/reviewpulse/reviewpulse/internal/api/response"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

type themeResponse struct {
	GeneratedAt string `json:"generated_at"`
	models.ThemeReport
}

type insightResponse struct {
	GeneratedAt string `json:"generated_at"`
	models.PhraseInsights
}

// NewThemesHandler returns a handler for GET /ratings/themes. Counts complaint
// and praise theme mentions across all review text for the selected products.
func NewThemesHandler(svc InsightService, tenants TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r, tenants)
		if !ok {
			return
		}

		report, err := svc.Themes(r.Context(), tenant, queryHandle(r))
		if err != nil {
			serviceError(w, err)
			return
		}

		response.JSON(w, themeResponse{
			GeneratedAt: timestamp(svc.Now()),
			ThemeReport: report,
		})
	}
}

// NewInsightsHandler returns a handler for GET /ratings/insights, the mined
// top positive and negative phrases.
func NewInsightsHandler(svc InsightService, tenants TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r, tenants)
		if !ok {
			return
		}

		insights, err := svc.Insights(r.Context(), tenant, queryHandle(r))
		if err != nil {
			serviceError(w, err)
			return
		}

		response.JSON(w, insightResponse{
			GeneratedAt:    timestamp(svc.Now()),
			PhraseInsights: insights,
		})
	}
}
