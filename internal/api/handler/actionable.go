package handler

import (
	"net/http"

	"github.com/reviewpulse/reviewpulse/internal/api/response"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

type actionableListResponse struct {
	GeneratedAt      string                    `json:"generated_at"`
	RecentWindowDays int                       `json:"recent_window_days"`
	Products         []models.ActionableResult `json:"products"`
}

// NewActionableHandler returns a handler for GET /ratings/actionable. When
// withThemes is true the handler also serves /ratings/actionable-themes,
// which augments each product with its top recent complaints and praises.
func NewActionableHandler(svc InsightService, tenants TenantStore, withThemes bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r, tenants)
		if !ok {
			return
		}

		days := queryWindow(r, svc)
		results, err := svc.Actionable(r.Context(), tenant, queryHandle(r), days, withThemes, queryFilter(r))
		if err != nil {
			serviceError(w, err)
			return
		}

		response.JSON(w, actionableListResponse{
			GeneratedAt:      timestamp(svc.Now()),
			RecentWindowDays: days,
			Products:         results,
		})
	}
}
