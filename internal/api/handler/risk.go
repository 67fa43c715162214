package handler

import (
	"net/http"

	"github.com/reviewpulse/reviewpulse/internal/api/response"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

type riskListResponse struct {
	GeneratedAt string              `json:"generated_at"`
	Threshold   float64             `json:"threshold"`
	Products    []models.RiskResult `json:"products"`
}

// NewAtRiskHandler returns a handler for GET /ratings/at-risk. The optional
// threshold query parameter overrides the configured risk threshold; an
// explicit 0 ranks every product.
func NewAtRiskHandler(svc InsightService, tenants TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r, tenants)
		if !ok {
			return
		}

		threshold := svc.Defaults().RiskThreshold
		if t := queryFloat(r, "threshold"); t != nil {
			threshold = *t
		}

		results, err := svc.AtRisk(r.Context(), tenant, threshold)
		if err != nil {
			serviceError(w, err)
			return
		}

		response.JSON(w, riskListResponse{
			GeneratedAt: timestamp(svc.Now()),
			Threshold:   threshold,
			Products:    results,
		})
	}
}
