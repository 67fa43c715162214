package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/reviewpulse/reviewpulse/internal/api/response"
	"github.com/reviewpulse/reviewpulse/internal/store"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// TenantWriter is the store subset used by the admin tenant endpoints.
type TenantWriter interface {
	CreateTenant(ctx context.Context, tenant *models.Tenant) error
}

// NewListTenantsHandler returns a handler for GET /api/v1/admin/tenants.
func NewListTenantsHandler(tenants TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := tenants.ListTenants(r.Context())
		if err != nil {
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list tenants", nil)
			return
		}
		response.JSON(w, map[string]any{
			"tenants": all,
			"count":   len(all),
		})
	}
}

// NewCreateTenantHandler returns a handler for POST /api/v1/admin/tenants.
func NewCreateTenantHandler(tenants TenantWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Name           string `json:"name"`
			ShopDomain     string `json:"shop_domain"`
			APITokenSecret string `json:"api_token_secret"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.Name == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "name is required", nil)
			return
		}
		if req.ShopDomain == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "shop_domain is required", nil)
			return
		}
		if req.APITokenSecret == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "api_token_secret is required", nil)
			return
		}

		now := time.Now().UTC()
		tenant := &models.Tenant{
			ID:             uuid.New(),
			Name:           req.Name,
			ShopDomain:     req.ShopDomain,
			APITokenSecret: req.APITokenSecret,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tenants.CreateTenant(r.Context(), tenant); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				response.Error(w, http.StatusConflict, "DUPLICATE_TENANT",
					"A tenant with this shop domain already exists", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create tenant", nil)
			return
		}
		response.JSON(w, tenant)
	}
}

type statsResponse struct {
	GeneratedAt string `json:"generated_at"`
	models.TenantStats
}

// NewStatsHandler returns a handler for GET /ratings/stats, aggregate counts
// for the authenticated tenant's cached review snapshot.
func NewStatsHandler(svc InsightService, tenants TenantStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant, ok := requireTenant(w, r, tenants)
		if !ok {
			return
		}

		stats, err := svc.Stats(r.Context(), tenant)
		if err != nil {
			serviceError(w, err)
			return
		}
		response.JSON(w, statsResponse{
			GeneratedAt: timestamp(svc.Now()),
			TenantStats: stats,
		})
	}
}
