package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/reviewpulse/reviewpulse/internal/api/response"
	"github.com/reviewpulse/reviewpulse/internal/store"
)

// Invalidator expires a tenant's cached review snapshot.
type Invalidator interface {
	Invalidate(tenantKey string)
}

// NewCatalogWebhookHandler returns a handler for POST /api/v1/webhooks/catalog.
// The review provider calls it when a shop's catalog or reviews change; the
// tenant's snapshot is marked stale and refetched on the next read.
func NewCatalogWebhookHandler(tenants TenantStore, cache Invalidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ShopDomain string `json:"shop_domain"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}
		if req.ShopDomain == "" {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "shop_domain is required", nil)
			return
		}

		tenant, err := tenants.GetTenantByDomain(r.Context(), req.ShopDomain)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "TENANT_NOT_FOUND", "Unknown shop domain", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve tenant", nil)
			return
		}

		cache.Invalidate(tenant.CacheKey())
		response.Accepted(w, map[string]any{
			"invalidated": tenant.ShopDomain,
		})
	}
}
