package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. The database holds the tenant
// registry and API keys; review data itself never touches Postgres, it
// lives in the per-tenant snapshot cache.
type Store interface {
	Ping(ctx context.Context) error

	GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetTenantByDomain(ctx context.Context, shopDomain string) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	CreateTenant(ctx context.Context, tenant *models.Tenant) error

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
}
