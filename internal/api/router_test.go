package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	mw "github.com/reviewpulse/reviewpulse/internal/api/middleware"
	"github.com/reviewpulse/reviewpulse/internal/store"
	"github.com/reviewpulse/reviewpulse/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// routerStore implements store.Store with a fixed API key set.
type routerStore struct {
	keys []*models.APIKey
}

func (s *routerStore) Ping(context.Context) error { return nil }

func (s *routerStore) GetTenant(context.Context, uuid.UUID) (*models.Tenant, error) {
	return nil, store.ErrNotFound
}

func (s *routerStore) GetTenantByDomain(context.Context, string) (*models.Tenant, error) {
	return nil, store.ErrNotFound
}

func (s *routerStore) ListTenants(context.Context) ([]*models.Tenant, error) { return nil, nil }

func (s *routerStore) CreateTenant(context.Context, *models.Tenant) error { return nil }

func (s *routerStore) GetAPIKeyByPrefix(_ context.Context, prefix string) ([]*models.APIKey, error) {
	var out []*models.APIKey
	for _, k := range s.keys {
		if k.KeyPrefix == prefix {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *routerStore) UpdateAPIKeyLastUsed(context.Context, uuid.UUID) error { return nil }

func (s *routerStore) CreateAPIKey(context.Context, *models.APIKey) error { return nil }

func (s *routerStore) RevokeAPIKey(context.Context, uuid.UUID, uuid.UUID) error { return nil }

// routerCache implements cache.Cache as a no-op counter.
type routerCache struct {
	count int64
}

func (c *routerCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (c *routerCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (c *routerCache) Delete(context.Context, string) error { return nil }

func (c *routerCache) Ping(context.Context) error { return nil }

func (c *routerCache) IncrWithExpiry(context.Context, string, time.Duration) (int64, error) {
	c.count++
	return c.count, nil
}

func testDeps(t *testing.T, rawKey string, scopes []string) Dependencies {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(rawKey), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	s := &routerStore{keys: []*models.APIKey{{
		ID:        uuid.New(),
		TenantID:  uuid.New(),
		KeyHash:   string(hash),
		KeyPrefix: rawKey[:8],
		Scopes:    scopes,
	}}}
	return Dependencies{
		Auth:      mw.NewAuth(s),
		RateLimit: mw.NewRateLimit(&routerCache{}, 60),
		HealthHandler: func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}
}

func TestRouter_HealthIsPublic(t *testing.T) {
	router := NewRouter(testDeps(t, "rp_testkey123", []string{"read"}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 without auth, got %d", rec.Code)
	}
}

func TestRouter_RatingsRequireAuth(t *testing.T) {
	router := NewRouter(testDeps(t, "rp_testkey123", []string{"read"}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ratings/summary", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}

func TestRouter_NilHandlerReturns501(t *testing.T) {
	rawKey := "rp_testkey123"
	router := NewRouter(testDeps(t, rawKey, []string{"read"}))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/ratings/summary", nil)
	r.Header.Set("Authorization", "Bearer "+rawKey)
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusNotImplemented {
		t.Errorf("expected 501 for unwired handler, got %d", rec.Code)
	}
}

func TestRouter_RateLimitHeadersOnProtectedRoutes(t *testing.T) {
	rawKey := "rp_testkey123"
	router := NewRouter(testDeps(t, rawKey, []string{"read"}))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/ratings/summary", nil)
	r.Header.Set("Authorization", "Bearer "+rawKey)
	router.ServeHTTP(rec, r)

	if rec.Header().Get("X-RateLimit-Limit") != "60" {
		t.Errorf("expected rate limit headers, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRouter_AdminRequiresAdminScope(t *testing.T) {
	rawKey := "rp_testkey123"
	router := NewRouter(testDeps(t, rawKey, []string{"read"}))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/tenants", nil)
	r.Header.Set("Authorization", "Bearer "+rawKey)
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for read-only key, got %d", rec.Code)
	}
}

func TestRouter_AdminScopeAllowed(t *testing.T) {
	rawKey := "rp_testkey123"
	router := NewRouter(testDeps(t, rawKey, []string{"read", "admin"}))

	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/v1/admin/tenants", nil)
	r.Header.Set("Authorization", "Bearer "+rawKey)
	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusNotImplemented {
		t.Errorf("expected 501 for unwired admin handler, got %d", rec.Code)
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	router := NewRouter(testDeps(t, "rp_testkey123", []string{"read"}))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
