package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant represents one shop whose reviews are cached and analyzed in
// isolation from all others. ShopDomain identifies the tenant against the
// review provider; APITokenSecret names an environment variable holding the
// raw provider token, never the token itself.
type Tenant struct {
	ID             uuid.UUID `db:"id"               json:"id"`
	Name           string    `db:"name"             json:"name"`
	ShopDomain     string    `db:"shop_domain"      json:"shop_domain"`
	APITokenSecret string    `db:"api_token_secret" json:"-"`
	CreatedAt      time.Time `db:"created_at"       json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"       json:"updated_at"`
}

// CacheKey returns the key under which this tenant's review snapshot is
// held: domain plus credential secret, so rotating the credential starts a
// fresh snapshot.
func (t Tenant) CacheKey() string {
	return t.ShopDomain + ":" + t.APITokenSecret
}
