package reviewcache

import (
	"context"
	"fmt"
	"os"

	"github.com/reviewpulse/reviewpulse/internal/judgeme"
	"github.com/reviewpulse/reviewpulse/internal/normalize"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// maxPages bounds pagination against a provider that never returns an
// empty page.
const maxPages = 500

// ProviderFetcher implements Fetcher against the judge.me client. It
// paginates the review endpoint until an empty page is returned and
// resolves each tenant's API token from the environment via the tenant's
// secret name.
type ProviderFetcher struct {
	client judgeme.Client
	lookup func(string) string
}

// NewProviderFetcher creates a ProviderFetcher. lookup resolves a secret
// name to the raw token; pass nil to use os.Getenv.
func NewProviderFetcher(client judgeme.Client, lookup func(string) string) *ProviderFetcher {
	if lookup == nil {
		lookup = os.Getenv
	}
	return &ProviderFetcher{client: client, lookup: lookup}
}

func (f *ProviderFetcher) FetchReviews(ctx context.Context, tenant models.Tenant) ([]models.RawReview, error) {
	creds, err := f.credentials(tenant)
	if err != nil {
		return nil, err
	}

	var all []models.RawReview
	for page := 1; page <= maxPages; page++ {
		batch, err := f.client.FetchPage(ctx, creds, page)
		if err != nil {
			return nil, fmt.Errorf("fetching reviews page %d: %w", page, err)
		}
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)
	}
	return all, nil
}

func (f *ProviderFetcher) FetchProductHandles(ctx context.Context, tenant models.Tenant) ([]string, error) {
	creds, err := f.credentials(tenant)
	if err != nil {
		return nil, err
	}

	handles, err := f.client.ListProductHandles(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("fetching product handles: %w", err)
	}
	return handles, nil
}

func (f *ProviderFetcher) credentials(tenant models.Tenant) (judgeme.Credentials, error) {
	token := f.lookup(tenant.APITokenSecret)
	if token == "" {
		return judgeme.Credentials{}, fmt.Errorf("missing provider token for tenant %s (secret %s)", tenant.ShopDomain, tenant.APITokenSecret)
	}
	return judgeme.Credentials{ShopDomain: tenant.ShopDomain, APIToken: token}, nil
}

// normalizeRaw is the cache-side normalization entry point.
func normalizeRaw(tenantID string, raw models.RawReview) models.Review {
	return normalize.Normalize(tenantID, raw)
}

// Compile-time check that ProviderFetcher implements Fetcher.
var _ Fetcher = (*ProviderFetcher)(nil)
