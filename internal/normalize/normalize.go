// Package normalize converts raw provider review records into canonical
// Review entities. Normalization is total: malformed fields are coerced,
// never rejected.
package normalize

import (
	"strings"
	"time"

	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// handleStrategy extracts a candidate product handle from a raw record.
// Strategies are tried in order; the first non-empty value wins.
type handleStrategy func(models.RawReview) string

var handleChain = []handleStrategy{
	func(r models.RawReview) string { return r.ProductHandle },
	func(r models.RawReview) string { return r.Handle },
	func(r models.RawReview) string {
		if r.Product != nil {
			return r.Product.Handle
		}
		return ""
	},
	func(r models.RawReview) string { return r.ProductTitle },
}

// Timestamp layouts seen across provider payload versions.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalize converts a raw review into the canonical form. It never fails:
// the product handle falls through to the unknown-product sentinel, a
// missing rating becomes 0, and an unparsable timestamp becomes the zero
// time marker.
func Normalize(tenantID string, raw models.RawReview) models.Review {
	return models.Review{
		TenantID:      tenantID,
		ProductHandle: ResolveProductHandle(raw),
		Body:          resolveBody(raw),
		Rating:        resolveRating(raw),
		CreatedAt:     ParseTimestamp(raw.CreatedAt),
	}
}

// ResolveProductHandle applies the ordered extraction chain and falls back
// to the unknown-product sentinel. The result is never empty.
func ResolveProductHandle(raw models.RawReview) string {
	for _, strategy := range handleChain {
		if h := strings.TrimSpace(strategy(raw)); h != "" {
			return h
		}
	}
	return models.UnknownProductHandle
}

// ParseTimestamp attempts a structured parse against the known layouts.
// On failure it returns the zero time, which marks "no timestamp"; callers
// decide per operation whether to drop the review or substitute now.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// resolveBody picks the first populated text field. Provider payloads have
// carried the body under several names over time.
func resolveBody(raw models.RawReview) string {
	for _, candidate := range []string{raw.Body, raw.Review, raw.BodyHTML, raw.Title} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return ""
}

// resolveRating coerces the rating to a float. Out-of-range values are
// passed through unclamped.
func resolveRating(raw models.RawReview) float64 {
	if raw.Rating == "" {
		return 0
	}
	f, err := raw.Rating.Float64()
	if err != nil {
		return 0
	}
	return f
}
