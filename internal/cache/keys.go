package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// InsightKey caches a computed insight payload per tenant, operation, and
// parameter hash.
func InsightKey(tenantID uuid.UUID, operation, paramsHash string) string {
	return fmt.Sprintf("insight:%s:%s:%s", tenantID, operation, paramsHash)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
