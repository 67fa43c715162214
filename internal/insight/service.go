// Package insight computes sentiment, theme, trend, alert, and risk
// analytics over normalized review batches. Everything here is pure and
// request-local; the only shared state lives behind the ReviewSource.
package insight

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/reviewpulse/reviewpulse/internal/cache"
	"github.com/reviewpulse/reviewpulse/internal/config"
	"github.com/reviewpulse/reviewpulse/internal/sentiment"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// AllProducts selects every product of a tenant instead of a single handle.
const AllProducts = "all"

// ReviewSource supplies a tenant's normalized review snapshot.
type ReviewSource interface {
	GetReviews(ctx context.Context, tenant models.Tenant) ([]models.Review, error)
	GetProductHandles(ctx context.Context, tenant models.Tenant) ([]string, error)
}

// Service is the insight engine exposed to the route layer. It is safe for
// concurrent use: all derived computation operates on request-local copies.
type Service struct {
	source     ReviewSource
	scorer     sentiment.Scorer
	classifier *sentiment.Classifier
	defaults   config.AnalyticsConfig

	respCache cache.Cache
	respTTL   time.Duration

	now func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithResponseCache enables short-TTL Redis caching of computed payloads.
func WithResponseCache(c cache.Cache, ttl time.Duration) ServiceOption {
	return func(s *Service) {
		s.respCache = c
		s.respTTL = ttl
	}
}

// WithClock overrides the wall clock, for deterministic tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService creates the insight service.
func NewService(source ReviewSource, scorer sentiment.Scorer, defaults config.AnalyticsConfig, opts ...ServiceOption) *Service {
	s := &Service{
		source:     source,
		scorer:     scorer,
		classifier: sentiment.NewClassifier(scorer),
		defaults:   defaults,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock reading, used by handlers to stamp
// generated_at on every response.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// Defaults returns the configured analytics parameters, so the route layer
// can resolve absent query parameters to the values actually applied.
func (s *Service) Defaults() config.AnalyticsConfig {
	return s.defaults
}

// ProductSummary computes the aggregate view for one product handle.
func (s *Service) ProductSummary(ctx context.Context, tenant models.Tenant, handle string) (models.ProductSummary, error) {
	groups, err := s.groupedReviews(ctx, tenant)
	if err != nil {
		return models.ProductSummary{}, err
	}

	reviews, ok := groups[handle]
	if !ok {
		return models.ProductSummary{}, fmt.Errorf("product %q: %w", handle, ErrNotFound)
	}
	return Summarize(handle, reviews, s.classifier), nil
}

// AllSummaries computes summaries for every product of the tenant, filtered
// by the result filter. Returns ErrNotFound when the tenant has no cached
// review data at all.
func (s *Service) AllSummaries(ctx context.Context, tenant models.Tenant, filter ResultFilter) ([]models.ProductSummary, error) {
	var out []models.ProductSummary
	cacheKey := s.cacheKey(tenant, "summaries", filter)
	if s.cachedResponse(ctx, cacheKey, &out) {
		return out, nil
	}

	groups, err := s.groupedReviews(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("tenant %s has no review data: %w", tenant.ShopDomain, ErrNotFound)
	}

	out = make([]models.ProductSummary, 0, len(groups))
	for _, handle := range sortedHandles(groups) {
		summary := Summarize(handle, groups[handle], s.classifier)
		if !filter.MatchRating(summary.AverageRating, summary.NegativePct) {
			continue
		}
		out = append(out, summary)
	}

	s.storeResponse(ctx, cacheKey, out)
	return out, nil
}

// AtRisk ranks products by weighted risk score and returns those at or
// above the threshold. A zero threshold is honored as-is and ranks every
// product; callers resolve absent parameters via Defaults.
func (s *Service) AtRisk(ctx context.Context, tenant models.Tenant, threshold float64) ([]models.RiskResult, error) {
	summaries, err := s.AllSummaries(ctx, tenant, ResultFilter{})
	if err != nil {
		return nil, err
	}

	results := make([]models.RiskResult, 0, len(summaries))
	for _, summary := range summaries {
		if summary.Total == 0 {
			continue
		}
		score := RiskScore(summary.AverageRating, summary.NegativePct)
		if score < threshold {
			continue
		}
		results = append(results, models.RiskResult{
			ProductSummary: summary,
			RiskScore:      score,
			AtRisk:         true,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RiskScore > results[j].RiskScore
	})
	return results, nil
}

// Trends analyzes rating direction per product. handle may be AllProducts.
// Products whose windows are empty even after the fallback yield an
// insufficient-data result rather than disappearing.
func (s *Service) Trends(ctx context.Context, tenant models.Tenant, handle string, recentWindowDays int) ([]models.TrendResult, error) {
	if recentWindowDays <= 0 {
		recentWindowDays = s.defaults.RecentWindowDays
	}

	groups, err := s.groupedStrict(ctx, tenant, handle)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	results := make([]models.TrendResult, 0, len(groups))
	for _, h := range sortedHandles(groups) {
		results = append(results, AnalyzeTrend(h, groups[h], now, recentWindowDays))
	}
	return results, nil
}

// Alerts evaluates the alert rules per product. handle may be AllProducts.
func (s *Service) Alerts(ctx context.Context, tenant models.Tenant, handle string, params AlertParams) ([]models.AlertResult, error) {
	if params.RecentWindowDays <= 0 {
		params.RecentWindowDays = s.defaults.RecentWindowDays
	}
	if params.RatingDrop == 0 {
		params.RatingDrop = s.defaults.RatingDrop
	}
	if params.NegativeSpike == 0 {
		params.NegativeSpike = s.defaults.NegativeSpike
	}

	groups, err := s.groupedStrict(ctx, tenant, handle)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	results := make([]models.AlertResult, 0, len(groups))
	for _, h := range sortedHandles(groups) {
		if result, ok := EvaluateAlerts(h, groups[h], now, params, s.classifier); ok {
			results = append(results, result)
		}
	}
	return results, nil
}

// Themes extracts the complaint and praise tables over all review text of
// one product, or of the whole catalog when handle is AllProducts. Both
// vocabularies run over the full text set; sentiment splitting is the
// summary's job, not this one's.
func (s *Service) Themes(ctx context.Context, tenant models.Tenant, handle string) (models.ThemeReport, error) {
	var report models.ThemeReport
	cacheKey := s.cacheKey(tenant, "themes", handle)
	if s.cachedResponse(ctx, cacheKey, &report) {
		return report, nil
	}

	reviews, err := s.source.GetReviews(ctx, tenant)
	if err != nil {
		return models.ThemeReport{}, err
	}

	var subset []models.Review
	for _, r := range reviews {
		if r.Body == "" {
			continue
		}
		if handle != AllProducts && r.ProductHandle != handle {
			continue
		}
		subset = append(subset, r)
	}

	report = models.ThemeReport{
		ProductHandle:  handle,
		NegativeThemes: ExtractThemes(subset, Complaint),
		PositiveThemes: ExtractThemes(subset, Praise),
	}
	s.storeResponse(ctx, cacheKey, report)
	return report, nil
}

// Actionable triages products by their recent window. handle may be
// AllProducts. withThemes additionally mines the top complaint and praise
// themes per product.
func (s *Service) Actionable(ctx context.Context, tenant models.Tenant, handle string, recentWindowDays int, withThemes bool, filter ResultFilter) ([]models.ActionableResult, error) {
	if recentWindowDays <= 0 {
		recentWindowDays = s.defaults.RecentWindowDays
	}

	reviews, err := s.source.GetReviews(ctx, tenant)
	if err != nil {
		return nil, err
	}

	// Every review participates here: the actionable view substitutes now
	// for missing timestamps instead of dropping the review.
	groups := groupByProduct(reviews)
	if handle != "" && handle != AllProducts {
		groups = selectHandle(groups, handle)
	}

	now := s.now().UTC()
	results := make([]models.ActionableResult, 0, len(groups))
	for _, h := range sortedHandles(groups) {
		result, ok := Actionable(h, groups[h], now, recentWindowDays, s.classifier, withThemes)
		if !ok {
			continue
		}
		if !filter.MatchRating(result.AverageRating, result.NegativePct) {
			continue
		}
		if !filter.MatchPriority(result.Priority) {
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// Insights mines free-form complaint and praise phrases for one product, or
// the whole catalog when handle is AllProducts.
func (s *Service) Insights(ctx context.Context, tenant models.Tenant, handle string) (models.PhraseInsights, error) {
	reviews, err := s.source.GetReviews(ctx, tenant)
	if err != nil {
		return models.PhraseInsights{}, err
	}

	var subset []models.Review
	for _, r := range reviews {
		if handle != AllProducts && r.ProductHandle != handle {
			continue
		}
		subset = append(subset, r)
	}
	return MinePhrases(handle, subset, s.scorer), nil
}

// Stats returns the tenant's raw review count and overall average rating.
func (s *Service) Stats(ctx context.Context, tenant models.Tenant) (models.TenantStats, error) {
	reviews, err := s.source.GetReviews(ctx, tenant)
	if err != nil {
		return models.TenantStats{}, err
	}
	if len(reviews) == 0 {
		return models.TenantStats{}, nil
	}
	return models.TenantStats{
		Count:         len(reviews),
		AverageRating: round2(averageRating(reviews)),
	}, nil
}

// ProductHandles returns the tenant's catalog handles from the snapshot.
func (s *Service) ProductHandles(ctx context.Context, tenant models.Tenant) ([]string, error) {
	return s.source.GetProductHandles(ctx, tenant)
}

// --- helpers ---

func (s *Service) groupedReviews(ctx context.Context, tenant models.Tenant) (map[string][]models.Review, error) {
	reviews, err := s.source.GetReviews(ctx, tenant)
	if err != nil {
		return nil, err
	}
	return groupByProduct(reviews), nil
}

// groupedStrict applies the trend-operation cleaning: reviews must carry a
// timestamp, a rating, and a body to participate in window comparison.
func (s *Service) groupedStrict(ctx context.Context, tenant models.Tenant, handle string) (map[string][]models.Review, error) {
	reviews, err := s.source.GetReviews(ctx, tenant)
	if err != nil {
		return nil, err
	}

	var cleaned []models.Review
	for _, r := range reviews {
		if !r.HasTimestamp() || r.Rating == 0 || r.Body == "" {
			continue
		}
		cleaned = append(cleaned, r)
	}

	groups := groupByProduct(cleaned)
	if handle != "" && handle != AllProducts {
		groups = selectHandle(groups, handle)
	}
	return groups, nil
}

func groupByProduct(reviews []models.Review) map[string][]models.Review {
	groups := make(map[string][]models.Review)
	for _, r := range reviews {
		groups[r.ProductHandle] = append(groups[r.ProductHandle], r)
	}
	return groups
}

func selectHandle(groups map[string][]models.Review, handle string) map[string][]models.Review {
	selected := make(map[string][]models.Review, 1)
	if reviews, ok := groups[handle]; ok {
		selected[handle] = reviews
	}
	return selected
}

func sortedHandles(groups map[string][]models.Review) []string {
	handles := make([]string, 0, len(groups))
	for h := range groups {
		handles = append(handles, h)
	}
	sort.Strings(handles)
	return handles
}

// cacheKey hashes the operation parameters into a stable Redis key.
func (s *Service) cacheKey(tenant models.Tenant, operation string, params any) string {
	raw, _ := json.Marshal(params)
	sum := sha256.Sum256(raw)
	return cache.InsightKey(tenant.ID, operation, fmt.Sprintf("%x", sum[:8]))
}

// cachedResponse loads a cached payload into v. Cache errors are logged and
// treated as misses.
func (s *Service) cachedResponse(ctx context.Context, key string, v any) bool {
	if s.respCache == nil {
		return false
	}
	raw, found, err := s.respCache.Get(ctx, key)
	if err != nil {
		slog.Warn("response cache get failed", "key", key, "error", err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false
	}
	return true
}

func (s *Service) storeResponse(ctx context.Context, key string, v any) {
	if s.respCache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.respCache.Set(ctx, key, raw, s.respTTL); err != nil {
		slog.Warn("response cache set failed", "key", key, "error", err)
	}
}
