package insight

import (
	"sort"
	"time"

	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// Thresholds on the rating delta separating improving/declining from stable.
const trendDelta = 0.2

// fallbackWindow is how many reviews stand in for an empty comparison
// window: the last five chronologically for recent, the first five for
// historical.
const fallbackWindow = 5

// splitWindows partitions a product's timestamped reviews into recent and
// historical sides around the cutoff, applying the five-review fallback
// when either side comes up empty. Reviews without a timestamp are dropped
// here; this operation never substitutes now.
func splitWindows(reviews []models.Review, now time.Time, recentWindowDays int) (recent, historical []models.Review) {
	var dated []models.Review
	for _, r := range reviews {
		if r.HasTimestamp() {
			dated = append(dated, r)
		}
	}
	sort.Slice(dated, func(i, j int) bool {
		return dated[i].CreatedAt.Before(dated[j].CreatedAt)
	})

	cutoff := now.AddDate(0, 0, -recentWindowDays)
	for _, r := range dated {
		if !r.CreatedAt.Before(cutoff) {
			recent = append(recent, r)
		} else {
			historical = append(historical, r)
		}
	}

	if len(recent) == 0 && len(dated) > 0 {
		start := len(dated) - fallbackWindow
		if start < 0 {
			start = 0
		}
		recent = dated[start:]
	}
	if len(historical) == 0 && len(dated) > 0 {
		end := fallbackWindow
		if end > len(dated) {
			end = len(dated)
		}
		historical = dated[:end]
	}
	return recent, historical
}

// AnalyzeTrend compares a product's recent window against its history and
// derives the trend direction. When both windows are empty even after the
// fallback, the result is marked insufficient rather than dropped.
func AnalyzeTrend(handle string, reviews []models.Review, now time.Time, recentWindowDays int) models.TrendResult {
	recent, historical := splitWindows(reviews, now, recentWindowDays)
	if len(recent) == 0 || len(historical) == 0 {
		return models.TrendResult{ProductHandle: handle, InsufficientData: true}
	}

	recentAvg := averageRating(recent)
	previousAvg := averageRating(historical)
	delta := round2(recentAvg - previousAvg)

	trend := models.TrendStable
	switch {
	case delta > trendDelta:
		trend = models.TrendImproving
	case delta < -trendDelta:
		trend = models.TrendDeclining
	}

	return models.TrendResult{
		ProductHandle:   handle,
		RecentAvgRating: round2(recentAvg),
		PreviousAvg:     round2(previousAvg),
		RatingDelta:     delta,
		Trend:           trend,
		RecentCount:     len(recent),
		PreviousCount:   len(historical),
	}
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Rating
	}
	return sum / float64(len(reviews))
}
