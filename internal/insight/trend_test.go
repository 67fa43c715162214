package insight

import (
	"testing"
	"time"

	"github.com/reviewpulse/reviewpulse/pkg/models"
)

var trendNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return trendNow.AddDate(0, 0, -n)
}

func ratedReview(rating float64, createdAt time.Time) models.Review {
	return models.Review{ProductHandle: "p", Body: "text", Rating: rating, CreatedAt: createdAt}
}

func TestAnalyzeTrend_Improving(t *testing.T) {
	reviews := []models.Review{
		ratedReview(2, daysAgo(60)),
		ratedReview(2, daysAgo(50)),
		ratedReview(5, daysAgo(2)),
		ratedReview(5, daysAgo(1)),
	}

	result := AnalyzeTrend("p", reviews, trendNow, 7)

	if result.InsufficientData {
		t.Fatal("expected sufficient data")
	}
	if result.Trend != models.TrendImproving {
		t.Errorf("expected improving, got %s", result.Trend)
	}
	if result.RecentAvgRating != 5.0 {
		t.Errorf("expected recent avg 5.0, got %v", result.RecentAvgRating)
	}
	if result.PreviousAvg != 2.0 {
		t.Errorf("expected previous avg 2.0, got %v", result.PreviousAvg)
	}
	if result.RatingDelta != 3.0 {
		t.Errorf("expected delta 3.0, got %v", result.RatingDelta)
	}
	if result.RecentCount != 2 || result.PreviousCount != 2 {
		t.Errorf("unexpected counts: %d/%d", result.RecentCount, result.PreviousCount)
	}
}

func TestAnalyzeTrend_Declining(t *testing.T) {
	reviews := []models.Review{
		ratedReview(5, daysAgo(60)),
		ratedReview(5, daysAgo(50)),
		ratedReview(1, daysAgo(1)),
	}

	result := AnalyzeTrend("p", reviews, trendNow, 7)

	if result.Trend != models.TrendDeclining {
		t.Errorf("expected declining, got %s", result.Trend)
	}
}

func TestAnalyzeTrend_StableWithinDelta(t *testing.T) {
	reviews := []models.Review{
		ratedReview(4.0, daysAgo(60)),
		ratedReview(4.0, daysAgo(50)),
		ratedReview(4.1, daysAgo(1)),
		ratedReview(4.1, daysAgo(2)),
	}

	result := AnalyzeTrend("p", reviews, trendNow, 7)

	if result.Trend != models.TrendStable {
		t.Errorf("expected stable for delta 0.1, got %s", result.Trend)
	}
}

func TestAnalyzeTrend_RecentFallbackLastFive(t *testing.T) {
	// All reviews older than the window: the last five chronologically stand
	// in for the recent side.
	var reviews []models.Review
	for i := 0; i < 8; i++ {
		reviews = append(reviews, ratedReview(float64(i%5+1), daysAgo(100-i)))
	}

	result := AnalyzeTrend("p", reviews, trendNow, 7)

	if result.InsufficientData {
		t.Fatal("expected fallback to produce windows")
	}
	if result.RecentCount != 5 {
		t.Errorf("expected recent fallback of 5, got %d", result.RecentCount)
	}
}

func TestAnalyzeTrend_HistoricalFallbackFirstFive(t *testing.T) {
	// All reviews inside the window: the first five stand in for history.
	var reviews []models.Review
	for i := 0; i < 8; i++ {
		reviews = append(reviews, ratedReview(4, daysAgo(i%5)))
	}

	result := AnalyzeTrend("p", reviews, trendNow, 7)

	if result.InsufficientData {
		t.Fatal("expected fallback to produce windows")
	}
	if result.PreviousCount != 5 {
		t.Errorf("expected historical fallback of 5, got %d", result.PreviousCount)
	}
}

func TestAnalyzeTrend_InsufficientData(t *testing.T) {
	// Only timestamp-less reviews: nothing survives for either window.
	reviews := []models.Review{
		{ProductHandle: "p", Body: "text", Rating: 5},
	}

	result := AnalyzeTrend("p", reviews, trendNow, 7)

	if !result.InsufficientData {
		t.Error("expected insufficient data marker")
	}
	if result.ProductHandle != "p" {
		t.Errorf("expected handle preserved, got %q", result.ProductHandle)
	}
}

func TestSplitWindows_DropsTimestampless(t *testing.T) {
	reviews := []models.Review{
		ratedReview(5, daysAgo(1)),
		ratedReview(3, daysAgo(60)),
		{ProductHandle: "p", Body: "no date", Rating: 1},
	}

	recent, historical := splitWindows(reviews, trendNow, 7)

	if len(recent) != 1 || len(historical) != 1 {
		t.Fatalf("expected 1/1 windows, got %d/%d", len(recent), len(historical))
	}
}

func TestAverageRating(t *testing.T) {
	if got := averageRating(nil); got != 0 {
		t.Errorf("expected 0 for empty input, got %v", got)
	}
	reviews := []models.Review{{Rating: 2}, {Rating: 4}}
	if got := averageRating(reviews); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}
