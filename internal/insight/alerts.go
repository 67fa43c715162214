package insight

import (
	"time"

	"github.com/reviewpulse/reviewpulse/internal/sentiment"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// Alert texts. Callers never receive an empty alert list for a product that
// had enough data to analyze: when nothing fires, the monitoring entry is
// emitted alone.
const (
	AlertRatingDropping = "Average rating dropping"
	AlertNegativeSpike  = "Spike in negative reviews"
	AlertCriticallyLow  = "Critically low recent rating"
	AlertMonitoring     = "No critical alerts yet - monitoring recommended"
)

const criticallyLowRating = 3.0

// AlertParams holds the alert evaluation thresholds.
type AlertParams struct {
	RecentWindowDays int
	RatingDrop       float64
	NegativeSpike    float64
}

// EvaluateAlerts runs every alert rule over a product's recent-vs-historical
// windows. Returns ok=false when even the fallback windows are empty, in
// which case the product has too little data to alert on.
func EvaluateAlerts(handle string, reviews []models.Review, now time.Time, params AlertParams, cls *sentiment.Classifier) (models.AlertResult, bool) {
	recent, historical := splitWindows(reviews, now, params.RecentWindowDays)
	if len(recent) == 0 || len(historical) == 0 {
		return models.AlertResult{}, false
	}

	recentAvg, recentNeg := windowStats(recent, cls)
	histAvg, histNeg := windowStats(historical, cls)

	ratingDrop := histAvg - recentAvg
	negativeChange := recentNeg - histNeg

	var alerts []string
	var dropOrSpike int
	if ratingDrop >= params.RatingDrop {
		alerts = append(alerts, AlertRatingDropping)
		dropOrSpike++
	}
	if negativeChange >= params.NegativeSpike {
		alerts = append(alerts, AlertNegativeSpike)
		dropOrSpike++
	}
	if recentAvg <= criticallyLowRating {
		alerts = append(alerts, AlertCriticallyLow)
	}

	severity := "low"
	switch {
	case len(alerts) >= 2:
		severity = "high"
	case dropOrSpike == 1 && len(alerts) == 1:
		severity = "medium"
	}

	if len(alerts) == 0 {
		alerts = append(alerts, AlertMonitoring)
	}

	return models.AlertResult{
		ProductHandle:     handle,
		HistoricalAvg:     round2(histAvg),
		RecentAvg:         round2(recentAvg),
		RatingDrop:        round2(ratingDrop),
		NegativePctChange: round2(negativeChange),
		Alerts:            alerts,
		Severity:          severity,
	}, true
}

// windowStats computes the average rating and negative-sentiment share of a
// window.
func windowStats(reviews []models.Review, cls *sentiment.Classifier) (avgRating, negativePct float64) {
	if len(reviews) == 0 {
		return 0, 0
	}
	var ratingSum float64
	var negative int
	for _, r := range reviews {
		ratingSum += r.Rating
		if label, _ := cls.Classify(r.Body); label == models.SentimentNegative {
			negative++
		}
	}
	n := float64(len(reviews))
	return ratingSum / n, float64(negative) / n * 100
}
