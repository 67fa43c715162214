package insight

import (
	"time"

	"github.com/reviewpulse/reviewpulse/internal/sentiment"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// Recommended actions by priority.
const (
	ActionInvestigate = "Investigate recurring customer complaints immediately"
	ActionMonitor     = "Monitor feedback and address emerging issues"
	ActionNone        = "No immediate action needed"
)

const actionableThemeLimit = 5

// Actionable maps a product's recent window to a priority and recommended
// action. Unlike the trend operations, reviews without a timestamp are kept
// here by substituting now, so a product whose provider drops timestamps is
// still triaged. Returns ok=false only when the product has no reviews at
// all.
func Actionable(handle string, reviews []models.Review, now time.Time, recentWindowDays int, cls *sentiment.Classifier, withThemes bool) (models.ActionableResult, bool) {
	recent := recentOrFallback(reviews, now, recentWindowDays)
	if len(recent) == 0 {
		return models.ActionableResult{}, false
	}

	avgRating, negativePct := windowStats(recent, cls)
	avgRating = round2(avgRating)
	negativePct = round2(negativePct)

	priority := "low"
	action := ActionNone
	switch {
	case avgRating <= 3.0 || negativePct >= 40:
		priority = "high"
		action = ActionInvestigate
	case avgRating < 4.0 || negativePct >= 25:
		priority = "medium"
		action = ActionMonitor
	}

	result := models.ActionableResult{
		ProductHandle:     handle,
		AverageRating:     avgRating,
		NegativePct:       negativePct,
		Priority:          priority,
		RecommendedAction: action,
	}

	if withThemes {
		var negative, positive []models.Review
		for _, r := range recent {
			switch label, _ := cls.Classify(r.Body); label {
			case models.SentimentNegative:
				negative = append(negative, r)
			case models.SentimentPositive:
				positive = append(positive, r)
			}
		}
		// When a sentiment bucket is empty, mine the whole recent window so
		// the report is never blank.
		if len(negative) == 0 {
			negative = recent
		}
		if len(positive) == 0 {
			positive = recent
		}
		result.TopComplaints = topThemes(ExtractThemes(negative, Complaint), actionableThemeLimit)
		result.TopPraises = topThemes(ExtractThemes(positive, Praise), actionableThemeLimit)
	}

	return result, true
}

// recentOrFallback keeps reviews inside the recent window, substituting now
// for missing timestamps, and falls back to the last five reviews in input
// order when the window is empty.
func recentOrFallback(reviews []models.Review, now time.Time, recentWindowDays int) []models.Review {
	cutoff := now.AddDate(0, 0, -recentWindowDays)

	var recent []models.Review
	for _, r := range reviews {
		ts := r.CreatedAt
		if !r.HasTimestamp() {
			ts = now
		}
		if !ts.Before(cutoff) {
			recent = append(recent, r)
		}
	}

	if len(recent) == 0 {
		start := len(reviews) - fallbackWindow
		if start < 0 {
			start = 0
		}
		recent = reviews[start:]
	}
	return recent
}
