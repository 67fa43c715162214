package insight

import (
	"math"
	"sort"

	"github.com/reviewpulse/reviewpulse/internal/sentiment"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// classified pairs a review with its sentiment, computed once per request.
type classified struct {
	review models.Review
	label  models.SentimentLabel
	score  float64
}

func classifyAll(reviews []models.Review, cls *sentiment.Classifier) []classified {
	out := make([]classified, 0, len(reviews))
	for _, r := range reviews {
		label, score := cls.Classify(r.Body)
		out = append(out, classified{review: r, label: label, score: score})
	}
	return out
}

// Summarize computes the aggregate view over one product's review subset.
// Reviews with neither body nor rating are excluded. Returns the zero-value
// summary (with the handle set) when nothing survives the exclusion.
func Summarize(handle string, reviews []models.Review, cls *sentiment.Classifier) models.ProductSummary {
	summary := models.ProductSummary{
		ProductHandle: handle,
		Complaints:    []models.ThemeCount{},
		Praises:       []models.ThemeCount{},
		MonthlyTrends: []models.MonthlyTrend{},
	}

	var subset []models.Review
	for _, r := range reviews {
		if r.HasContent() {
			subset = append(subset, r)
		}
	}
	if len(subset) == 0 {
		return summary
	}

	items := classifyAll(subset, cls)
	summary.Total = len(items)

	var ratingSum float64
	var positive, negative, neutral int
	var negativeReviews, positiveReviews []models.Review

	for _, it := range items {
		ratingSum += it.review.Rating
		summary.EmotionSummary.Add(sentiment.EmotionsFor(it.score))

		switch it.label {
		case models.SentimentPositive:
			positive++
			positiveReviews = append(positiveReviews, it.review)
		case models.SentimentNegative:
			negative++
			negativeReviews = append(negativeReviews, it.review)
		default:
			neutral++
		}
	}

	total := float64(summary.Total)
	summary.AverageRating = round2(ratingSum / total)
	summary.PositivePct = round2(float64(positive) / total * 100)
	summary.NegativePct = round2(float64(negative) / total * 100)
	summary.NeutralPct = round2(float64(neutral) / total * 100)

	summary.Complaints = ExtractThemes(negativeReviews, Complaint)
	summary.Praises = ExtractThemes(positiveReviews, Praise)
	summary.MonthlyTrends = monthlyTrends(items)

	return summary
}

// monthlyTrends buckets reviews by (year, month) of their timestamp.
// Reviews without a timestamp are excluded from this grouping only.
func monthlyTrends(items []classified) []models.MonthlyTrend {
	type bucket struct {
		ratingSum   float64
		polaritySum float64
		count       int
	}
	type ym struct {
		year  int
		month int
	}

	buckets := make(map[ym]*bucket)
	for _, it := range items {
		if !it.review.HasTimestamp() {
			continue
		}
		key := ym{year: it.review.CreatedAt.Year(), month: int(it.review.CreatedAt.Month())}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.ratingSum += it.review.Rating
		b.polaritySum += it.score
		b.count++
	}

	trends := make([]models.MonthlyTrend, 0, len(buckets))
	for key, b := range buckets {
		n := float64(b.count)
		trends = append(trends, models.MonthlyTrend{
			Year:            key.year,
			Month:           key.month,
			AverageRating:   round2(b.ratingSum / n),
			AveragePolarity: round2(b.polaritySum / n),
			Count:           b.count,
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Year != trends[j].Year {
			return trends[i].Year < trends[j].Year
		}
		return trends[i].Month < trends[j].Month
	})
	return trends
}

// round2 rounds to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
