package insight

// Weights of the risk score blend: rating deficit dominates, negative
// sentiment share refines.
const (
	riskRatingWeight    = 0.7
	riskSentimentWeight = 0.3
	ratingScale         = 5.0
)

// RiskScore computes the weighted risk score from an average rating and a
// negative-sentiment percentage. A rating of 2.5 with 60% negative reviews
// scores 0.53.
func RiskScore(avgRating, negativePct float64) float64 {
	deficit := 1 - avgRating/ratingScale
	return round2(deficit*riskRatingWeight + negativePct/100*riskSentimentWeight)
}
