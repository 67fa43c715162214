package models

// ThemeCount is one row of a ranked theme table.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// MonthlyTrend is one (year, month) bucket of a product's review history.
type MonthlyTrend struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	AverageRating   float64 `json:"average_rating"`
	AveragePolarity float64 `json:"average_polarity"`
	Count           int     `json:"count"`
}

// ProductSummary is the aggregate view over one product's review subset.
// All numeric fields are zero and slices empty when Total is zero.
type ProductSummary struct {
	ProductHandle  string         `json:"product_handle"`
	Total          int            `json:"total_reviews"`
	AverageRating  float64        `json:"average_rating"`
	PositivePct    float64        `json:"positive_pct"`
	NegativePct    float64        `json:"negative_pct"`
	NeutralPct     float64        `json:"neutral_pct"`
	EmotionSummary EmotionVector  `json:"emotion_summary"`
	Complaints     []ThemeCount   `json:"common_complaints"`
	Praises        []ThemeCount   `json:"common_praises"`
	MonthlyTrends  []MonthlyTrend `json:"monthly_trend"`
}

// TrendResult compares a product's recent window against its history.
// InsufficientData is set when both windows are empty even after the
// five-review fallback; the numeric fields are meaningless in that case.
type TrendResult struct {
	ProductHandle    string  `json:"product_handle"`
	InsufficientData bool    `json:"insufficient_data,omitempty"`
	RecentAvgRating  float64 `json:"recent_avg_rating"`
	PreviousAvg      float64 `json:"previous_avg_rating"`
	RatingDelta      float64 `json:"rating_delta"`
	Trend            string  `json:"trend"`
	RecentCount      int     `json:"recent_count"`
	PreviousCount    int     `json:"previous_count"`
}

// Trend labels derived from the rating delta.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// AlertResult holds the fired alert rules for one product.
type AlertResult struct {
	ProductHandle     string   `json:"product_handle"`
	HistoricalAvg     float64  `json:"historical_avg_rating"`
	RecentAvg         float64  `json:"recent_avg_rating"`
	RatingDrop        float64  `json:"rating_drop"`
	NegativePctChange float64  `json:"negative_pct_change"`
	Alerts            []string `json:"alerts"`
	Severity          string   `json:"severity"`
}

// RiskResult extends a ProductSummary with the weighted risk score.
type RiskResult struct {
	ProductSummary
	RiskScore float64 `json:"risk_score"`
	AtRisk    bool    `json:"at_risk"`
}

// ActionableResult maps a product's recent window to a priority and a
// recommended action.
type ActionableResult struct {
	ProductHandle     string       `json:"product_handle"`
	AverageRating     float64      `json:"average_rating"`
	NegativePct       float64      `json:"negative_pct"`
	Priority          string       `json:"priority"`
	RecommendedAction string       `json:"recommended_action"`
	TopComplaints     []ThemeCount `json:"top_complaints,omitempty"`
	TopPraises        []ThemeCount `json:"top_praises,omitempty"`
}

// ThemeReport is the per-product (or catalog-wide) theme breakdown.
type ThemeReport struct {
	ProductHandle  string       `json:"product_handle"`
	NegativeThemes []ThemeCount `json:"negative_themes"`
	PositiveThemes []ThemeCount `json:"positive_themes"`
}

// PhraseInsights holds the polarity-split phrase mining output.
type PhraseInsights struct {
	ProductHandle string   `json:"product_handle"`
	TopComplaints []string `json:"top_complaints"`
	TopPraises    []string `json:"top_praises"`
}

// TenantStats is the coarse per-tenant review statistic.
type TenantStats struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"average_rating"`
}
