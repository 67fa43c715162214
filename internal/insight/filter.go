package insight

// ResultFilter enumerates every recognized post-aggregation filter. Filters
// are applied as a final pass over computed results, never inside the
// aggregation itself. Nil fields are inactive.
type ResultFilter struct {
	MinAvgRating   *float64
	MaxAvgRating   *float64
	MinNegativePct *float64
	MaxNegativePct *float64
	Priority       string
}

// MatchRating reports whether a product's average rating and negative share
// pass the numeric filters.
func (f ResultFilter) MatchRating(avgRating, negativePct float64) bool {
	if f.MinAvgRating != nil && avgRating < *f.MinAvgRating {
		return false
	}
	if f.MaxAvgRating != nil && avgRating > *f.MaxAvgRating {
		return false
	}
	if f.MinNegativePct != nil && negativePct < *f.MinNegativePct {
		return false
	}
	if f.MaxNegativePct != nil && negativePct > *f.MaxNegativePct {
		return false
	}
	return true
}

// MatchPriority reports whether a result's priority passes the filter.
func (f ResultFilter) MatchPriority(priority string) bool {
	return f.Priority == "" || f.Priority == priority
}
