// Package sentiment provides polarity scoring and the threshold-based
// review classifier built on top of it.
package sentiment

import (
	"fmt"

	"github.com/reviewpulse/reviewpulse/internal/config"
)

// Scorer produces a continuous sentiment polarity in [-1, 1] for a text.
// Implementations must be safe for concurrent use.
type Scorer interface {
	Name() string
	Score(text string) float64
}

// NewScorer constructs the configured polarity scorer.
// Called once at server startup.
func NewScorer(cfg config.SentimentConfig) (Scorer, error) {
	switch cfg.Provider {
	case "vader":
		return NewVaderScorer(), nil
	case "keyword":
		return NewKeywordScorer(), nil
	default:
		return nil, fmt.Errorf("unknown sentiment provider %q: must be one of vader, keyword", cfg.Provider)
	}
}
