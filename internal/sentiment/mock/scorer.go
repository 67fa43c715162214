// Package mock provides a sentiment scorer test double.
package mock

import (
	"strings"

	"github.com/reviewpulse/reviewpulse/internal/sentiment"
)

// MockScorer satisfies sentiment.Scorer for testing.
type MockScorer struct {
	Name_     string
	ScoreFunc func(text string) float64
}

func (m *MockScorer) Name() string {
	if m.Name_ == "" {
		return "mock"
	}
	return m.Name_
}

func (m *MockScorer) Score(text string) float64 {
	if m.ScoreFunc != nil {
		return m.ScoreFunc(text)
	}
	return 0
}

// NewMockScorer returns a scorer with crude but predictable behavior:
// text containing "love" or "great" scores 0.8, text containing "broken",
// "bad", or "terrible" scores -0.8, everything else 0.
func NewMockScorer() *MockScorer {
	return &MockScorer{
		Name_: "mock",
		ScoreFunc: func(text string) float64 {
			t := strings.ToLower(text)
			switch {
			case strings.Contains(t, "love") || strings.Contains(t, "great"):
				return 0.8
			case strings.Contains(t, "broken") || strings.Contains(t, "bad") || strings.Contains(t, "terrible"):
				return -0.8
			default:
				return 0
			}
		},
	}
}

// NewFixedScorer returns a scorer that always yields the given score.
func NewFixedScorer(score float64) *MockScorer {
	return &MockScorer{
		Name_:     "mock-fixed",
		ScoreFunc: func(string) float64 { return score },
	}
}

// Compile-time check that MockScorer implements Scorer.
var _ sentiment.Scorer = (*MockScorer)(nil)
