package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

// VaderScorer scores text with the VADER rule-based sentiment model. The
// compound score is already normalized to [-1, 1].
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a VADER-backed scorer. The analyzer's lexicon is
// read-only after construction, so a single instance serves all requests.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (s *VaderScorer) Name() string { return "vader" }

func (s *VaderScorer) Score(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	return s.analyzer.PolarityScores(text).Compound
}

var _ Scorer = (*VaderScorer)(nil)
