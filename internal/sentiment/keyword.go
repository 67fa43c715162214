package sentiment

import (
	"strings"
	"unicode"
)

// Small fixed lexicons. The keyword scorer is a deterministic offline
// fallback, not a replacement for VADER.
var positiveWords = map[string]struct{}{
	"love": {}, "great": {}, "excellent": {}, "amazing": {}, "perfect": {},
	"good": {}, "awesome": {}, "fantastic": {}, "wonderful": {}, "best": {},
	"happy": {}, "beautiful": {}, "comfortable": {}, "fast": {}, "recommend": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "horrible": {}, "broken": {},
	"poor": {}, "worst": {}, "late": {}, "slow": {}, "cheap": {},
	"disappointed": {}, "disappointing": {}, "refund": {}, "damaged": {}, "useless": {},
	"hate": {}, "never": {}, "defective": {},
}

// KeywordScorer scores text by counting lexicon hits. Score is the signed
// share of sentiment-bearing tokens, naturally bounded to [-1, 1].
type KeywordScorer struct{}

func NewKeywordScorer() *KeywordScorer { return &KeywordScorer{} }

func (s *KeywordScorer) Name() string { return "keyword" }

func (s *KeywordScorer) Score(text string) float64 {
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var pos, neg int
	for _, tok := range tokens {
		if _, ok := positiveWords[tok]; ok {
			pos++
		}
		if _, ok := negativeWords[tok]; ok {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

var _ Scorer = (*KeywordScorer)(nil)
