package insight

import (
	"regexp"
	"sort"
	"strings"

	"github.com/reviewpulse/reviewpulse/internal/sentiment"
	"github.com/reviewpulse/reviewpulse/pkg/models"
)

var reWord = regexp.MustCompile(`\b[a-z]{3,}\b`)

const phraseLimit = 3

// MinePhrases splits review texts by polarity and counts their bigrams and
// trigrams, returning the most frequent phrases on each side. This is the
// free-form complement to the fixed theme vocabularies.
func MinePhrases(handle string, reviews []models.Review, scorer sentiment.Scorer) models.PhraseInsights {
	complaints := make(map[string]int)
	praises := make(map[string]int)

	for _, r := range reviews {
		text := strings.ToLower(strings.TrimSpace(r.Body))
		if text == "" {
			continue
		}

		polarity := scorer.Score(text)
		if polarity >= -0.1 && polarity <= 0.1 {
			continue
		}

		words := reWord.FindAllString(text, -1)
		var phrases []string
		for i := 0; i+1 < len(words); i++ {
			phrases = append(phrases, words[i]+" "+words[i+1])
		}
		for i := 0; i+2 < len(words); i++ {
			phrases = append(phrases, words[i]+" "+words[i+1]+" "+words[i+2])
		}

		target := praises
		if polarity < -0.1 {
			target = complaints
		}
		for _, p := range phrases {
			target[p]++
		}
	}

	return models.PhraseInsights{
		ProductHandle: handle,
		TopComplaints: topPhrases(complaints, phraseLimit),
		TopPraises:    topPhrases(praises, phraseLimit),
	}
}

// topPhrases ranks phrases by count, ties broken lexicographically so the
// output is stable across runs.
func topPhrases(counts map[string]int, n int) []string {
	type pc struct {
		phrase string
		count  int
	}
	ranked := make([]pc, 0, len(counts))
	for p, c := range counts {
		ranked = append(ranked, pc{phrase: p, count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].phrase < ranked[j].phrase
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.phrase)
	}
	return out
}
