package insight

import (
	"sort"
	"strings"

	"github.com/reviewpulse/reviewpulse/pkg/models"
)

// Theme is one named feedback category with its trigger keywords.
type Theme struct {
	Name     string
	Keywords []string
}

// Vocabulary is an ordered theme table. Declaration order breaks count ties
// in the extracted ranking.
type Vocabulary []Theme

// Complaint is the vocabulary applied to negative review text.
var Complaint = Vocabulary{
	{Name: "quality", Keywords: []string{"broken", "poor quality", "cheap", "defective", "damaged", "fell apart", "flimsy"}},
	{Name: "delivery", Keywords: []string{"late", "delivery", "shipping", "never arrived", "delayed", "lost"}},
	{Name: "price", Keywords: []string{"expensive", "overpriced", "not worth", "waste of money"}},
	{Name: "size_fit", Keywords: []string{"too small", "too big", "doesn't fit", "does not fit", "wrong size", "tight", "loose"}},
	{Name: "packaging", Keywords: []string{"packaging", "box was", "crushed", "unwrapped"}},
	{Name: "support", Keywords: []string{"customer service", "support", "no response", "rude", "refund"}},
}

// Praise is the vocabulary applied to positive review text.
var Praise = Vocabulary{
	{Name: "quality", Keywords: []string{"great quality", "well made", "durable", "excellent", "sturdy", "love the quality"}},
	{Name: "delivery", Keywords: []string{"fast shipping", "quick delivery", "arrived early", "on time", "fast delivery"}},
	{Name: "price", Keywords: []string{"good value", "affordable", "worth every", "great price", "bargain"}},
	{Name: "fit", Keywords: []string{"fits perfectly", "true to size", "comfortable", "perfect fit"}},
	{Name: "support", Keywords: []string{"helpful", "great service", "responsive", "friendly"}},
}

// ExtractThemes ranks the vocabulary's themes by how many reviews mention
// them. A review counts at most once per theme no matter how many of that
// theme's keywords match, but may count toward several themes. Output is
// sorted by descending count; ties keep vocabulary declaration order, so
// the ranking is deterministic regardless of review input order.
func ExtractThemes(reviews []models.Review, vocab Vocabulary) []models.ThemeCount {
	counts := make([]models.ThemeCount, len(vocab))
	for i, theme := range vocab {
		counts[i] = models.ThemeCount{Theme: theme.Name}
	}

	for _, r := range reviews {
		text := strings.ToLower(r.Body)
		if text == "" {
			continue
		}
		for i, theme := range vocab {
			for _, kw := range theme.Keywords {
				if strings.Contains(text, kw) {
					counts[i].Count++
					break
				}
			}
		}
	}

	// Only themes that actually occurred make the table.
	matched := counts[:0]
	for _, tc := range counts {
		if tc.Count > 0 {
			matched = append(matched, tc)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Count > matched[j].Count
	})
	return matched
}

// topThemes returns at most the first n entries of a ranked table.
func topThemes(counts []models.ThemeCount, n int) []models.ThemeCount {
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
