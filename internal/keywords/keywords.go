// Package keywords ranks the most frequent content words across a run.
package keywords

import (
	"log/slog"
	"regexp"
	"slices"
	"strings"

	"github.com/spacesedan/reviewlens/internal/models"
)

const DefaultTopN = 15

var (
	// wordPattern matches whole Unicode words so that accented words are
	// never split into ASCII fragments.
	wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)
	// keywordPattern accepts words made only of 3 to 15 ASCII letters.
	keywordPattern = regexp.MustCompile(`^[a-z]{3,15}$`)
)

func tokens(text string) []string {
	var out []string
	for _, word := range wordPattern.FindAllString(text, -1) {
		if keywordPattern.MatchString(word) {
			out = append(out, word)
		}
	}
	return out
}

// TopKeywords returns at most n keywords ordered by descending frequency.
// Ties keep first-seen order. It returns an empty list instead of failing.
func TopKeywords(texts []string, n int) (top []models.KeywordFrequency) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("[KeywordAggregator] Extraction failed, returning no keywords",
				slog.Any("panic", r))
			top = []models.KeywordFrequency{}
		}
	}()

	if n <= 0 {
		n = DefaultTopN
	}

	all := strings.ToLower(strings.Join(texts, " "))

	counts := make(map[string]int)
	var order []string
	for _, token := range tokens(all) {
		if IsStopword(token) {
			continue
		}
		if _, seen := counts[token]; !seen {
			order = append(order, token)
		}
		counts[token]++
	}

	ranked := make([]models.KeywordFrequency, 0, len(order))
	for _, word := range order {
		ranked = append(ranked, models.KeywordFrequency{Keyword: word, Frequency: counts[word]})
	}

	slices.SortStableFunc(ranked, func(a, b models.KeywordFrequency) int {
		return b.Frequency - a.Frequency
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
