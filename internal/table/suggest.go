package table

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// minSuggestedMeanLength is the mean cell length a column needs before it is
// considered free text.
const minSuggestedMeanLength = 20.0

// SuggestTextColumn picks the non-numeric column with the longest mean cell
// length. It reports false when no column averages more than 20 characters.
func SuggestTextColumn(t *Table) (string, bool) {
	best, bestMean := "", minSuggestedMeanLength
	for col, name := range t.Header {
		values := t.Values(col)
		if len(values) == 0 || isNumeric(values) {
			continue
		}

		total := 0
		for _, v := range values {
			total += utf8.RuneCountInString(v)
		}
		mean := float64(total) / float64(len(values))
		if mean > bestMean {
			best, bestMean = name, mean
		}
	}
	return best, best != ""
}

// Samples returns up to n non-empty cells of column col, each cut to maxLen
// characters with a trailing ellipsis when shortened.
func Samples(t *Table, col, n, maxLen int) []string {
	var samples []string
	for _, v := range t.Values(col) {
		if len(samples) == n {
			break
		}
		if strings.TrimSpace(v) == "" {
			continue
		}
		if utf8.RuneCountInString(v) > maxLen {
			v = string([]rune(v)[:maxLen]) + "..."
		}
		samples = append(samples, v)
	}
	return samples
}

func isNumeric(values []string) bool {
	seen := false
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return false
		}
		seen = true
	}
	return seen
}
