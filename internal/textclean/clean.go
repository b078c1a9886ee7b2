// Package textclean turns raw table cells into analyzable strings.
package textclean

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLength is the maximum number of runes kept after cleaning.
const MaxLength = 500

var (
	urlPattern        = regexp.MustCompile(`http\S+|www\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Clean never fails: nil, NaN and anything that cannot be printed become "".
func Clean(raw any) (cleaned string) {
	defer func() {
		if r := recover(); r != nil {
			cleaned = ""
		}
	}()

	text, ok := stringify(raw)
	if !ok {
		return ""
	}

	text = strings.TrimSpace(text)
	text = RemoveLinks(text)
	text = whitespacePattern.ReplaceAllString(text, " ")

	return truncate(text, MaxLength)
}

// RemoveLinks strips URL-like substrings (anything starting with http or www).
func RemoveLinks(input string) string {
	return urlPattern.ReplaceAllString(input, "")
}

func stringify(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case []byte:
		return string(v), true
	case float64:
		if math.IsNaN(v) {
			return "", false
		}
		return fmt.Sprint(v), true
	case float32:
		if math.IsNaN(float64(v)) {
			return "", false
		}
		return fmt.Sprint(v), true
	case fmt.Stringer:
		return v.String(), true
	default:
		return fmt.Sprint(v), true
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
