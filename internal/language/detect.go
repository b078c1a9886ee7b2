// Package language tags review text with one of a small set of languages.
//
// Detection is substring matching against short keyword lists, so it is
// advisory only: tags feed summary counts and never influence scoring.
package language

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/spacesedan/reviewlens/internal/cache"
	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	minTextLength     = 5
	DefaultSampleSize = 1000
)

type rule struct {
	lang     models.Language
	keywords []string
}

// rules are checked in order and the first language with any matching keyword wins.
var rules = []rule{
	{lang: models.LanguageShona, keywords: []string{"ndi", "na", "ne", "ku", "kwa", "ndatenda", "mangwanani"}},
	{lang: models.LanguageNdebele, keywords: []string{"ngi", "si", "li", "ba", "ngiyabonga", "sawubona"}},
	{lang: models.LanguageTonga, keywords: []string{"ba", "be", "bi", "mu", "twalumba", "mwabuka"}},
}

var englishCues = []string{"the", "and", "you", "that", "for", "with", "this"}

type Tagger struct {
	cache cache.Cache[models.Language]
}

// NewTagger memoizes tags in c. A nil cache disables memoization.
func NewTagger(c cache.Cache[models.Language]) *Tagger {
	if c == nil {
		c = cache.Disabled[models.Language]{}
	}
	return &Tagger{cache: c}
}

// Tag is deterministic in text, so cached and uncached calls agree.
func (t *Tagger) Tag(text string) models.Language {
	if utf8.RuneCountInString(text) < minTextLength {
		return models.LanguageUnknown
	}
	if lang, ok := t.cache.Get(text); ok {
		return lang
	}
	lang := detect(text)
	t.cache.Add(text, lang)
	return lang
}

// Sample tags at most limit texts from the front of texts and counts the tags.
func (t *Tagger) Sample(texts []string, limit int) map[models.Language]int {
	if limit <= 0 || limit > len(texts) {
		limit = len(texts)
	}

	counts := make(map[models.Language]int)
	for _, text := range texts[:limit] {
		counts[t.Tag(text)]++
	}

	slog.Debug("[LanguageTagger] Sampled languages",
		slog.Int("sampled", limit),
		slog.Int("languages", len(counts)))
	return counts
}

func detect(text string) (lang models.Language) {
	defer func() {
		if r := recover(); r != nil {
			lang = models.LanguageUnknown
		}
	}()

	lower := strings.ToLower(text)
	for _, r := range rules {
		if containsAny(lower, r.keywords) {
			return r.lang
		}
	}
	if containsAny(lower, englishCues) {
		return models.LanguageEnglish
	}
	return models.LanguageUnknown
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
