package sentiment

import (
	"math"
	"strings"
	"unicode"

	"github.com/spacesedan/reviewlens/internal/models"
)

// cueDivisor scales the raw cue balance so five net cues saturate the score.
const cueDivisor = 5.0

var positiveCues = map[string]struct{}{
	"good": {}, "great": {}, "excellent": {}, "amazing": {}, "love": {},
	"best": {}, "awesome": {}, "wonderful": {}, "fantastic": {}, "happy": {},
	"perfect": {}, "nice": {}, "satisfied": {}, "recommend": {}, "helpful": {},
	"friendly": {}, "fast": {},
	// shona / ndebele
	"zvakanaka": {}, "ndinofara": {}, "kuhle": {}, "ngiyajabula": {},
}

var negativeCues = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "worst": {}, "hate": {},
	"poor": {}, "horrible": {}, "disappointed": {}, "disappointing": {}, "slow": {},
	"rude": {}, "broken": {}, "useless": {}, "waste": {},
	// shona / ndebele
	"zvakaipa": {}, "handifare": {}, "kubi": {},
}

// CueScorer is the dependency-free fallback. It counts cue words and needs
// nothing beyond the two fixed lists above.
type CueScorer struct{}

func NewCueScorer() CueScorer {
	return CueScorer{}
}

func (CueScorer) Name() string {
	return EngineFallback
}

func (c CueScorer) Score(text string, threshold float64) models.SentimentResult {
	return safeScore(c.Name(), func() models.SentimentResult {
		return Classify(CueScore(text), threshold)
	})
}

// CueScore returns (positive cues - negative cues) / 5, clamped to [-1, 1].
func CueScore(text string) float64 {
	var pos, neg int
	for _, word := range words(text) {
		if _, ok := positiveCues[word]; ok {
			pos++
		}
		if _, ok := negativeCues[word]; ok {
			neg++
		}
	}
	score := float64(pos-neg) / cueDivisor
	return math.Max(-1, math.Min(1, score))
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
