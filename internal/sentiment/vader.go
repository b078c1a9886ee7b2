package sentiment

import (
	"fmt"
	"math"

	"github.com/jonreiter/govader"

	"github.com/spacesedan/reviewlens/internal/models"
)

// LexiconScorer uses the VADER compound score as polarity.
type LexiconScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewLexiconScorer wraps ErrEngineUnavailable when the VADER lexicon cannot be loaded.
func NewLexiconScorer() (scorer *LexiconScorer, err error) {
	defer func() {
		if r := recover(); r != nil {
			scorer = nil
			err = fmt.Errorf("%w: %v", ErrEngineUnavailable, r)
		}
	}()

	analyzer := govader.NewSentimentIntensityAnalyzer()
	if analyzer == nil || len(analyzer.Lexicon) == 0 {
		return nil, fmt.Errorf("%w: empty VADER lexicon", ErrEngineUnavailable)
	}

	return &LexiconScorer{analyzer: analyzer}, nil
}

func (l *LexiconScorer) Name() string {
	return EnginePrimary
}

func (l *LexiconScorer) Score(text string, threshold float64) models.SentimentResult {
	return safeScore(l.Name(), func() models.SentimentResult {
		if text == "" {
			return models.NeutralResult
		}
		compound := l.analyzer.PolarityScores(text).Compound
		if math.IsNaN(compound) {
			return models.NeutralResult
		}
		return Classify(compound, threshold)
	})
}
