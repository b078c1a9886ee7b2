// Package sentiment classifies cleaned review text as Positive, Neutral or
// Negative.
//
// Every Scorer is a total function: any failure while scoring a text yields
// models.NeutralResult instead of an error or a panic. The label always
// follows the polarity through Classify, so a polarity exactly equal to the
// threshold is Neutral.
package sentiment

import (
	"errors"
	"log/slog"

	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	EnginePrimary  = "primary"
	EngineFallback = "fallback"
	EngineRemote   = "remote"
)

// ErrEngineUnavailable is returned when the primary engine cannot be built.
var ErrEngineUnavailable = errors.New("sentiment engine unavailable")

type Scorer interface {
	Score(text string, threshold float64) models.SentimentResult
	Name() string
}

// Classify applies the strict neutrality band: Positive above threshold,
// Negative below -threshold, Neutral otherwise.
func Classify(polarity, threshold float64) models.SentimentResult {
	label := models.LabelNeutral
	switch {
	case polarity > threshold:
		label = models.LabelPositive
	case polarity < -threshold:
		label = models.LabelNegative
	}
	return models.SentimentResult{Label: label, Polarity: polarity}
}

// ScoreAll scores texts in order.
func ScoreAll(s Scorer, texts []string, threshold float64) []models.SentimentResult {
	results := make([]models.SentimentResult, len(texts))
	for i, text := range texts {
		results[i] = s.Score(text, threshold)
	}
	return results
}

// safeScore runs fn and converts a panic into the neutral default.
func safeScore(name string, fn func() models.SentimentResult) (result models.SentimentResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("[Sentiment] Scorer recovered from panic",
				slog.String("scorer", name),
				slog.Any("panic", r))
			result = models.NeutralResult
		}
	}()
	return fn()
}
