package sentiment

import (
	"strconv"

	"github.com/spacesedan/reviewlens/internal/cache"
	"github.com/spacesedan/reviewlens/internal/models"
)

// CachedScorer memoizes a pure Scorer on (engine, threshold, text).
type CachedScorer struct {
	Scorer
	cache cache.Cache[models.SentimentResult]
}

func NewCachedScorer(s Scorer, c cache.Cache[models.SentimentResult]) *CachedScorer {
	return &CachedScorer{Scorer: s, cache: c}
}

func (c *CachedScorer) Score(text string, threshold float64) models.SentimentResult {
	key := c.Scorer.Name() + "|" + strconv.FormatFloat(threshold, 'g', -1, 64) + "|" + text
	if res, ok := c.cache.Get(key); ok {
		return res
	}
	res := c.Scorer.Score(text, threshold)
	c.cache.Add(key, res)
	return res
}
