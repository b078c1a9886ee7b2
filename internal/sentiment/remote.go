package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	DefaultRemoteBudget  = 500
	DefaultRemoteTimeout = 2 * time.Second
	MaxRemoteWorkers     = 8
)

// Classifier is a remote sentiment model. Implementations live in internal/clients.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.SentimentResult, error)
	Name() string
}

// RemoteScorer sends the first Budget texts to a Classifier through a bounded
// worker pool. A text whose request fails or times out, and every text past
// the budget, is scored by Fallback instead. Requests are never retried.
type RemoteScorer struct {
	Classifier Classifier
	Fallback   Scorer
	Workers    int
	Timeout    time.Duration
	Budget     int
}

type RemoteStats struct {
	Remote   int
	Failed   int
	Fallback int
}

type indexedResult struct {
	idx    int
	result models.SentimentResult
	err    error
}

func (r *RemoteScorer) Name() string {
	return EngineRemote
}

// BatchScore returns one result per text, in input order.
func (r *RemoteScorer) BatchScore(ctx context.Context, texts []string, threshold float64) ([]models.SentimentResult, RemoteStats) {
	var stats RemoteStats
	results := make([]models.SentimentResult, len(texts))

	budget := r.Budget
	if budget < 0 || budget > len(texts) {
		budget = len(texts)
	}

	workers := max(1, min(r.Workers, MaxRemoteWorkers))
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}

	jobs := make(chan int)
	out := make(chan indexedResult)

	for w := 0; w < workers; w++ {
		go func() {
			for idx := range jobs {
				out <- r.classify(ctx, idx, texts[idx], timeout)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < budget; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				// unsent rows are reported as failures so the collector still
				// receives exactly budget results
				for j := i; j < budget; j++ {
					out <- indexedResult{idx: j, err: ctx.Err()}
				}
				return
			}
		}
	}()

	for n := 0; n < budget; n++ {
		res := <-out
		if res.err != nil {
			slog.Debug("[RemoteScorer] Falling back for row",
				slog.Int("row", res.idx),
				slog.String("error", res.err.Error()))
			results[res.idx] = r.Fallback.Score(texts[res.idx], threshold)
			stats.Failed++
			continue
		}
		results[res.idx] = res.result
		stats.Remote++
	}

	for i := budget; i < len(texts); i++ {
		results[i] = r.Fallback.Score(texts[i], threshold)
		stats.Fallback++
	}

	slog.Info("[RemoteScorer] Batch scored",
		slog.String("classifier", r.Classifier.Name()),
		slog.Int("remote", stats.Remote),
		slog.Int("failed", stats.Failed),
		slog.Int("over_budget", stats.Fallback))

	return results, stats
}

func (r *RemoteScorer) classify(ctx context.Context, idx int, text string, timeout time.Duration) (res indexedResult) {
	res.idx = idx
	defer func() {
		if p := recover(); p != nil {
			res.err = fmt.Errorf("classifier panicked: %v", p)
		}
	}()

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	res.result, res.err = r.Classifier.Classify(reqCtx, text)
	return res
}
