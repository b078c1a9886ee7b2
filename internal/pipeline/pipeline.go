// Package pipeline runs one analysis over an in-memory table:
// cleaning, optional language sampling, scoring, keyword extraction and
// summary statistics, in that order.
//
// Only input errors (bad configuration, missing text column) stop a run.
// Every other failure degrades to a safe default inside the component that
// hit it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
	"unicode/utf8"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/cache"
	"github.com/spacesedan/reviewlens/internal/keywords"
	"github.com/spacesedan/reviewlens/internal/language"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/sentiment"
	"github.com/spacesedan/reviewlens/internal/table"
	"github.com/spacesedan/reviewlens/internal/textclean"
	"github.com/spacesedan/reviewlens/internal/utils"
)

// minCleanedLength is the longest cleaned text that is still dropped.
const minCleanedLength = 3

// Options carries the collaborators of a run. The zero value is usable for
// the primary and fallback engines.
type Options struct {
	// NewPrimary builds the primary engine. Defaults to the VADER lexicon.
	NewPrimary func() (sentiment.Scorer, error)
	// Classifier is the remote model used by the remote engine.
	Classifier sentiment.Classifier
	// HealthCheck is consulted once before any remote call.
	HealthCheck func(ctx context.Context) bool

	SentimentCache cache.Cache[models.SentimentResult]
	LanguageCache  cache.Cache[models.Language]
}

type Result struct {
	Header   []string
	Column   string
	Rows     []models.AnalyzedRow
	Summary  models.AnalysisSummary
	Metadata models.RunMetadata
}

type run struct {
	cfg   config.Config
	opts  Options
	stage Stage
	start time.Time

	warnings []string
}

// Run analyzes column of tbl. Calling it twice with the same table and
// configuration yields the same labels.
func Run(ctx context.Context, tbl *table.Table, column string, cfg config.Config, opts Options) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if tbl == nil {
		return nil, &table.InputError{Source: column, Err: errors.New("no table loaded")}
	}
	col, err := tbl.ColumnIndex(column)
	if err != nil {
		return nil, err
	}

	r := &run{cfg: cfg, opts: opts, start: time.Now()}

	r.advance(StageCleaning)
	rows := r.clean(tbl, col)
	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = row.CleanedText
	}

	var languages map[models.Language]int
	if cfg.LanguageMode != config.LanguageModeEnglish {
		r.advance(StageLanguageSampling)
		languages = r.sampleLanguages(texts)
	}

	r.advance(StageScoring)
	results, engine := r.score(ctx, texts)
	for i := range rows {
		rows[i].SentimentResult = results[i]
	}

	r.advance(StageKeywordExtraction)
	top := keywords.TopKeywords(texts, cfg.TopKeywords)

	r.advance(StageSummarizing)
	summary := Summarize(rows, time.Since(r.start))
	summary.InputRows = len(tbl.Rows)
	summary.DroppedRows = len(tbl.Rows) - len(rows)
	summary.Languages = languages
	summary.Keywords = top
	summary.Engine = engine
	summary.Threshold = cfg.Threshold
	summary.Warnings = r.warnings

	r.advance(StageDone)
	slog.Info("[Pipeline] Analysis complete",
		slog.Int("rows", summary.TotalRows),
		slog.Int("dropped", summary.DroppedRows),
		slog.String("engine", engine),
		slog.Duration("elapsed", summary.Elapsed))

	return &Result{
		Header:   tbl.Header,
		Column:   column,
		Rows:     rows,
		Summary:  summary,
		Metadata: models.NewRunMetadata(engine, cfg.Operator),
	}, nil
}

func (r *run) advance(next Stage) {
	slog.Debug("[Pipeline] Stage transition",
		slog.String("from", r.stage.String()),
		slog.String("to", next.String()),
		slog.Duration("elapsed", time.Since(r.start)))
	r.stage = next
}

func (r *run) warn(msg string, attrs ...any) {
	slog.Warn("[Pipeline] "+msg, attrs...)
	r.warnings = append(r.warnings, msg)
}

func (r *run) clean(tbl *table.Table, col int) []models.AnalyzedRow {
	rows := make([]models.AnalyzedRow, 0, len(tbl.Rows))
	for _, row := range tbl.Rows {
		var raw any
		if col < len(row.Values) {
			raw = row.Values[col]
		}
		cleaned := textclean.Clean(raw)
		if utf8.RuneCountInString(cleaned) <= minCleanedLength {
			continue
		}
		rows = append(rows, models.AnalyzedRow{Row: row, CleanedText: cleaned})
	}
	return rows
}

func (r *run) sampleLanguages(texts []string) map[models.Language]int {
	c := r.opts.LanguageCache
	if c == nil {
		c = cache.New[models.Language](r.cfg.CacheSize)
	}

	limit := r.cfg.SampleSize
	if limit == 0 {
		limit = language.DefaultSampleSize
	}
	return language.NewTagger(c).Sample(texts, limit)
}

// score picks the engine and returns the results with the name of the engine
// that actually produced them.
func (r *run) score(ctx context.Context, texts []string) ([]models.SentimentResult, string) {
	if r.cfg.Engine == sentiment.EngineRemote {
		return r.scoreRemote(ctx, texts)
	}

	scorer := r.localScorer(r.cfg.Engine)
	return r.scoreLocal(scorer, texts), scorer.Name()
}

func (r *run) scoreLocal(scorer sentiment.Scorer, texts []string) []models.SentimentResult {
	results := make([]models.SentimentResult, 0, len(texts))
	batches := utils.Chunk(texts, r.cfg.BatchSize)
	for i, batch := range batches {
		results = append(results, sentiment.ScoreAll(scorer, batch, r.cfg.Threshold)...)
		logBatch(i, len(batches), len(batch))
	}
	return results
}

func logBatch(i, of, size int) {
	slog.Debug("[Pipeline] Scored batch",
		slog.Int("batch", i+1),
		slog.Int("of", of),
		slog.Int("size", size))
}

func (r *run) scoreRemote(ctx context.Context, texts []string) ([]models.SentimentResult, string) {
	lexicon := r.localScorer(sentiment.EnginePrimary)

	switch {
	case r.opts.Classifier == nil:
		r.warn("Remote engine has no classifier configured, scoring locally",
			slog.String("engine", lexicon.Name()))
		return r.scoreLocal(lexicon, texts), lexicon.Name()
	case r.opts.HealthCheck != nil && !r.opts.HealthCheck(ctx):
		r.warn("Remote model is unhealthy, scoring locally",
			slog.String("engine", lexicon.Name()))
		return r.scoreLocal(lexicon, texts), lexicon.Name()
	}

	remote := &sentiment.RemoteScorer{
		Classifier: r.opts.Classifier,
		Fallback:   lexicon,
		Workers:    r.cfg.ParallelWorkers,
		Timeout:    r.cfg.RemoteTimeout,
	}

	// the budget spans the whole run; a negative budget stays unlimited
	remaining := r.cfg.RemoteBudget
	results := make([]models.SentimentResult, 0, len(texts))
	var failed int
	batches := utils.Chunk(texts, r.cfg.BatchSize)
	for i, batch := range batches {
		remote.Budget = remaining
		scored, stats := remote.BatchScore(ctx, batch, r.cfg.Threshold)
		results = append(results, scored...)
		if remaining >= 0 {
			remaining = max(0, remaining-stats.Remote-stats.Failed)
		}
		failed += stats.Failed
		logBatch(i, len(batches), len(batch))
	}
	if failed > 0 {
		slog.Info("[Pipeline] Some remote requests fell back to the lexicon",
			slog.Int("failed", failed))
	}
	return results, remote.Name()
}

// localScorer resolves engine to a Scorer. An unavailable primary engine is
// replaced by the cue-word fallback for the whole run.
func (r *run) localScorer(engine string) sentiment.Scorer {
	var scorer sentiment.Scorer = sentiment.NewCueScorer()

	if engine == sentiment.EnginePrimary {
		newPrimary := r.opts.NewPrimary
		if newPrimary == nil {
			newPrimary = defaultPrimary
		}
		primary, err := newPrimary()
		if err != nil {
			r.warn(fmt.Sprintf("Primary engine unavailable, using %s engine: %v", sentiment.EngineFallback, err))
		} else {
			scorer = primary
		}
	}

	c := r.opts.SentimentCache
	if c == nil {
		c = cache.New[models.SentimentResult](r.cfg.CacheSize)
	}
	return sentiment.NewCachedScorer(scorer, c)
}

func defaultPrimary() (sentiment.Scorer, error) {
	return sentiment.NewLexiconScorer()
}

// Summarize computes label counts, percentages, mean polarity and throughput
// over the surviving rows.
func Summarize(rows []models.AnalyzedRow, elapsed time.Duration) models.AnalysisSummary {
	summary := models.AnalysisSummary{
		TotalRows:   len(rows),
		Counts:      make(map[models.Label]int, len(models.Labels)),
		Percentages: make(map[models.Label]float64, len(models.Labels)),
		Elapsed:     elapsed,
	}
	for _, label := range models.Labels {
		summary.Counts[label] = 0
		summary.Percentages[label] = 0
	}

	var polaritySum float64
	for _, row := range rows {
		summary.Counts[row.Label]++
		polaritySum += row.Polarity
	}

	if len(rows) > 0 {
		n := float64(len(rows))
		summary.AvgPolarity = polaritySum / n
		for label, count := range summary.Counts {
			summary.Percentages[label] = round1(float64(count) / n * 100)
		}
	}

	if summary.ThroughputBounded() {
		summary.RowsPerSec = float64(len(rows)) / elapsed.Seconds()
	}
	return summary
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
