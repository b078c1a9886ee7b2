package pipeline

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/sentiment"
	"github.com/spacesedan/reviewlens/internal/table"
)

func newTable(t *testing.T, csvData string) *table.Table {
	t.Helper()
	tbl, err := table.Read(strings.NewReader(csvData), table.FormatCSV, table.ReadOptions{})
	require.NoError(t, err)
	return tbl
}

func fallbackConfig() config.Config {
	cfg := config.Default()
	cfg.Engine = sentiment.EngineFallback
	cfg.Threshold = 0.1
	return cfg
}

func TestRunFallbackScenario(t *testing.T) {
	tbl := newTable(t, "id,review\n1,I love this!\n2,This is terrible\n3,It is okay\n4,\n")

	res, err := Run(context.Background(), tbl, "review", fallbackConfig(), Options{})
	require.NoError(t, err)

	require.Len(t, res.Rows, 3)
	assert.Equal(t, models.LabelPositive, res.Rows[0].Label)
	assert.Equal(t, models.LabelNegative, res.Rows[1].Label)
	assert.Equal(t, models.LabelNeutral, res.Rows[2].Label)

	// pass-through columns survive untouched
	assert.Equal(t, []string{"2", "This is terrible"}, res.Rows[1].Values)
	assert.Equal(t, "This is terrible", res.Rows[1].CleanedText)

	assert.Equal(t, 4, res.Summary.InputRows)
	assert.Equal(t, 3, res.Summary.TotalRows)
	assert.Equal(t, 1, res.Summary.DroppedRows)
	assert.Equal(t, sentiment.EngineFallback, res.Summary.Engine)
	assert.Equal(t, sentiment.EngineFallback, res.Metadata.Engine)
	assert.NotEmpty(t, res.Metadata.RunID)
	assert.Empty(t, res.Summary.Warnings)
}

func TestRunDropsShortRows(t *testing.T) {
	tbl := newTable(t, "review\nabc\n   abcd   \nhttp://only.a.link\nok!\nfine review\n\"  a  \"\n")

	res, err := Run(context.Background(), tbl, "review", fallbackConfig(), Options{})
	require.NoError(t, err)

	got := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		got = append(got, row.CleanedText)
	}
	assert.Equal(t, []string{"abcd", "fine review"}, got)
	assert.Equal(t, len(tbl.Rows)-4, res.Summary.TotalRows)
}

func TestRunMissingColumn(t *testing.T) {
	tbl := newTable(t, "id,review\n1,great\n")

	_, err := Run(context.Background(), tbl, "comment", fallbackConfig(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrColumnNotFound)

	var ie *table.InputError
	assert.True(t, errors.As(err, &ie))
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	tbl := newTable(t, "review\ngreat stuff\n")
	cfg := fallbackConfig()
	cfg.Threshold = 2

	_, err := Run(context.Background(), tbl, "review", cfg, Options{})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRunSubstitutesUnavailablePrimary(t *testing.T) {
	tbl := newTable(t, "review\nI love this!\nThis is terrible\n")
	cfg := fallbackConfig()
	cfg.Engine = sentiment.EnginePrimary

	res, err := Run(context.Background(), tbl, "review", cfg, Options{
		NewPrimary: func() (sentiment.Scorer, error) {
			return nil, sentiment.ErrEngineUnavailable
		},
	})
	require.NoError(t, err)

	assert.Equal(t, sentiment.EngineFallback, res.Summary.Engine)
	require.Len(t, res.Summary.Warnings, 1)
	assert.Contains(t, res.Summary.Warnings[0], "Primary engine unavailable")
	assert.Equal(t, models.LabelPositive, res.Rows[0].Label)
	assert.Equal(t, models.LabelNegative, res.Rows[1].Label)
}

func TestRunPrimaryEngine(t *testing.T) {
	tbl := newTable(t, "review\n\"I love this, it is wonderful\"\nThis is terrible and awful\n")
	cfg := fallbackConfig()
	cfg.Engine = sentiment.EnginePrimary

	res, err := Run(context.Background(), tbl, "review", cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, sentiment.EnginePrimary, res.Summary.Engine)
	assert.Equal(t, models.LabelPositive, res.Rows[0].Label)
	assert.Equal(t, models.LabelNegative, res.Rows[1].Label)
}

func TestRunIsIdempotent(t *testing.T) {
	tbl := newTable(t, "review\n\"Great staff, slow delivery\"\nNdatenda zvikuru\nWorst purchase ever\n\"Meh, it works\"\n")
	cfg := fallbackConfig()
	cfg.Engine = sentiment.EnginePrimary

	first, err := Run(context.Background(), tbl, "review", cfg, Options{})
	require.NoError(t, err)
	second, err := Run(context.Background(), tbl, "review", cfg, Options{})
	require.NoError(t, err)

	require.Equal(t, len(first.Rows), len(second.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].SentimentResult, second.Rows[i].SentimentResult)
	}
}

func TestRunLanguageSampling(t *testing.T) {
	tbl := newTable(t, "review\nThe food was hot\nNdatenda zvikuru\n")

	res, err := Run(context.Background(), tbl, "review", fallbackConfig(), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[models.Language]int{
		models.LanguageEnglish: 1,
		models.LanguageShona:   1,
	}, res.Summary.Languages)

	cfg := fallbackConfig()
	cfg.LanguageMode = config.LanguageModeEnglish
	res, err = Run(context.Background(), tbl, "review", cfg, Options{})
	require.NoError(t, err)
	assert.Nil(t, res.Summary.Languages)
}

func TestRunKeywords(t *testing.T) {
	tbl := newTable(t, "review\nthe cat sat\nthe cat ran\n")

	res, err := Run(context.Background(), tbl, "review", fallbackConfig(), Options{})
	require.NoError(t, err)
	assert.Equal(t, []models.KeywordFrequency{
		{Keyword: "cat", Frequency: 2},
		{Keyword: "sat", Frequency: 1},
		{Keyword: "ran", Frequency: 1},
	}, res.Summary.Keywords)
}

type stubClassifier struct {
	result models.SentimentResult
	err    error
}

func (s stubClassifier) Name() string { return "stub" }

func (s stubClassifier) Classify(context.Context, string) (models.SentimentResult, error) {
	return s.result, s.err
}

func TestRunRemoteEngine(t *testing.T) {
	tbl := newTable(t, "review\nI love this!\nThis is terrible\nThe parcel arrived on Tuesday\n")
	cfg := fallbackConfig()
	cfg.Engine = sentiment.EngineRemote
	cfg.RemoteBudget = 2

	res, err := Run(context.Background(), tbl, "review", cfg, Options{
		Classifier: stubClassifier{result: models.SentimentResult{Label: models.LabelNegative, Polarity: -0.8}},
	})
	require.NoError(t, err)

	assert.Equal(t, sentiment.EngineRemote, res.Summary.Engine)
	assert.Equal(t, models.LabelNegative, res.Rows[0].Label)
	assert.Equal(t, models.LabelNegative, res.Rows[1].Label)
	// past the budget the lexicon takes over
	assert.Equal(t, models.LabelNeutral, res.Rows[2].Label)
}

type countingClassifier struct {
	calls atomic.Int32
}

func (c *countingClassifier) Name() string { return "counting" }

func (c *countingClassifier) Classify(context.Context, string) (models.SentimentResult, error) {
	c.calls.Add(1)
	return models.SentimentResult{Label: models.LabelNegative, Polarity: -0.8}, nil
}

func TestRunRemoteEngineBudgetSpansBatches(t *testing.T) {
	tbl := newTable(t, "review\nfirst review\nsecond review\nthird review\nThe parcel arrived on Tuesday\nThe parcel arrived on Monday\n")
	cfg := fallbackConfig()
	cfg.Engine = sentiment.EngineRemote
	cfg.BatchSize = 2
	cfg.RemoteBudget = 3

	classifier := &countingClassifier{}
	res, err := Run(context.Background(), tbl, "review", cfg, Options{Classifier: classifier})
	require.NoError(t, err)

	assert.Equal(t, int32(3), classifier.calls.Load())
	require.Len(t, res.Rows, 5)
	for i, row := range res.Rows {
		if i < 3 {
			assert.Equal(t, models.LabelNegative, row.Label, i)
		} else {
			assert.Equal(t, models.LabelNeutral, row.Label, i)
		}
	}
}

func TestRunRemoteEngineUnhealthy(t *testing.T) {
	tbl := newTable(t, "review\n\"I love this, it is wonderful\"\n")
	cfg := fallbackConfig()
	cfg.Engine = sentiment.EngineRemote

	res, err := Run(context.Background(), tbl, "review", cfg, Options{
		Classifier:  stubClassifier{result: models.SentimentResult{Label: models.LabelNegative, Polarity: -1}},
		HealthCheck: func(context.Context) bool { return false },
	})
	require.NoError(t, err)

	assert.Equal(t, sentiment.EnginePrimary, res.Summary.Engine)
	assert.Equal(t, models.LabelPositive, res.Rows[0].Label)
	require.Len(t, res.Summary.Warnings, 1)
}

func TestRunRemoteEngineWithoutClassifier(t *testing.T) {
	tbl := newTable(t, "review\n\"I love this, it is wonderful\"\n")
	cfg := fallbackConfig()
	cfg.Engine = sentiment.EngineRemote

	res, err := Run(context.Background(), tbl, "review", cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, sentiment.EnginePrimary, res.Summary.Engine)
	assert.NotEmpty(t, res.Summary.Warnings)
}

func TestSummarizePercentages(t *testing.T) {
	rows := []models.AnalyzedRow{
		{SentimentResult: models.SentimentResult{Label: models.LabelPositive, Polarity: 0.5}},
		{SentimentResult: models.SentimentResult{Label: models.LabelPositive, Polarity: 0.3}},
		{SentimentResult: models.SentimentResult{Label: models.LabelNegative, Polarity: -0.2}},
	}

	s := Summarize(rows, 2*time.Second)
	assert.Equal(t, 66.7, s.Percentages[models.LabelPositive])
	assert.Equal(t, 33.3, s.Percentages[models.LabelNegative])
	assert.Equal(t, 0.0, s.Percentages[models.LabelNeutral])

	total := 0.0
	for _, p := range s.Percentages {
		total += p
	}
	assert.InDelta(t, 100.0, total, 0.1)

	assert.Equal(t, 2, s.Counts[models.LabelPositive])
	assert.Equal(t, 0, s.Counts[models.LabelNeutral])
	assert.InDelta(t, 0.2, s.AvgPolarity, 1e-9)
	assert.InDelta(t, 1.5, s.RowsPerSec, 1e-9)
	assert.True(t, s.ThroughputBounded())
}

func TestSummarizeZeroElapsed(t *testing.T) {
	s := Summarize([]models.AnalyzedRow{{SentimentResult: models.NeutralResult}}, 0)
	assert.False(t, s.ThroughputBounded())
	assert.False(t, math.IsInf(s.RowsPerSec, 0))
	assert.Equal(t, 0.0, s.RowsPerSec)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.Second)
	assert.Equal(t, 0, s.TotalRows)
	assert.Equal(t, 0.0, s.AvgPolarity)
	assert.Equal(t, 0.0, s.RowsPerSec)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "scoring", StageScoring.String())
	assert.Equal(t, "done", StageDone.String())
	assert.Equal(t, "unknown", Stage(42).String())
}
