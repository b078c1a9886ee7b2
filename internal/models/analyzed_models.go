package models

import (
	"os"
	"os/user"
	"time"

	"github.com/google/uuid"
)

type AnalysisSummary struct {
	InputRows   int                `json:"input_rows"`
	TotalRows   int                `json:"total_rows"`
	DroppedRows int                `json:"dropped_rows"`
	Counts      map[Label]int      `json:"counts"`
	Percentages map[Label]float64  `json:"percentages"`
	AvgPolarity float64            `json:"avg_polarity"`
	Elapsed     time.Duration      `json:"elapsed"`
	RowsPerSec  float64            `json:"rows_per_sec"`
	Languages   map[Language]int   `json:"languages,omitempty"`
	Keywords    []KeywordFrequency `json:"keywords"`
	Engine      string             `json:"engine"`
	Threshold   float64            `json:"threshold"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// ThroughputBounded reports whether RowsPerSec is a finite number. A run that
// completes faster than the clock resolution has no meaningful throughput.
func (s AnalysisSummary) ThroughputBounded() bool {
	return s.Elapsed > 0
}

// RunMetadata is stamped onto every exported row and report.
type RunMetadata struct {
	RunID      string    `json:"run_id" dynamodbav:"run_id"`
	AnalyzedAt time.Time `json:"analyzed_at" dynamodbav:"analyzed_at"`
	Engine     string    `json:"engine" dynamodbav:"engine"`
	Operator   string    `json:"operator" dynamodbav:"operator"`
}

func NewRunMetadata(engine, operator string) RunMetadata {
	if operator == "" {
		operator = currentOperator()
	}
	return RunMetadata{
		RunID:      uuid.NewString(),
		AnalyzedAt: time.Now().UTC(),
		Engine:     engine,
		Operator:   operator,
	}
}

func currentOperator() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "unknown"
}
