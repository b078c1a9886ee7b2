// Package export writes the outcome of a pipeline run to files and to
// downstream systems.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spacesedan/reviewlens/internal/pipeline"
)

// ResultColumns are appended to the original header of every results file.
var ResultColumns = []string{
	"Cleaned_Text", "Sentiment", "Polarity",
	"Run_ID", "Analyzed_At", "Engine", "Operator",
}

// WriteResultsCSV writes one line per surviving row: the original cells
// followed by ResultColumns.
func WriteResultsCSV(w io.Writer, res *pipeline.Result) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(res.Header)+len(ResultColumns))
	header = append(header, res.Header...)
	header = append(header, ResultColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	meta := res.Metadata
	analyzedAt := meta.AnalyzedAt.Format(time.RFC3339)
	for _, row := range res.Rows {
		record := make([]string, len(res.Header), len(header))
		copy(record, row.Values)
		record = append(record,
			row.CleanedText,
			string(row.Label),
			strconv.FormatFloat(row.Polarity, 'f', 4, 64),
			meta.RunID,
			analyzedAt,
			meta.Engine,
			meta.Operator,
		)
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row.Index, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
