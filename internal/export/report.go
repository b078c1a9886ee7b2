package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/russross/blackfriday/v2"

	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/pipeline"
)

const reportTitle = "ZIMBABWEAN SENTIMENT ANALYSIS REPORT"

// WriteSummaryText writes the plain text report.
func WriteSummaryText(w io.Writer, res *pipeline.Result) error {
	s := res.Summary
	var b strings.Builder

	rule := strings.Repeat("=", 50)
	fmt.Fprintln(&b, reportTitle)
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Date: %s\n", res.Metadata.AnalyzedAt.Local().Format(time.DateTime))
	fmt.Fprintf(&b, "Run ID: %s\n", res.Metadata.RunID)
	fmt.Fprintf(&b, "Engine: %s\n", s.Engine)
	fmt.Fprintf(&b, "Threshold: %.2f\n", s.Threshold)
	fmt.Fprintf(&b, "Total Reviews: %s\n", thousands(s.TotalRows))
	fmt.Fprintf(&b, "Dropped Rows: %s\n", thousands(s.DroppedRows))
	fmt.Fprintf(&b, "Processing Time: %s\n", processingTime(s))
	fmt.Fprintf(&b, "Speed: %s\n", speed(s))
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, "SENTIMENT DISTRIBUTION:")
	for _, label := range models.Labels {
		fmt.Fprintf(&b, "• %s: %s (%.1f%%)\n", label, thousands(s.Counts[label]), s.Percentages[label])
	}
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Average Polarity: %.3f\n", s.AvgPolarity)

	if len(s.Keywords) > 0 {
		fmt.Fprintln(&b)
		fmt.Fprintln(&b, "TOP KEYWORDS:")
		for _, kw := range s.Keywords {
			fmt.Fprintf(&b, "• %s: %d\n", kw.Keyword, kw.Frequency)
		}
	}
	for _, warning := range s.Warnings {
		fmt.Fprintf(&b, "WARNING: %s\n", warning)
	}

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "Generated by reviewlens")

	_, err := io.WriteString(w, b.String())
	return err
}

// SummaryMarkdown renders the summary as a Markdown document.
func SummaryMarkdown(res *pipeline.Result) string {
	s := res.Summary
	var b strings.Builder

	fmt.Fprintf(&b, "# Sentiment analysis report\n\n")
	fmt.Fprintf(&b, "Run `%s` by %s on %s using the **%s** engine at threshold %.2f.\n\n",
		res.Metadata.RunID, res.Metadata.Operator,
		res.Metadata.AnalyzedAt.Format(time.RFC1123), s.Engine, s.Threshold)

	fmt.Fprintf(&b, "| Total reviews | Dropped | Processing time | Speed | Avg polarity |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %.3f |\n\n",
		thousands(s.TotalRows), thousands(s.DroppedRows), processingTime(s), speed(s), s.AvgPolarity)

	fmt.Fprintf(&b, "## Sentiment distribution\n\n")
	fmt.Fprintf(&b, "| Sentiment | Reviews | Share |\n|---|---|---|\n")
	for _, label := range models.Labels {
		fmt.Fprintf(&b, "| %s | %s | %.1f%% |\n", label, thousands(s.Counts[label]), s.Percentages[label])
	}

	if len(s.Languages) > 0 {
		fmt.Fprintf(&b, "\n## Languages (sampled)\n\n")
		for _, lang := range models.Languages {
			if n := s.Languages[lang]; n > 0 {
				fmt.Fprintf(&b, "- %s: %d\n", lang, n)
			}
		}
	}

	if len(s.Keywords) > 0 {
		fmt.Fprintf(&b, "\n## Top keywords\n\n")
		for i, kw := range s.Keywords {
			fmt.Fprintf(&b, "%d. %s (%d)\n", i+1, kw.Keyword, kw.Frequency)
		}
	}

	if len(s.Warnings) > 0 {
		fmt.Fprintf(&b, "\n## Warnings\n\n")
		for _, warning := range s.Warnings {
			fmt.Fprintf(&b, "- %s\n", warning)
		}
	}

	return b.String()
}

// WriteSummaryHTML renders SummaryMarkdown as a standalone HTML page.
func WriteSummaryHTML(w io.Writer, res *pipeline.Result) error {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Title: "Sentiment analysis report",
		Flags: blackfriday.CompletePage | blackfriday.HrefTargetBlank,
	})
	out := blackfriday.Run([]byte(SummaryMarkdown(res)),
		blackfriday.WithRenderer(renderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions))

	_, err := w.Write(out)
	return err
}

func processingTime(s models.AnalysisSummary) string {
	return fmt.Sprintf("%.1fs", s.Elapsed.Seconds())
}

func speed(s models.AnalysisSummary) string {
	if !s.ThroughputBounded() {
		return "n/a"
	}
	return fmt.Sprintf("%.1f reviews/sec", s.RowsPerSec)
}

func thousands(n int) string {
	digits := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + b.String()
}
