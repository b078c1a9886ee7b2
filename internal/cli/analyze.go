package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/clients"
	"github.com/spacesedan/reviewlens/internal/clients/kafka_client"
	"github.com/spacesedan/reviewlens/internal/export"
	"github.com/spacesedan/reviewlens/internal/pipeline"
	"github.com/spacesedan/reviewlens/internal/table"
)

type analyzeFlags struct {
	file      string
	column    string
	delimiter string

	out     string
	summary string
	html    string
	json    bool

	kafka         bool
	dynamo        bool
	dynamoTable   string
	dynamoRegion  string
	dynamoAddress string
}

func newAnalyzeCmd(a *app) *cobra.Command {
	f := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze the sentiment of a column of reviews",
		Example: `  reviewlens analyze --file reviews.csv --column review
  reviewlens analyze --file reviews.xlsx --engine remote --summary - --out results.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.analyze(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.file, "file", "f", "", "input table (.csv, .tsv, .txt, .xlsx)")
	flags.StringVarP(&f.column, "column", "c", "", "text column to analyze (default: suggested column)")
	flags.StringVar(&f.delimiter, "delimiter", "", "field delimiter for delimited files (default: comma, tab for .tsv)")
	flags.StringVarP(&f.out, "out", "o", "reviewlens_results.csv", "results CSV path, - for stdout, empty to skip")
	flags.StringVar(&f.summary, "summary", "reviewlens_summary.txt", "text summary path, - for stdout, empty to skip")
	flags.StringVar(&f.html, "html", "", "HTML summary path")
	flags.BoolVar(&f.json, "json", false, "print the summary as JSON to stdout")
	flags.BoolVar(&f.kafka, "kafka", false, "publish rows and summary to Kafka (KAFKA_BROKER)")
	flags.BoolVar(&f.dynamo, "dynamodb", false, "store rows in DynamoDB")
	flags.StringVar(&f.dynamoTable, "dynamodb-table", export.DEFAULT_RESULTS_TABLE, "DynamoDB table name")
	flags.StringVar(&f.dynamoRegion, "dynamodb-region", os.Getenv("AWS_REGION"), "DynamoDB region")
	flags.StringVar(&f.dynamoAddress, "dynamodb-endpoint", os.Getenv("DYNAMODB_ENDPOINT"), "DynamoDB endpoint override")
	_ = cmd.MarkFlagRequired("file")

	d := config.Default()
	flags.String("engine", d.Engine, "scoring engine (primary, fallback, remote)")
	flags.Float64("threshold", d.Threshold, "polarity threshold in [0, 1]")
	flags.Int("batch-size", d.BatchSize, "rows scored per batch")
	flags.String("language-mode", d.LanguageMode, "language mode (auto, zimbabwean-focus, english-only)")
	flags.Int("parallel-workers", d.ParallelWorkers, "concurrent remote requests (1-8)")
	flags.Int("sample-size", d.SampleSize, "rows sampled for language detection")
	flags.Int("top-keywords", d.TopKeywords, "number of keywords to report")
	flags.Int("cache-size", d.CacheSize, "in-memory cache entries, 0 disables caching")
	flags.Int("remote-budget", d.RemoteBudget, "rows sent to the remote model, -1 for all")
	flags.Duration("remote-timeout", d.RemoteTimeout, "per-request remote model timeout")
	flags.Int64("max-file-bytes", d.MaxFileBytes, "largest accepted input file")
	flags.String("operator", "", "operator recorded with the results (default: current user)")

	for _, name := range []string{
		"engine", "threshold", "batch-size", "language-mode", "parallel-workers",
		"sample-size", "top-keywords", "cache-size", "remote-budget",
		"remote-timeout", "max-file-bytes", "operator",
	} {
		_ = a.v.BindPFlag(flagKey(name), flags.Lookup(name))
	}

	return cmd
}

func (a *app) analyze(cmd *cobra.Command, f *analyzeFlags) error {
	ctx := cmd.Context()

	cfg, err := config.FromViper(a.v)
	if err != nil {
		return err
	}

	delimiter, err := parseDelimiter(f.delimiter)
	if err != nil {
		return err
	}

	tbl, err := table.Load(f.file, table.ReadOptions{MaxBytes: cfg.MaxFileBytes, Delimiter: delimiter})
	if err != nil {
		return err
	}

	column := f.column
	if column == "" {
		suggested, ok := table.SuggestTextColumn(tbl)
		if !ok {
			return fmt.Errorf("no text column found, pass --column (columns: %v)", tbl.Header)
		}
		slog.Info("[CLI] Using suggested text column", slog.String("column", suggested))
		column = suggested
	}

	opts, cleanup := buildOptions(ctx, cfg.Engine, cfg.CacheSize)
	defer cleanup()

	res, err := pipeline.Run(ctx, tbl, column, cfg, opts)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()
	if err := writeTo(f.out, stdout, func(w io.Writer) error { return export.WriteResultsCSV(w, res) }); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	if err := writeTo(f.summary, stdout, func(w io.Writer) error { return export.WriteSummaryText(w, res) }); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := writeTo(f.html, stdout, func(w io.Writer) error { return export.WriteSummaryHTML(w, res) }); err != nil {
		return fmt.Errorf("failed to write HTML summary: %w", err)
	}
	if f.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Summary); err != nil {
			return fmt.Errorf("failed to encode summary: %w", err)
		}
	}

	if f.kafka {
		if err := exportKafka(res); err != nil {
			return err
		}
	}
	if f.dynamo {
		if err := exportDynamo(ctx, res, f); err != nil {
			return err
		}
	}
	return nil
}

func exportKafka(res *pipeline.Result) error {
	cfg := kafka_client.GetKafkaConfig()
	producer, err := kafka_client.NewProducer(cfg)
	if err != nil {
		return err
	}
	defer producer.Close()

	return export.NewKafkaSink(producer, cfg).Export(res)
}

func exportDynamo(ctx context.Context, res *pipeline.Result, f *analyzeFlags) error {
	client, err := clients.NewDynamoDBClient(ctx, clients.AWSConfig{
		Region:   f.dynamoRegion,
		Endpoint: f.dynamoAddress,
	})
	if err != nil {
		return err
	}
	return export.NewDynamoSink(client, f.dynamoTable).Export(ctx, res)
}

// writeTo writes to path, to stdout for "-", or nowhere for "".
func writeTo(path string, stdout io.Writer, write func(io.Writer) error) error {
	switch path {
	case "":
		return nil
	case "-":
		return write(stdout)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	slog.Info("[CLI] Wrote output", slog.String("path", path))
	return file.Close()
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}
