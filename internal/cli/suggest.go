package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spacesedan/reviewlens/internal/table"
)

const (
	previewSamples = 5
	previewLength  = 100
)

func newSuggestCmd(a *app) *cobra.Command {
	var file, delimiter string

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest the text column of a table and preview it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sep, err := parseDelimiter(delimiter)
			if err != nil {
				return err
			}
			tbl, err := table.Load(file, table.ReadOptions{
				MaxBytes:  a.v.GetInt64("max_file_bytes"),
				Delimiter: sep,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Columns: %s\n", strings.Join(tbl.Header, ", "))
			fmt.Fprintf(out, "Rows: %d\n", len(tbl.Rows))

			column, ok := table.SuggestTextColumn(tbl)
			if !ok {
				fmt.Fprintln(out, "No text column suggested; pass --column to analyze.")
				return nil
			}

			col, err := tbl.ColumnIndex(column)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Suggested column: %s\n", column)
			for i, sample := range table.Samples(tbl, col, previewSamples, previewLength) {
				fmt.Fprintf(out, "  %d. %s\n", i+1, sample)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "input table (.csv, .tsv, .txt, .xlsx)")
	cmd.Flags().StringVar(&delimiter, "delimiter", "", "field delimiter for delimited files")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
