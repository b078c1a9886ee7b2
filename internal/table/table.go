// Package table loads uploaded review files into memory.
package table

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/spacesedan/reviewlens/internal/models"
)

const DefaultMaxBytes int64 = 10 << 20

type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatXLSX Format = "xlsx"
)

type Table struct {
	Header []string
	Rows   []models.Row
}

type ReadOptions struct {
	MaxBytes  int64
	Delimiter rune
}

// ColumnIndex returns the position of name in the header.
func (t *Table) ColumnIndex(name string) (int, error) {
	for i, h := range t.Header {
		if h == name {
			return i, nil
		}
	}
	return -1, inputErr(name, ErrColumnNotFound, nil)
}

// Values returns the cells of column col in row order.
func (t *Table) Values(col int) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if col < len(row.Values) {
			values[i] = row.Values[col]
		}
	}
	return values
}

func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", inputErr(path, ErrUnsupportedFormat, fmt.Errorf("extension %q", filepath.Ext(path)))
	}
}

// Load reads a CSV, TSV or XLSX file, refusing files above opts.MaxBytes.
func Load(path string, opts ReadOptions) (*Table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.Size() > opts.MaxBytes {
		return nil, inputErr(path, ErrFileTooLarge, fmt.Errorf("%d > %d bytes", info.Size(), opts.MaxBytes))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Read(f, format, opts)
	if err != nil {
		var ie *InputError
		if errors.As(err, &ie) {
			ie.Source = path
		}
		return nil, err
	}

	slog.Info("[Table] Loaded file",
		slog.String("path", path),
		slog.String("format", string(format)),
		slog.Int("rows", len(t.Rows)),
		slog.Int("columns", len(t.Header)))
	return t, nil
}

// Read parses r as format. It never consumes more than opts.MaxBytes+1 bytes.
func Read(r io.Reader, format Format, opts ReadOptions) (*Table, error) {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if int64(len(data)) > opts.MaxBytes {
		return nil, inputErr(string(format), ErrFileTooLarge, nil)
	}

	var records [][]string
	switch format {
	case FormatCSV:
		records, err = readDelimited(data, opts.Delimiter, ',')
	case FormatTSV:
		records, err = readDelimited(data, opts.Delimiter, '\t')
	case FormatXLSX:
		records, err = readXLSX(data)
	default:
		return nil, inputErr(string(format), ErrUnsupportedFormat, nil)
	}
	if err != nil {
		return nil, inputErr(string(format), ErrParse, err)
	}

	return fromRecords(records)
}

func readDelimited(data []byte, delimiter, fallback rune) ([][]string, error) {
	if delimiter == 0 {
		delimiter = fallback
	}

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

func fromRecords(records [][]string) (*Table, error) {
	if len(records) == 0 || len(records[0]) == 0 {
		return nil, inputErr("header", ErrParse, errors.New("missing header row"))
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{Header: header, Rows: make([]models.Row, 0, len(records)-1)}
	for i, rec := range records[1:] {
		// short rows are padded, long rows would lose cells
		if len(rec) > len(header) {
			return nil, inputErr("rows", ErrParse,
				fmt.Errorf("row %d has %d fields, header has %d", i+1, len(rec), len(header)))
		}
		values := make([]string, len(header))
		copy(values, rec)
		t.Rows = append(t.Rows, models.Row{Index: i, Values: values})
	}
	return t, nil
}
