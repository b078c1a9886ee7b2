package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/table"
)

const reviewsCSV = `id,review
1,I love this! Great service from the whole team
2,This is terrible and the staff were rude to us
3,It is okay I suppose nothing more to say here
4,
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(args ...string) (string, error) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestAnalyzeWritesResultsAndSummary(t *testing.T) {
	input := writeFile(t, "reviews.csv", reviewsCSV)
	dir := t.TempDir()
	results := filepath.Join(dir, "results.csv")
	summary := filepath.Join(dir, "summary.txt")
	html := filepath.Join(dir, "summary.html")

	_, err := execute("analyze",
		"--file", input,
		"--column", "review",
		"--engine", "fallback",
		"--operator", "tester",
		"--out", results,
		"--summary", summary,
		"--html", html)
	require.NoError(t, err)

	f, err := os.Open(results)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 4)
	assert.Equal(t, "Sentiment", records[0][3])
	assert.Equal(t, []string{"Positive", "Negative", "Neutral"}, []string{records[1][3], records[2][3], records[3][3]})
	assert.Equal(t, "fallback", records[1][7])
	assert.Equal(t, "tester", records[1][8])

	text, err := os.ReadFile(summary)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Total Reviews: 3")

	page, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(page), "<table>")
}

func TestAnalyzeJSONToStdout(t *testing.T) {
	input := writeFile(t, "reviews.csv", reviewsCSV)

	out, err := execute("analyze",
		"--file", input,
		"--engine", "fallback",
		"--language-mode", "english-only",
		"--out", "",
		"--summary", "",
		"--json")
	require.NoError(t, err)

	var summary models.AnalysisSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 1, summary.DroppedRows)
	assert.Empty(t, summary.Languages)
}

func TestAnalyzeMissingColumn(t *testing.T) {
	input := writeFile(t, "reviews.csv", reviewsCSV)

	_, err := execute("analyze", "--file", input, "--column", "comments", "--out", "", "--summary", "")
	var inputErr *table.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.ErrorIs(t, err, table.ErrColumnNotFound)
}

func TestAnalyzeInvalidConfig(t *testing.T) {
	input := writeFile(t, "reviews.csv", reviewsCSV)

	_, err := execute("analyze", "--file", input, "--threshold", "1.5", "--out", "", "--summary", "")
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}

func TestAnalyzeNoSuggestedColumn(t *testing.T) {
	input := writeFile(t, "short.csv", "a,b\n1,x\n2,y\n")

	_, err := execute("analyze", "--file", input, "--out", "", "--summary", "")
	assert.ErrorContains(t, err, "no text column")
}

func TestSuggest(t *testing.T) {
	input := writeFile(t, "reviews.csv", reviewsCSV)

	out, err := execute("suggest", "--file", input)
	require.NoError(t, err)
	assert.Contains(t, out, "Columns: id, review\n")
	assert.Contains(t, out, "Suggested column: review\n")
	assert.Contains(t, out, "  1. I love this! Great service from the whole team\n")
	assert.NotContains(t, out, "  4. ")
}

func TestSuggestNoCandidate(t *testing.T) {
	input := writeFile(t, "short.csv", "a,b\n1,x\n")

	out, err := execute("suggest", "--file", input)
	require.NoError(t, err)
	assert.Contains(t, out, "No text column suggested")
}

func TestParseDelimiter(t *testing.T) {
	tests := map[string]rune{"": 0, ";": ';', `\t`: '\t', "tab": '\t', "|": '|'}
	for in, want := range tests {
		got, err := parseDelimiter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseDelimiter(";;")
	assert.Error(t, err)
}
