package models

// Row is one record of the uploaded table. Values are kept verbatim and stay
// aligned with the table header so they can be written back on export.
type Row struct {
	Index  int      `json:"index"`
	Values []string `json:"values"`
}

// AnalyzedRow is a surviving row with its derived columns.
type AnalyzedRow struct {
	Row
	CleanedText string `json:"cleaned_text"`
	SentimentResult
}
