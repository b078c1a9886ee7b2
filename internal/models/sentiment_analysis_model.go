package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Label string

const (
	LabelPositive Label = "Positive"
	LabelNeutral  Label = "Neutral"
	LabelNegative Label = "Negative"
)

// Labels lists every label in report order.
var Labels = []Label{LabelPositive, LabelNeutral, LabelNegative}

// ParseLabel accepts any casing ("positive", "POSITIVE") and returns the canonical label.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return LabelPositive, nil
	case "neutral":
		return LabelNeutral, nil
	case "negative":
		return LabelNegative, nil
	default:
		return LabelNeutral, fmt.Errorf("unknown sentiment label %q", s)
	}
}

func (l *Label) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseLabel(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

type SentimentResult struct {
	Label    Label   `json:"sentiment_label"`
	Polarity float64 `json:"polarity"`
}

// NeutralResult is the safe default returned by scorers when anything goes wrong.
var NeutralResult = SentimentResult{Label: LabelNeutral, Polarity: 0}
