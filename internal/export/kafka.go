package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spacesedan/reviewlens/internal/clients/kafka_client"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/pipeline"
)

type Publisher interface {
	PublishAll(topic string, messages []kafka_client.Message) error
}

// RowEvent is the per-row payload shared by the stream and table sinks.
type RowEvent struct {
	models.RunMetadata
	RowIndex    int          `json:"row_index" dynamodbav:"row_index"`
	Text        string       `json:"text" dynamodbav:"text"`
	CleanedText string       `json:"cleaned_text" dynamodbav:"cleaned_text"`
	Label       models.Label `json:"sentiment_label" dynamodbav:"sentiment_label"`
	Polarity    float64      `json:"polarity" dynamodbav:"polarity"`
}

// SummaryEvent is published once per run.
type SummaryEvent struct {
	models.RunMetadata
	Column  string                 `json:"column"`
	Summary models.AnalysisSummary `json:"summary"`
}

// RowEvents flattens a result into one event per surviving row.
func RowEvents(res *pipeline.Result) []RowEvent {
	col := -1
	for i, name := range res.Header {
		if name == res.Column {
			col = i
			break
		}
	}

	events := make([]RowEvent, 0, len(res.Rows))
	for _, row := range res.Rows {
		var text string
		if col >= 0 && col < len(row.Values) {
			text = row.Values[col]
		}
		events = append(events, RowEvent{
			RunMetadata: res.Metadata,
			RowIndex:    row.Index,
			Text:        text,
			CleanedText: row.CleanedText,
			Label:       row.Label,
			Polarity:    row.Polarity,
		})
	}
	return events
}

type KafkaSink struct {
	Publisher    Publisher
	ResultsTopic string
	SummaryTopic string
}

func NewKafkaSink(p Publisher, cfg kafka_client.KafkaConfig) *KafkaSink {
	return &KafkaSink{
		Publisher:    p,
		ResultsTopic: cfg.ResultsTopic,
		SummaryTopic: cfg.SummaryTopic,
	}
}

// Export publishes every row keyed by "<run id>:<row index>", then the run
// summary keyed by the run id.
func (k *KafkaSink) Export(res *pipeline.Result) error {
	events := RowEvents(res)
	messages := make([]kafka_client.Message, 0, len(events))
	for _, ev := range events {
		value, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("[KafkaSink] failed to encode row %d: %w", ev.RowIndex, err)
		}
		messages = append(messages, kafka_client.Message{
			Key:   []byte(ev.RunID + ":" + strconv.Itoa(ev.RowIndex)),
			Value: value,
		})
	}

	if len(messages) > 0 {
		if err := k.Publisher.PublishAll(k.ResultsTopic, messages); err != nil {
			return err
		}
	}

	summary, err := json.Marshal(SummaryEvent{
		RunMetadata: res.Metadata,
		Column:      res.Column,
		Summary:     res.Summary,
	})
	if err != nil {
		return fmt.Errorf("[KafkaSink] failed to encode summary: %w", err)
	}
	if err := k.Publisher.PublishAll(k.SummaryTopic, []kafka_client.Message{
		{Key: []byte(res.Metadata.RunID), Value: summary},
	}); err != nil {
		return err
	}

	slog.Info("[KafkaSink] Exported run",
		slog.String("run_id", res.Metadata.RunID),
		slog.Int("rows", len(messages)))
	return nil
}
