package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/spacesedan/reviewlens/internal/pipeline"
	"github.com/spacesedan/reviewlens/internal/utils"
)

const (
	DEFAULT_RESULTS_TABLE = "ReviewSentimentResults"
	// BatchWriteItem accepts at most 25 requests.
	maxWriteBatch     = 25
	maxUnprocessedTry = 3
)

type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// DynamoSink stores one item per analyzed row, keyed by run_id and row_index.
type DynamoSink struct {
	Client  BatchWriter
	Table   string
	Backoff time.Duration
}

func NewDynamoSink(client BatchWriter, table string) *DynamoSink {
	if table == "" {
		table = DEFAULT_RESULTS_TABLE
	}
	return &DynamoSink{Client: client, Table: table, Backoff: 500 * time.Millisecond}
}

func (d *DynamoSink) Export(ctx context.Context, res *pipeline.Result) error {
	events := RowEvents(res)

	for _, batch := range utils.Chunk(events, maxWriteBatch) {
		if err := ctx.Err(); err != nil {
			slog.Warn("[DynamoSink] context canceled")
			return err
		}

		requests := make([]types.WriteRequest, 0, len(batch))
		for _, ev := range batch {
			item, err := attributevalue.MarshalMap(ev)
			if err != nil {
				return fmt.Errorf("[DynamoSink] failed to marshal row %d: %w", ev.RowIndex, err)
			}
			requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
		}

		if err := d.write(ctx, requests); err != nil {
			return err
		}
	}

	slog.Info("[DynamoSink] Stored run",
		slog.String("run_id", res.Metadata.RunID),
		slog.String("table", d.Table),
		slog.Int("rows", len(events)))
	return nil
}

func (d *DynamoSink) write(ctx context.Context, requests []types.WriteRequest) error {
	out, err := d.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
		RequestItems: map[string][]types.WriteRequest{d.Table: requests},
	})
	if err != nil {
		return fmt.Errorf("[DynamoSink] batch write failed: %w", err)
	}

	backoff := d.Backoff
	for attempt := 1; len(out.UnprocessedItems[d.Table]) > 0; attempt++ {
		remaining := len(out.UnprocessedItems[d.Table])
		if attempt > maxUnprocessedTry {
			return fmt.Errorf("[DynamoSink] %d items unprocessed after %d retries", remaining, maxUnprocessedTry)
		}
		slog.Warn("[DynamoSink] Retrying unprocessed items...",
			slog.Int("retry_attempt", attempt),
			slog.Int("remaining_items", remaining))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		out, err = d.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: out.UnprocessedItems,
		})
		if err != nil {
			return fmt.Errorf("[DynamoSink] failed to retry batch write: %w", err)
		}
	}
	return nil
}
