package kafka_client

import "time"

const (
	KAFKA_TOPIC_SENTIMENT_RESULTS = "sentiment-results" // one message per analyzed row
	KAFKA_TOPIC_RUN_SUMMARIES     = "sentiment-summaries"
)

const (
	MAX_RETRIES   = 3
	FLUSH_TIMEOUT = 5 * time.Second
)
