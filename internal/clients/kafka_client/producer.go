package kafka_client

import (
	"fmt"
	"log/slog"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

// Message is a keyed payload ready to be produced.
type Message struct {
	Key   []byte
	Value []byte
}

type Producer struct {
	producer *kafka.Producer
}

func NewProducer(cfg KafkaConfig) (*Producer, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":                     cfg.Broker,
		"security.protocol":                     "PLAINTEXT",
		"api.version.request":                   "true",
		"enable.idempotence":                    true,
		"acks":                                  "all",
		"max.in.flight.requests.per.connection": 1,
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &Producer{producer: p}, nil
}

// PublishAll produces every message to topic and waits for all delivery
// reports. It returns the first delivery error.
func (p *Producer) PublishAll(topic string, messages []Message) error {
	// buffered so late delivery reports never block librdkafka after an early return
	deliveries := make(chan kafka.Event, len(messages))

	for _, m := range messages {
		msg := &kafka.Message{
			TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
			Key:            m.Key,
			Value:          m.Value,
		}

		var err error
		for i := 0; i < MAX_RETRIES; i++ {
			err = p.producer.Produce(msg, deliveries)
			if err == nil {
				break
			}
			slog.Warn("[KafkaClient] Failed to produce message, retrying...",
				slog.Int("attempt", i+1),
				slog.String("error", err.Error()))
			// a full local queue drains while we flush
			p.producer.Flush(int(FLUSH_TIMEOUT.Milliseconds()))
		}
		if err != nil {
			return fmt.Errorf("[KafkaClient] failed to produce to %s: %w", topic, err)
		}
	}

	var firstErr error
	for range messages {
		ev := <-deliveries
		if m, ok := ev.(*kafka.Message); ok && m.TopicPartition.Error != nil && firstErr == nil {
			firstErr = m.TopicPartition.Error
		}
	}
	if firstErr != nil {
		return fmt.Errorf("[KafkaClient] delivery failed: %w", firstErr)
	}

	slog.Info("[KafkaClient] Published messages",
		slog.String("topic", topic),
		slog.Int("count", len(messages)))
	return nil
}

func (p *Producer) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if remaining := p.producer.Flush(int(FLUSH_TIMEOUT.Milliseconds())); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before shutdown",
			slog.Int("remaining", remaining))
	}
	p.producer.Close()
}
