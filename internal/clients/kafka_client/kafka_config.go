package kafka_client

import "os"

type KafkaConfig struct {
	Broker       string
	ResultsTopic string
	SummaryTopic string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker:       getEnv("KAFKA_BROKER", "localhost:29092"),
		ResultsTopic: getEnv("KAFKA_RESULTS_TOPIC", KAFKA_TOPIC_SENTIMENT_RESULTS),
		SummaryTopic: getEnv("KAFKA_SUMMARY_TOPIC", KAFKA_TOPIC_RUN_SUMMARIES),
	}
}
