// Package kafka publishes committed-transaction events to a Kafka topic
// so downstream consumers (budget dashboards, audit pipelines) can react
// to postings without polling the store.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/openfisc/govledger/ledger"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "ledger.transaction_committed"

// Publisher implements ledger.EventPublisher on a kafka writer. Messages
// are keyed by transaction id so all events for one transaction land in
// the same partition, in order.
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher creates a publisher for the given brokers and topic. An
// empty topic falls back to DefaultTopic.
func NewPublisher(brokers []string, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

// Publish writes a transaction-committed event as JSON.
func (p *Publisher) Publish(ctx context.Context, event ledger.TransactionCommitted) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.TransactionID),
		Value: data,
	})
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

var _ ledger.EventPublisher = (*Publisher)(nil)
