// Package sink fans completed analysis runs out to persistence and event streams.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stocksentix/internal/domain"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/trace"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaPublisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher emits each persisted run as a JSON message keyed by run ID.
type KafkaPublisher struct {
	writer MessageWriter
	topic  string
	tracer trace.Tracer
}

func NewKafkaWriter(brokers []string) (*kafka.Writer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Compression:  kafka.Gzip,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		BatchTimeout: 50 * time.Millisecond,
	}, nil
}

func NewKafkaPublisher(writer MessageWriter, topic string, tracer trace.Tracer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, topic: topic, tracer: tracer}
}

func (p *KafkaPublisher) Persist(ctx context.Context, run domain.RunRecord) error {
	ctx, span := p.tracer.Start(ctx, "kafka-publisher.persist")
	defer span.End()

	value, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(run.ID),
		Value: value,
		Time:  run.Date,
	})
	if err != nil {
		return fmt.Errorf("publish run %s: %w", run.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
