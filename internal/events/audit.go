// Package events publishes the console's audit trail: one event per product
// write (create, update, delete). Publishing is best-effort, a failed publish
// is logged and never surfaced to the operator.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	ActionCreated = "product.created"
	ActionUpdated = "product.updated"
	ActionDeleted = "product.deleted"
)

type ProductEvent struct {
	EventID   string    `json:"event_id"`
	Action    string    `json:"action"`
	ProductID string    `json:"product_id"`
	Title     string    `json:"title,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

type AuditProducer struct {
	writer *kafka.Writer
	logger *zap.Logger
}

func NewAuditProducer(brokers string, logger *zap.Logger) *AuditProducer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers),
		Topic:        "admin-audit",
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
	}

	return &AuditProducer{
		writer: writer,
		logger: logger,
	}
}

func (p *AuditProducer) Publish(event ProductEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal audit event", zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: eventBytes,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish audit event",
			zap.String("event_id", event.EventID),
			zap.String("action", event.Action),
			zap.Error(err))
		return err
	}

	p.logger.Info("Audit event published",
		zap.String("event_id", event.EventID),
		zap.String("action", event.Action),
		zap.String("product_id", event.ProductID))

	return nil
}

func (p *AuditProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
