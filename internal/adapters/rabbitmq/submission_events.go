package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"korx-catalog/internal/constants"
	"korx-catalog/internal/contextkeys"
	"korx-catalog/internal/contracts"
	"korx-catalog/internal/core/domain"
	"korx-catalog/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

// publisher - то, что адаптеру нужно от rabbitmq_producer.Publisher.
type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// propertySubmittedMessage - тело события в формате контракта PropertySubmittedEvent/1.0.
type propertySubmittedMessage struct {
	EventID     string `json:"event_id"`
	DraftID     string `json:"draft_id"`
	PropertyID  int64  `json:"property_id"`
	RecordKind  string `json:"record_kind"`
	ParentID    *int64 `json:"parent_id"`
	Title       string `json:"title"`
	Visibility  string `json:"visibility"`
	SubmittedAt string `json:"submitted_at"`
}

// SubmissionEventsAdapter публикует PropertySubmitted в обменник catalog_events.
type SubmissionEventsAdapter struct {
	producer   publisher
	routingKey string
}

func NewSubmissionEventsAdapter(producer publisher) (*SubmissionEventsAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	return &SubmissionEventsAdapter{
		producer:   producer,
		routingKey: constants.RoutingKeyPropertySubmitted,
	}, nil
}

func (a *SubmissionEventsAdapter) PublishSubmitted(ctx context.Context, event domain.PropertySubmittedEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "SubmissionEventsAdapter",
		"routing_key": a.routingKey,
		"event_id":    event.EventID.String(),
		"property_id": event.PropertyID,
	})

	body, err := json.Marshal(propertySubmittedMessage{
		EventID:     event.EventID.String(),
		DraftID:     event.DraftID.String(),
		PropertyID:  event.PropertyID,
		RecordKind:  string(event.RecordKind),
		ParentID:    event.ParentID,
		Title:       event.Title,
		Visibility:  string(event.Visibility),
		SubmittedAt: event.SubmittedAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		adapterLogger.Error("Failed to marshal event to JSON", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to marshal event: %w", err)
	}
	if err := contracts.Validate(contracts.PropertySubmittedEventV1, body); err != nil {
		adapterLogger.Error("Event does not match its contract", err, nil)
		return fmt.Errorf("rabbitmq adapter: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    event.EventID.String(),
		Type:         constants.EventTypePropertySubmitted,
		Headers: amqp.Table{
			"event_type":    constants.EventTypePropertySubmitted,
			"event_version": constants.EventVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	adapterLogger.Info("Publishing property submitted event", nil)
	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish property submitted event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish event %s: %w", event.EventID, err)
	}

	adapterLogger.Info("Successfully published property submitted event", nil)
	return nil
}
