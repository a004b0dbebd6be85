package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/dev-surajtapkeer/voxora/internal/model"
)

const (
	// EventStreamName is the stream holding lifecycle events.
	EventStreamName = "VOXORA_EVENTS"

	// EventSubjectPrefix is the prefix for lifecycle event subjects.
	EventSubjectPrefix = "event"
)

// EventPublisher publishes lifecycle events for external collaborators.
type EventPublisher struct {
	client *Client
}

// NewEventPublisher creates an event publisher.
func NewEventPublisher(client *Client) *EventPublisher {
	return &EventPublisher{client: client}
}

// EnsureStream ensures the event stream exists.
func (p *EventPublisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	_, err := js.Stream(ctx, EventStreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        EventStreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", EventSubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Conversation and agent lifecycle events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// EventSubject returns the subject for an event.
func EventSubject(tenantID string, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.%s", EventSubjectPrefix, tenantID, eventType)
}

// Publish publishes a lifecycle event.
func (p *EventPublisher) Publish(ctx context.Context, event *model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.client.JetStream().Publish(ctx, EventSubject(event.TenantID, event.Type), data)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}
