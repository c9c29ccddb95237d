// Package kafka publishes user lifecycle events through pkg/kafka
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	pkgkafka "contactbook/pkg/kafka"
	"contactbook/pkg/logger"
	"contactbook/services/contact-service/domain/model"
	"contactbook/services/contact-service/domain/repository"
)

// UserEvent is the JSON payload written to the user events topic
type UserEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	UserID     uint64    `json:"user_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

type userEventPublisher struct {
	client pkgkafka.KafkaClient
	topic  string
	logger logger.LoggerInterface
	now    func() time.Time
}

// NewUserEventPublisher writes events to topic, keyed by user id so a user's events stay ordered
func NewUserEventPublisher(client pkgkafka.KafkaClient, topic string, logger logger.LoggerInterface) repository.UserEventPublisher {
	return &userEventPublisher{
		client: client,
		topic:  topic,
		logger: logger,
		now:    time.Now,
	}
}

func (p *userEventPublisher) Publish(ctx context.Context, eventType repository.EventType, user *model.User) error {
	event := UserEvent{
		EventID:    ulid.Make().String(),
		Type:       string(eventType),
		UserID:     user.ID,
		FullName:   user.FullName,
		Email:      user.Email,
		OccurredAt: p.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode user event: %w", err)
	}

	err = p.client.Produce(ctx, pkgkafka.Message{
		Topic:   p.topic,
		Key:     []byte(strconv.FormatUint(user.ID, 10)),
		Value:   payload,
		Headers: map[string]string{"event_type": event.Type},
	})
	if err != nil {
		p.logger.ErrorContext(ctx, "Failed to publish user event", "type", event.Type, "user_id", user.ID, "error", err)
		return fmt.Errorf("failed to publish user event: %w", err)
	}

	p.logger.DebugContext(ctx, "User event published", "event_id", event.EventID, "type", event.Type, "user_id", user.ID)
	return nil
}

func (p *userEventPublisher) Close() error {
	return p.client.Close()
}

type noopPublisher struct{}

// NewNoopPublisher is used when Kafka is disabled
func NewNoopPublisher() repository.UserEventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, repository.EventType, *model.User) error { return nil }
func (noopPublisher) Close() error                                                   { return nil }
