package repository

import (
	"context"

	"contactbook/services/contact-service/domain/model"
)

// EventType names a user lifecycle change
type EventType string

const (
	EventUserCreated EventType = "user.created"
	EventUserUpdated EventType = "user.updated"
	EventUserDeleted EventType = "user.deleted"
)

// UserEventPublisher announces user changes to other systems
type UserEventPublisher interface {
	Publish(ctx context.Context, eventType EventType, user *model.User) error
	Close() error
}
