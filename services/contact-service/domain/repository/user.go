// Package repository defines the interfaces for data access layer
package repository

import (
	"context"

	"contactbook/services/contact-service/domain/model"
)

// UserStore is the contract for contact persistence. Lookups that match
// nothing return domain.ErrNotFound; list queries return an empty, non-nil slice.
type UserStore interface {
	// Create inserts user and fills in ID and timestamps
	Create(ctx context.Context, user *model.User) error
	// FindAll returns every record, newest first
	FindAll(ctx context.Context) ([]*model.User, error)
	// List returns one page of FindAll together with the total count
	List(ctx context.Context, offset, limit int) ([]*model.User, int, error)
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	// FindByEmail matches case-insensitively
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByName returns case-insensitive substring matches ordered by name
	FindByName(ctx context.Context, name string) ([]*model.User, error)
	// Update overwrites the mutable fields of the record with user.ID
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uint64) error
	// EmailExists ignores the record with excludeID when it is non-zero
	EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error)
}
