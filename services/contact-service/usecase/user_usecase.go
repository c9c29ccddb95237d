// Package usecase contains business logic for contact operations
package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"contactbook/pkg/logger"
	"contactbook/services/contact-service/domain"
	"contactbook/services/contact-service/domain/model"
	"contactbook/services/contact-service/domain/repository"
)

// emailShape is the loose local@domain.tld check shared by the REST and chat paths
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// DefaultLockTimeout bounds how long a write waits for the per-email lock
const DefaultLockTimeout = 5 * time.Second

// UserUseCase defines business operations for contacts
type UserUseCase interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByID(ctx context.Context, id uint64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	ListUsersPage(ctx context.Context, offset, limit int) ([]*model.User, int, error)
	SearchUsers(ctx context.Context, name string) ([]*model.User, error)
	// UpdateUser replaces every mutable field of the record with user.ID
	UpdateUser(ctx context.Context, user *model.User) (*model.User, error)
	// DeleteUser returns the record as it was before removal
	DeleteUser(ctx context.Context, id uint64) (*model.User, error)
}

// userUseCase implements the UserUseCase interface
type userUseCase struct {
	store       repository.UserStore
	locker      repository.EmailLocker
	events      repository.UserEventPublisher
	logger      logger.LoggerInterface
	lockTimeout time.Duration
}

// UserUseCaseOption configures the user use case
type UserUseCaseOption func(*userUseCase)

// WithEmailLocker serialises create and update per email
func WithEmailLocker(locker repository.EmailLocker) UserUseCaseOption {
	return func(uc *userUseCase) {
		uc.locker = locker
	}
}

// WithEventPublisher announces successful writes
func WithEventPublisher(events repository.UserEventPublisher) UserUseCaseOption {
	return func(uc *userUseCase) {
		uc.events = events
	}
}

// WithLockTimeout overrides DefaultLockTimeout
func WithLockTimeout(d time.Duration) UserUseCaseOption {
	return func(uc *userUseCase) {
		if d > 0 {
			uc.lockTimeout = d
		}
	}
}

// NewUserUseCase creates a new instance of userUseCase
func NewUserUseCase(store repository.UserStore, appLogger logger.LoggerInterface, opts ...UserUseCaseOption) UserUseCase {
	uc := &userUseCase{
		store:       store,
		logger:      appLogger,
		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func normalize(user *model.User) {
	user.FullName = strings.TrimSpace(user.FullName)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.PhoneNumber = strings.TrimSpace(user.PhoneNumber)
	user.Address = strings.TrimSpace(user.Address)
	user.AdditionalNotes = strings.TrimSpace(user.AdditionalNotes)
}

// validate checks the rules every write path shares. Minimum lengths are a
// REST concern and are enforced on the request DTOs instead.
func validate(user *model.User) error {
	var fields []domain.FieldError
	required := func(field, label, value string) bool {
		if value == "" {
			fields = append(fields, domain.FieldError{Field: field, Message: label + " is required"})
			return false
		}
		return true
	}
	maxLen := func(field, label, value string, n int) {
		if utf8.RuneCountInString(value) > n {
			fields = append(fields, domain.FieldError{Field: field, Message: fmt.Sprintf("%s must be less than %d characters", label, n)})
		}
	}

	if required("full_name", "Full name", user.FullName) {
		maxLen("full_name", "Full name", user.FullName, 255)
	}
	if required("email", "Email", user.Email) {
		if !emailShape.MatchString(user.Email) {
			fields = append(fields, domain.FieldError{Field: "email", Message: "Email must be a valid email address"})
		}
		maxLen("email", "Email", user.Email, 255)
	}
	if required("phone_number", "Phone number", user.PhoneNumber) {
		maxLen("phone_number", "Phone number", user.PhoneNumber, 50)
	}
	maxLen("address", "Address", user.Address, 1000)
	maxLen("additional_notes", "Additional notes", user.AdditionalNotes, 2000)

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// lockEmail takes the per-email lock, bounded by lockTimeout
func (uc *userUseCase) lockEmail(ctx context.Context, email string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}
	lockCtx, cancel := context.WithTimeout(ctx, uc.lockTimeout)
	defer cancel()

	unlock, err := uc.locker.Lock(lockCtx, email)
	if err != nil {
		uc.logger.WarnContext(ctx, "Could not acquire email lock", "email", email, "error", err)
		return nil, domain.ErrBusy
	}
	return unlock, nil
}

func (uc *userUseCase) publish(ctx context.Context, eventType repository.EventType, user *model.User) {
	if uc.events == nil {
		return
	}
	if err := uc.events.Publish(ctx, eventType, user); err != nil {
		uc.logger.WarnContext(ctx, "User event not published", "type", eventType, "id", user.ID, "error", err)
	}
}

// CreateUser creates a new contact
func (uc *userUseCase) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	normalize(user)
	uc.logger.InfoContext(ctx, "Creating user in usecase", "email", user.Email)

	if err := validate(user); err != nil {
		uc.logger.WarnContext(ctx, "User failed validation", "email", user.Email, "error", err)
		return nil, err
	}

	unlock, err := uc.lockEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	defer unlock()

	exists, err := uc.store.EmailExists(ctx, user.Email, 0)
	if err != nil {
		uc.logger.ErrorContext(ctx, "Error checking email uniqueness", "email", user.Email, "error", err)
		return nil, fmt.Errorf("error checking email uniqueness: %w", err)
	}
	if exists {
		uc.logger.WarnContext(ctx, "User with this email already exists", "email", user.Email)
		return nil, domain.ErrEmailAlreadyExists
	}

	if err := uc.store.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrEmailAlreadyExists
		}
		uc.logger.ErrorContext(ctx, "Failed to create user in repository", "email", user.Email, "error", err)
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	uc.publish(ctx, repository.EventUserCreated, user)
	uc.logger.InfoContext(ctx, "User created successfully in usecase", "id", user.ID, "email", user.Email)
	return user, nil
}

// GetUserByID retrieves a contact by ID
func (uc *userUseCase) GetUserByID(ctx context.Context, id uint64) (*model.User, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}

	user, err := uc.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.WarnContext(ctx, "User not found by ID", "id", id)
			return nil, domain.ErrUserNotFound
		}
		uc.logger.ErrorContext(ctx, "Error getting user by ID", "id", id, "error", err)
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a contact by email, ignoring case
func (uc *userUseCase) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "email", Message: "Email is required"}}}
	}

	user, err := uc.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.WarnContext(ctx, "User not found by email", "email", email)
			return nil, domain.ErrUserNotFound
		}
		uc.logger.ErrorContext(ctx, "Error getting user by email", "email", email, "error", err)
		return nil, fmt.Errorf("error getting user by email: %w", err)
	}
	return user, nil
}

// ListUsers returns every contact, newest first
func (uc *userUseCase) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := uc.store.FindAll(ctx)
	if err != nil {
		uc.logger.ErrorContext(ctx, "Error listing users", "error", err)
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return users, nil
}

// ListUsersPage returns one page of contacts and the total count
func (uc *userUseCase) ListUsersPage(ctx context.Context, offset, limit int) ([]*model.User, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = 10
	}

	users, total, err := uc.store.List(ctx, offset, limit)
	if err != nil {
		uc.logger.ErrorContext(ctx, "Error listing users page", "offset", offset, "limit", limit, "error", err)
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	return users, total, nil
}

// SearchUsers returns contacts whose name contains the term
func (uc *userUseCase) SearchUsers(ctx context.Context, name string) ([]*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "name", Message: "Search term is required"}}}
	}

	users, err := uc.store.FindByName(ctx, name)
	if err != nil {
		uc.logger.ErrorContext(ctx, "Error searching users", "name", name, "error", err)
		return nil, fmt.Errorf("error searching users: %w", err)
	}
	return users, nil
}

// UpdateUser updates an existing contact and returns the stored record
func (uc *userUseCase) UpdateUser(ctx context.Context, user *model.User) (*model.User, error) {
	normalize(user)
	uc.logger.InfoContext(ctx, "Updating user in usecase", "id", user.ID, "email", user.Email)

	if _, err := uc.GetUserByID(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := validate(user); err != nil {
		uc.logger.WarnContext(ctx, "User failed validation", "id", user.ID, "error", err)
		return nil, err
	}

	unlock, err := uc.lockEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	defer unlock()

	taken, err := uc.store.EmailExists(ctx, user.Email, user.ID)
	if err != nil {
		uc.logger.ErrorContext(ctx, "Error checking email uniqueness", "email", user.Email, "error", err)
		return nil, fmt.Errorf("error checking email uniqueness: %w", err)
	}
	if taken {
		uc.logger.WarnContext(ctx, "Email is used by another user", "id", user.ID, "email", user.Email)
		return nil, domain.ErrEmailAlreadyExists
	}

	if err := uc.store.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil, domain.ErrUserNotFound
		case errors.Is(err, domain.ErrDuplicateEmail):
			return nil, domain.ErrEmailAlreadyExists
		}
		uc.logger.ErrorContext(ctx, "Failed to update user in repository", "id", user.ID, "error", err)
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	updated, err := uc.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, repository.EventUserUpdated, updated)
	uc.logger.InfoContext(ctx, "User updated successfully in usecase", "id", updated.ID)
	return updated, nil
}

// DeleteUser removes a contact by ID
func (uc *userUseCase) DeleteUser(ctx context.Context, id uint64) (*model.User, error) {
	uc.logger.InfoContext(ctx, "Deleting user in usecase", "id", id)

	existing, err := uc.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := uc.store.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		uc.logger.ErrorContext(ctx, "Failed to delete user in repository", "id", id, "error", err)
		return nil, fmt.Errorf("error deleting user: %w", err)
	}

	uc.publish(ctx, repository.EventUserDeleted, existing)
	uc.logger.InfoContext(ctx, "User deleted successfully in usecase", "id", id)
	return existing, nil
}
