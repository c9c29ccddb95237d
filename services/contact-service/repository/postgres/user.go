// Package postgres provides the GORM-backed UserStore
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"contactbook/pkg/logger"
	"contactbook/services/contact-service/domain"
	"contactbook/services/contact-service/domain/model"
	"contactbook/services/contact-service/domain/repository"
)

// userRepository implements repository.UserStore using PostgreSQL
type userRepository struct {
	db     *gorm.DB
	logger logger.LoggerInterface
}

// NewUserRepository creates a new instance of userRepository.
// The gorm.DB should be opened with TranslateError so unique violations map to gorm.ErrDuplicatedKey.
func NewUserRepository(db *gorm.DB, logger logger.LoggerInterface) repository.UserStore {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Create inserts a new user and fills in its ID and timestamps
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	r.logger.DebugContext(ctx, "Creating user", "email", user.Email)

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			r.logger.WarnContext(ctx, "Duplicate email on create", "email", user.Email)
			return domain.ErrDuplicateEmail
		}
		r.logger.ErrorContext(ctx, "Failed to create user", "email", user.Email, "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.InfoContext(ctx, "User created successfully", "id", user.ID, "email", user.Email)
	return nil
}

// FindAll returns every user, newest first
func (r *userRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// List retrieves a page of users and the total row count
func (r *userRepository) List(ctx context.Context, offset, limit int) ([]*model.User, int, error) {
	r.logger.DebugContext(ctx, "Listing users", "offset", offset, "limit", limit)

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to count users", "error", err)
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users := make([]*model.User, 0)
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to list users", "offset", offset, "limit", limit, "error", err)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, int(total), nil
}

func (r *userRepository) take(ctx context.Context, what string, query string, args ...any) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where(query, args...).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Failed to get user", "by", what, "error", err)
		return nil, fmt.Errorf("failed to get user by %s: %w", what, err)
	}
	return &user, nil
}

// FindByID retrieves a user by primary key
func (r *userRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	return r.take(ctx, "id", "id = ?", id)
}

// FindByEmail retrieves a user by email, ignoring case
func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.take(ctx, "email", "LOWER(email) = LOWER(?)", email)
}

// FindByName returns users whose name contains name, ordered by name
func (r *userRepository) FindByName(ctx context.Context, name string) ([]*model.User, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(name)) + "%"

	users := make([]*model.User, 0)
	err := r.db.WithContext(ctx).
		Where(`LOWER(full_name) LIKE ? ESCAPE '\'`, pattern).
		Order("LOWER(full_name) ASC, id ASC").
		Find(&users).Error
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to search users by name", "name", name, "error", err)
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// Update writes every mutable column, including empty ones
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	r.logger.DebugContext(ctx, "Updating user", "id", user.ID)

	now := time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"full_name":        user.FullName,
		"email":            user.Email,
		"phone_number":     user.PhoneNumber,
		"address":          user.Address,
		"additional_notes": user.AdditionalNotes,
		"updated_at":       now,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateEmail
		}
		r.logger.ErrorContext(ctx, "Failed to update user", "id", user.ID, "error", res.Error)
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	user.UpdatedAt = now
	r.logger.InfoContext(ctx, "User updated successfully", "id", user.ID)
	return nil
}

// Delete removes a user permanently
func (r *userRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		r.logger.ErrorContext(ctx, "Failed to delete user", "id", id, "error", res.Error)
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	r.logger.InfoContext(ctx, "User deleted successfully", "id", id)
	return nil
}

// EmailExists reports whether another user already owns email
func (r *userRepository) EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("LOWER(email) = LOWER(?)", email)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		r.logger.ErrorContext(ctx, "Failed to check email", "email", email, "error", err)
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}
