// Package memory holds process-local implementations of the repository contracts
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"contactbook/services/contact-service/domain"
	"contactbook/services/contact-service/domain/model"
	"contactbook/services/contact-service/domain/repository"
)

type userStore struct {
	mu     sync.RWMutex
	users  map[uint64]*model.User
	nextID uint64
	now    func() time.Time
}

// Option configures the in-memory store
type Option func(*userStore)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *userStore) {
		s.now = now
	}
}

// WithSeed preloads records; IDs and timestamps of the seeds are kept as given
func WithSeed(users ...*model.User) Option {
	return func(s *userStore) {
		for _, u := range users {
			c := u.Clone()
			s.users[c.ID] = c
			s.nextID = max(s.nextID, c.ID+1)
		}
	}
}

// NewUserStore creates an empty store guarded by a single RW mutex
func NewUserStore(opts ...Option) repository.UserStore {
	s := &userStore{
		users:  make(map[uint64]*model.User),
		nextID: 1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SampleUsers returns the demo contacts loaded when seeding is enabled
func SampleUsers() []*model.User {
	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }
	return []*model.User{
		{
			ID: 1, FullName: "John Doe", Email: "john.doe@example.com", PhoneNumber: "+1-555-0123",
			Address: "123 Main St, New York, NY 10001", AdditionalNotes: "Regular customer",
			CreatedAt: day(1), UpdatedAt: day(1),
		},
		{
			ID: 2, FullName: "Jane Smith", Email: "jane.smith@example.com", PhoneNumber: "+1-555-0124",
			Address: "456 Oak Ave, Los Angeles, CA 90210", AdditionalNotes: "VIP member",
			CreatedAt: day(2), UpdatedAt: day(2),
		},
		{
			ID: 3, FullName: "Mike Johnson", Email: "mike.johnson@example.com", PhoneNumber: "+1-555-0125",
			Address: "789 Pine Rd, Chicago, IL 60601", AdditionalNotes: "Prefers email contact",
			CreatedAt: day(3), UpdatedAt: day(3),
		},
	}
}

func (s *userStore) emailTakenLocked(email string, excludeID uint64) bool {
	for _, u := range s.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.emailTakenLocked(user.Email, 0) {
		return domain.ErrDuplicateEmail
	}

	now := s.now()
	user.ID = s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.nextID++
	s.users[user.ID] = user.Clone()
	return nil
}

// sortedLocked returns clones ordered newest first, ties broken by higher id
func (s *userStore) sortedLocked() []*model.User {
	out := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	slices.SortFunc(out, func(a, b *model.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}

func (s *userStore) FindAll(ctx context.Context) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(), nil
}

func (s *userStore) List(ctx context.Context, offset, limit int) ([]*model.User, int, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	total := len(all)
	offset = min(max(offset, 0), total)
	end := total
	if limit > 0 {
		end = min(offset+limit, total)
	}
	return all[offset:end], total, nil
}

func (s *userStore) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u.Clone(), nil
}

func (s *userStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u.Clone(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *userStore) FindByName(ctx context.Context, name string) ([]*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(name)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.User, 0)
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.FullName), needle) {
			out = append(out, u.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *model.User) int {
		if c := cmp.Compare(strings.ToLower(a.FullName), strings.ToLower(b.FullName)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *userStore) Update(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if s.emailTakenLocked(user.Email, user.ID) {
		return domain.ErrDuplicateEmail
	}

	updated := user.Clone()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = s.now()
	s.users[user.ID] = updated

	user.CreatedAt = updated.CreatedAt
	user.UpdatedAt = updated.UpdatedAt
	return nil
}

func (s *userStore) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *userStore) EmailExists(ctx context.Context, email string, excludeID uint64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emailTakenLocked(email, excludeID), nil
}
