package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactbook/services/contact-service/domain"
	"contactbook/services/contact-service/domain/model"
)

func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func TestUserStore_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(WithClock(fixedClock()))

	u := &model.User{FullName: "Jane Roe", Email: "jane.roe@example.com", PhoneNumber: "555-0199"}
	require.NoError(t, store.Create(ctx, u))
	assert.Equal(t, uint64(1), u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := store.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, got)

	byEmail, err := store.FindByEmail(ctx, "JANE.ROE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	got.FullName = "mutated"
	again, _ := store.FindByID(ctx, u.ID)
	assert.Equal(t, "Jane Roe", again.FullName, "returned records are copies")
}

func TestUserStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	_, err := store.FindByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, store.Update(ctx, &model.User{ID: 42}), domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, 42), domain.ErrNotFound)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	require.NoError(t, store.Create(ctx, &model.User{FullName: "A", Email: "a@example.com"}))
	err := store.Create(ctx, &model.User{FullName: "B", Email: "A@Example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	all, _ := store.FindAll(ctx)
	assert.Len(t, all, 1)
}

func TestUserStore_FindAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(WithClock(fixedClock()))

	for _, name := range []string{"First", "Second", "Third"} {
		require.NoError(t, store.Create(ctx, &model.User{FullName: name, Email: name + "@example.com"}))
	}

	all, err := store.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Third", all[0].FullName)
	assert.Equal(t, "First", all[2].FullName)

	page, total, err := store.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Second", page[0].FullName)

	past, total, err := store.List(ctx, 10, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, past)
}

func TestUserStore_FindAllEmptyIsNotNil(t *testing.T) {
	all, err := NewUserStore().FindAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestUserStore_FindByName(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(WithSeed(SampleUsers()...))

	matches, err := store.FindByName(ctx, "JO")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "John Doe", matches[0].FullName)
	assert.Equal(t, "Mike Johnson", matches[1].FullName)

	none, err := store.FindByName(ctx, "zzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUserStore_SeedContinuesIDs(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(WithSeed(SampleUsers()...))

	u := &model.User{FullName: "New Person", Email: "new@example.com"}
	require.NoError(t, store.Create(ctx, u))
	assert.Equal(t, uint64(4), u.ID)

	all, _ := store.FindAll(ctx)
	assert.Equal(t, "New Person", all[0].FullName, "new records sort before the 2024 seeds")
}

func TestUserStore_UpdateAndEmailExists(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(WithSeed(SampleUsers()...), WithClock(fixedClock()))

	exists, err := store.EmailExists(ctx, "jane.smith@example.com", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.EmailExists(ctx, "jane.smith@example.com", 2)
	require.NoError(t, err)
	assert.False(t, exists, "the record itself is excluded")

	u, _ := store.FindByID(ctx, 2)
	created := u.CreatedAt
	u.Email = "john.doe@example.com"
	assert.ErrorIs(t, store.Update(ctx, u), domain.ErrDuplicateEmail)

	u.Email = "jane@example.com"
	u.Address = ""
	require.NoError(t, store.Update(ctx, u))

	got, _ := store.FindByID(ctx, 2)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.Equal(t, "", got.Address)
	assert.Equal(t, created, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(created))
}

func TestUserStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewUserStore().FindAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
