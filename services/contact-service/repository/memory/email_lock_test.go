package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailLocker_SerialisesSameKey(t *testing.T) {
	locker := NewEmailLocker()
	ctx := context.Background()

	var inside, maxInside atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			unlock, err := locker.Lock(ctx, email)
			require.NoError(t, err)
			defer unlock()

			n := inside.Add(1)
			for {
				m := maxInside.Load()
				if n <= m || maxInside.CompareAndSwap(m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}([]string{"Jane@Example.com", "jane@example.com "}[i%2])
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load(), "case and whitespace variants share one lock")
	assert.Empty(t, locker.(*emailLocker).locks, "entries are released")
}

func TestEmailLocker_DifferentKeysDoNotBlock(t *testing.T) {
	locker := NewEmailLocker()
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "a@example.com")
	require.NoError(t, err)
	defer unlockA()

	ctx2, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	unlockB, err := locker.Lock(ctx2, "b@example.com")
	require.NoError(t, err)
	unlockB()
}

func TestEmailLocker_ContextTimeout(t *testing.T) {
	locker := NewEmailLocker()

	unlock, err := locker.Lock(context.Background(), "a@example.com")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "a@example.com")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock() // a second call is a no-op

	again, err := locker.Lock(context.Background(), "a@example.com")
	require.NoError(t, err)
	again()
}
