package memory

import (
	"context"
	"strings"
	"sync"

	"contactbook/services/contact-service/domain/repository"
)

// emailLocker hands out one channel-based mutex per lower-cased email.
// Entries are reference counted and dropped when the last holder leaves.
type emailLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

// NewEmailLocker returns an in-process EmailLocker
func NewEmailLocker() repository.EmailLocker {
	return &emailLocker{locks: make(map[string]*keyLock)}
}

func (l *emailLocker) acquire(key string) *keyLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	return kl
}

func (l *emailLocker) release(key string, kl *keyLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
}

func (l *emailLocker) Lock(ctx context.Context, email string) (func(), error) {
	key := strings.ToLower(strings.TrimSpace(email))
	kl := l.acquire(key)

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			l.release(key, kl)
		})
	}, nil
}
