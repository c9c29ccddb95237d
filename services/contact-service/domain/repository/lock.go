package repository

import "context"

// EmailLocker serialises the check-then-write sequence for one email key.
// Lock blocks until the key is held or ctx is done; the returned func releases it.
type EmailLocker interface {
	Lock(ctx context.Context, email string) (unlock func(), err error)
}
