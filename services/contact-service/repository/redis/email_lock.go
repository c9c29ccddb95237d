// Package redis provides a distributed EmailLocker on top of pkg/redis
package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"contactbook/pkg/logger"
	pkgredis "contactbook/pkg/redis"
	"contactbook/services/contact-service/domain/repository"
)

// releaseScript deletes the key only while it still holds our token
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

// Config tunes lock behaviour
type Config struct {
	// KeyPrefix is prepended to the lower-cased email
	KeyPrefix string
	// TTL bounds how long a crashed holder can block others
	TTL time.Duration
	// RetryInterval is the pause between acquisition attempts
	RetryInterval time.Duration
}

type emailLocker struct {
	client pkgredis.RedisClient
	cfg    Config
	logger logger.LoggerInterface
}

// NewEmailLocker returns an EmailLocker shared by every process using the same Redis
func NewEmailLocker(client pkgredis.RedisClient, cfg Config, logger logger.LoggerInterface) repository.EmailLocker {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "contacts:lock:email:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 50 * time.Millisecond
	}
	return &emailLocker{client: client, cfg: cfg, logger: logger}
}

func (l *emailLocker) key(email string) string {
	return l.cfg.KeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (l *emailLocker) Lock(ctx context.Context, email string) (func(), error) {
	key := l.key(email)
	token := ulid.Make().String()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.cfg.TTL)
		if err != nil {
			l.logger.ErrorContext(ctx, "Failed to acquire email lock", "key", key, "error", err)
			return nil, fmt.Errorf("failed to acquire email lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-time.After(l.cfg.RetryInterval):
		case <-ctx.Done():
			l.logger.WarnContext(ctx, "Gave up waiting for email lock", "key", key)
			return nil, ctx.Err()
		}
	}

	return func() {
		// release even if the request context is already cancelled
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if _, err := l.client.Eval(releaseCtx, releaseScript, []string{key}, token); err != nil {
			l.logger.WarnContext(ctx, "Failed to release email lock, it will expire", "key", key, "error", err)
		}
	}, nil
}
