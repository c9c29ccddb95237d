package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Nil is returned by Get when the key does not exist
const Nil = redis.Nil

// RedisClient defines the Redis operations used by the services
type RedisClient interface {
	// SetNX stores value only when key is absent and reports whether it did
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, key string) error
	// Eval runs a Lua script atomically on the server
	Eval(ctx context.Context, script string, keys []string, args ...any) (any, error)
	Ping(ctx context.Context) error
	Close() error
	GetClient() redis.UniversalClient
	Addrs() []string
	DB() int
	PoolSize() int
}

// Option is a function that configures a Client
type Option func(*Client)

// Client represents a Redis client wrapper
type Client struct {
	opts   *redis.UniversalOptions
	client redis.UniversalClient
}

// New creates a new Redis client with the provided options and pings it
func New(opts ...Option) (RedisClient, error) {
	client := &Client{
		opts: &redis.UniversalOptions{
			Addrs:        []string{"localhost:6379"},
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	client.client = redis.NewUniversalClient(client.opts)

	ctx, cancel := context.WithTimeout(context.Background(), client.opts.DialTimeout)
	defer cancel()

	if err := client.client.Ping(ctx).Err(); err != nil {
		_ = client.client.Close()
		return nil, fmt.Errorf("failed to connect to redis %v: %w", client.opts.Addrs, err)
	}

	return client, nil
}

// NewWithConfig creates a new Redis client from a config struct; zero values keep the defaults
func NewWithConfig(config Config) (RedisClient, error) {
	opts := []Option{
		WithUsername(config.Username),
		WithPassword(config.Password),
		WithDB(config.DB),
	}
	if len(config.Addrs) > 0 {
		opts = append(opts, WithAddrs(config.Addrs))
	}
	if config.DialTimeout > 0 {
		opts = append(opts, WithDialTimeout(config.DialTimeout))
	}
	if config.ReadTimeout > 0 {
		opts = append(opts, WithReadTimeout(config.ReadTimeout))
	}
	if config.WriteTimeout > 0 {
		opts = append(opts, WithWriteTimeout(config.WriteTimeout))
	}
	if config.PoolSize > 0 {
		opts = append(opts, WithPoolSize(config.PoolSize))
	}
	if config.ClientName != "" {
		opts = append(opts, WithClientName(config.ClientName))
	}
	if config.MaxRetries != 0 {
		opts = append(opts, WithMaxRetries(config.MaxRetries))
	}

	return New(opts...)
}

// NewFromClient wraps an already constructed client, e.g. a redismock one
func NewFromClient(c redis.UniversalClient) RedisClient {
	return &Client{
		opts:   &redis.UniversalOptions{},
		client: c,
	}
}

// SetNX sets key to value with expiration if it does not exist yet
func (r *Client) SetNX(ctx context.Context, key string, value any, expiration time.Duration) (bool, error) {
	return r.client.SetNX(ctx, key, value, expiration).Result()
}

// Get gets a value by key
func (r *Client) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

// Del deletes a key
func (r *Client) Del(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// Eval evaluates a Lua script
func (r *Client) Eval(ctx context.Context, script string, keys []string, args ...any) (any, error) {
	return r.client.Eval(ctx, script, keys, args...).Result()
}

// Ping checks the connection
func (r *Client) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (r *Client) Close() error {
	return r.client.Close()
}

// GetClient returns the underlying Redis client for advanced operations
func (r *Client) GetClient() redis.UniversalClient {
	return r.client
}

// Addrs returns the Redis server addresses
func (r *Client) Addrs() []string {
	return r.opts.Addrs
}

// DB returns the Redis database number
func (r *Client) DB() int {
	return r.opts.DB
}

// PoolSize returns the connection pool size
func (r *Client) PoolSize() int {
	return r.opts.PoolSize
}
