package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	client := &Client{
		opts: &redis.UniversalOptions{},
	}

	WithAddrs([]string{"localhost:6379", "localhost:6380"})(client)
	WithUsername("testuser")(client)
	WithPassword("testpass")(client)
	WithDB(5)(client)
	WithDialTimeout(10 * time.Second)(client)
	WithReadTimeout(5 * time.Second)(client)
	WithWriteTimeout(4 * time.Second)(client)
	WithPoolSize(20)(client)
	WithClientName("locks")(client)
	WithMaxRetries(-1)(client)

	assert.Len(t, client.opts.Addrs, 2, "Expected 2 addresses")
	assert.Equal(t, "testuser", client.opts.Username)
	assert.Equal(t, "testpass", client.opts.Password)
	assert.Equal(t, 5, client.opts.DB)
	assert.Equal(t, 10*time.Second, client.opts.DialTimeout)
	assert.Equal(t, 5*time.Second, client.opts.ReadTimeout)
	assert.Equal(t, 4*time.Second, client.opts.WriteTimeout)
	assert.Equal(t, 20, client.opts.PoolSize)
	assert.Equal(t, "locks", client.opts.ClientName)
	assert.Equal(t, -1, client.opts.MaxRetries)
}

func TestLockConfig(t *testing.T) {
	cfg := LockConfig("redis-a:6379", "redis-b:6379")

	assert.Equal(t, []string{"redis-a:6379", "redis-b:6379"}, cfg.Addrs)
	assert.Equal(t, -1, cfg.MaxRetries, "lock acquires must not be retried")
	assert.NotEmpty(t, cfg.ClientName)
	assert.LessOrEqual(t, cfg.ReadTimeout, time.Second)
	assert.LessOrEqual(t, cfg.WriteTimeout, time.Second)
	assert.Positive(t, cfg.PoolSize)
}

func TestNewWithConfig_LockConfigFailsFast(t *testing.T) {
	cfg := LockConfig("127.0.0.1:1")
	cfg.DialTimeout = 200 * time.Millisecond

	start := time.Now()
	client, err := NewWithConfig(cfg)
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Less(t, time.Since(start), 2*time.Second, "no retries on an unreachable server")
}

func setupMockRedis() (RedisClient, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewFromClient(db), mock
}

func TestClient_SetNX(t *testing.T) {
	client, mock := setupMockRedis()
	ctx := context.Background()

	mock.ExpectSetNX("lock:email:a@b.co", "token-1", time.Second).SetVal(true)
	mock.ExpectSetNX("lock:email:a@b.co", "token-2", time.Second).SetVal(false)

	ok, err := client.SetNX(ctx, "lock:email:a@b.co", "token-1", time.Second)
	require.NoError(t, err)
	assert.True(t, ok, "first SetNX should acquire")

	ok, err = client.SetNX(ctx, "lock:email:a@b.co", "token-2", time.Second)
	require.NoError(t, err)
	assert.False(t, ok, "second SetNX should not acquire")

	require.NoError(t, mock.ExpectationsWereMet(), "Redis expectations should be met")
}

func TestClient_Get_Del(t *testing.T) {
	client, mock := setupMockRedis()
	ctx := context.Background()

	mock.ExpectGet("missing").RedisNil()
	mock.ExpectDel("key").SetVal(1)

	_, err := client.Get(ctx, "missing")
	assert.True(t, errors.Is(err, Nil), "missing keys report redis.Nil")

	require.NoError(t, client.Del(ctx, "key"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_Eval(t *testing.T) {
	client, mock := setupMockRedis()
	ctx := context.Background()
	script := "return redis.call('del', KEYS[1])"

	mock.ExpectEval(script, []string{"k"}, "v").SetVal(int64(1))

	res, err := client.Eval(ctx, script, []string{"k"}, "v")
	require.NoError(t, err)
	assert.Equal(t, int64(1), res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClient_Ping(t *testing.T) {
	client, mock := setupMockRedis()

	mock.ExpectPing().SetVal("PONG")
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	assert.NoError(t, client.Ping(context.Background()))
	assert.Error(t, client.Ping(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWithConfig_Unreachable(t *testing.T) {
	client, err := NewWithConfig(Config{
		Addrs:       []string{"127.0.0.1:1"},
		DialTimeout: 200 * time.Millisecond,
	})
	require.Error(t, err, "NewWithConfig() should fail when nothing listens")
	assert.Nil(t, client)
}

func TestClient_Getters(t *testing.T) {
	client, _ := setupMockRedis()

	assert.NotNil(t, client.GetClient(), "GetClient() should return client")
	assert.Equal(t, 0, client.DB(), "DB() should return default DB")
	assert.Equal(t, 0, client.PoolSize(), "PoolSize() should return pool size")
	assert.Empty(t, client.Addrs())
}
