package redis

import (
	"time"
)

// Config is the connection setup for NewWithConfig. Zero values fall back
// to the client defaults.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	// ClientName is reported by CLIENT LIST, which makes lock holders visible
	// on the server side.
	ClientName string
	// MaxRetries of -1 disables command retries.
	MaxRetries int
}

// LockConfig returns a Config tuned for short-lived lock keys: fail fast on
// a slow server and never retry a SET NX, since a retried acquire may land
// after the caller has already given up on it.
func LockConfig(addrs ...string) Config {
	return Config{
		Addrs:        addrs,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     4,
		ClientName:   "contactbook-locks",
		MaxRetries:   -1,
	}
}
