package redis

import (
	"time"
)

// WithAddrs points the client at one address, or at several for a cluster
func WithAddrs(addrs []string) Option {
	return func(c *Client) {
		c.opts.Addrs = addrs
	}
}

// WithUsername sets the ACL user
func WithUsername(username string) Option {
	return func(c *Client) {
		c.opts.Username = username
	}
}

// WithPassword sets the ACL password
func WithPassword(password string) Option {
	return func(c *Client) {
		c.opts.Password = password
	}
}

// WithDB selects the logical database; ignored by cluster clients
func WithDB(db int) Option {
	return func(c *Client) {
		c.opts.DB = db
	}
}

// WithDialTimeout bounds both dialing and the initial ping in New
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.opts.DialTimeout = d
	}
}

// WithReadTimeout bounds a single command read
func WithReadTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.opts.ReadTimeout = d
	}
}

// WithWriteTimeout bounds a single command write
func WithWriteTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.opts.WriteTimeout = d
	}
}

// WithPoolSize caps connections per node
func WithPoolSize(n int) Option {
	return func(c *Client) {
		c.opts.PoolSize = n
	}
}

// WithClientName sets the name sent with CLIENT SETNAME on connect
func WithClientName(name string) Option {
	return func(c *Client) {
		c.opts.ClientName = name
	}
}

// WithMaxRetries sets how often a failed command is retried; -1 disables retries
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.opts.MaxRetries = n
	}
}
