// Package postgres provides PostgreSQL database infrastructure components
package postgres

import (
	"errors"
	"fmt"
)

// Config holds the PostgreSQL database configuration
type Config struct {
	// Host specifies the database server host
	Host string
	// Port specifies the database server port
	Port int
	User     string
	Password string
	DBName   string
	// Schema is used as the connection search_path
	Schema  string
	SSLMode string
	// MaxIdleConns specifies the maximum number of idle connections in the pool
	MaxIdleConns int
	// MaxOpenConns specifies the maximum number of open connections to the database
	MaxOpenConns int
	// ConnMaxIdleTime is in minutes
	ConnMaxIdleTime int
	// ConnMaxLifetime is in minutes
	ConnMaxLifetime int
	// Debug turns on GORM SQL logging
	Debug bool
	// ConnectTimeout specifies the connection timeout in seconds
	ConnectTimeout int
}

// Validate reports the first missing or out-of-range connection setting
func (c Config) Validate() error {
	switch {
	case c.Host == "":
		return errors.New("postgres: host is required")
	case c.Port <= 0 || c.Port > 65535:
		return fmt.Errorf("postgres: invalid port %d", c.Port)
	case c.User == "":
		return errors.New("postgres: user is required")
	case c.DBName == "":
		return errors.New("postgres: dbname is required")
	case c.MaxIdleConns < 0 || c.MaxOpenConns < 0:
		return errors.New("postgres: connection pool sizes must not be negative")
	}
	return nil
}

// DSN renders the keyword/value connection string understood by pgx
func (c Config) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName)
	if c.Schema != "" {
		dsn += " search_path=" + c.Schema
	}
	if c.SSLMode != "" {
		dsn += " sslmode=" + c.SSLMode
	}
	if c.ConnectTimeout > 0 {
		dsn += fmt.Sprintf(" connect_timeout=%d", c.ConnectTimeout)
	}
	return dsn
}
