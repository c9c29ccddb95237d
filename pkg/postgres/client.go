package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PostgresClient defines the interface for PostgreSQL database operations
type PostgresClient interface {
	// Migrate runs auto-migration for the given models
	Migrate(dst ...any) error
	// GetDB returns the underlying gorm.DB instance
	GetDB() *gorm.DB
	// Ping checks that the database is reachable
	Ping(ctx context.Context) error
	// Close closes the database connection
	Close() error
}

// postgresClient manages database connections and operations
type postgresClient struct {
	DB *gorm.DB
}

func gormConfig(debug bool) *gorm.Config {
	level := logger.Silent
	if debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logger.Default.LogMode(level),
		// unique-index violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	}
}

// NewPostgresClient opens a pooled connection and pings it before returning
func NewPostgresClient(cfg Config) (PostgresClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(cfg.Debug))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	dbSQL, err := db.DB()
	if err != nil {
		return nil, err
	}

	dbSQL.SetMaxIdleConns(cfg.MaxIdleConns)
	dbSQL.SetMaxOpenConns(cfg.MaxOpenConns)
	dbSQL.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	dbSQL.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	if err := dbSQL.Ping(); err != nil {
		_ = dbSQL.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return &postgresClient{DB: db}, nil
}

// NewFromConn wraps an existing *sql.DB, such as a sqlmock connection
func NewFromConn(conn *sql.DB, debug bool) (PostgresClient, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), gormConfig(debug))
	if err != nil {
		return nil, err
	}
	return &postgresClient{DB: db}, nil
}

// Migrate runs auto-migration for all models
func (c *postgresClient) Migrate(dst ...any) error {
	if err := c.DB.AutoMigrate(dst...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	return nil
}

// GetDB returns the underlying gorm.DB instance
func (c *postgresClient) GetDB() *gorm.DB {
	return c.DB
}

// Ping checks connectivity through the pooled connection
func (c *postgresClient) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (c *postgresClient) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
