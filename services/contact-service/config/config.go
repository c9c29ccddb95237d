// Package config handles application configuration loading and management
package config

import (
	"errors"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Oracle providers
const (
	OracleNone   = "none"
	OracleGemini = "gemini"
	OracleHTTP   = "http"
)

// Config holds the entire application configuration
type Config struct {
	Application    ApplicationConfig    `mapstructure:"application"`
	Server         ServerConfig         `mapstructure:"server"`
	Storage        StorageConfig        `mapstructure:"storage"`
	Infrastructure InfrastructureConfig `mapstructure:"infrastructure"`
	Oracle         OracleConfig         `mapstructure:"oracle"`
}

// ApplicationConfig holds the application-level configuration
type ApplicationConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	// LogLevel is one of debug, info, warn, error
	LogLevel string `mapstructure:"log_level"`
	// LogFormat is json or text
	LogFormat string `mapstructure:"log_format"`
}

// ServerConfig holds the server configuration
type ServerConfig struct {
	// Port specifies the port number the server will listen on
	Port int `mapstructure:"port"`
	// ReadTimeout is in seconds
	ReadTimeout int `mapstructure:"read_timeout"`
	// WriteTimeout is in seconds
	WriteTimeout int `mapstructure:"write_timeout"`
	// ShutdownTimeout is in seconds
	ShutdownTimeout int `mapstructure:"shutdown_timeout"`
	// CORSOrigins lists the origins allowed to call the API
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// StorageConfig selects the contact store
type StorageConfig struct {
	// Driver is memory or postgres
	Driver string `mapstructure:"driver"`
	// SeedSampleData fills an empty in-memory store with sample contacts
	SeedSampleData bool `mapstructure:"seed_sample_data"`
}

// InfrastructureConfig holds the infrastructure connection settings
type InfrastructureConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
}

// PostgresConfig holds the PostgreSQL database configuration
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	Schema   string `mapstructure:"schema"`
	SSLMode  string `mapstructure:"sslmode"`
	// MaxIdleConns specifies the maximum number of idle connections in the pool
	MaxIdleConns int `mapstructure:"max_idle_conns"`
	// MaxOpenConns specifies the maximum number of open connections to the database
	MaxOpenConns int `mapstructure:"max_open_conns"`
	// ConnMaxIdleTime is in minutes
	ConnMaxIdleTime int `mapstructure:"conn_max_idle_time"`
	// ConnMaxLifetime is in minutes
	ConnMaxLifetime int `mapstructure:"conn_max_lifetime"`
	// Debug enables GORM SQL logging
	Debug bool `mapstructure:"debug"`
	// AutoMigrate creates the users table on startup
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// RedisConfig holds the Redis configuration used for cross-process email locks
type RedisConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Addrs    []string `mapstructure:"addrs"`
	Username string   `mapstructure:"username"`
	Password string   `mapstructure:"password"`
	DB       int      `mapstructure:"db"`
	PoolSize int      `mapstructure:"pool_size"`
	// LockTTL is in seconds
	LockTTL int `mapstructure:"lock_ttl"`
}

// KafkaConfig holds the Kafka configuration used for user change events
type KafkaConfig struct {
	Enabled  bool        `mapstructure:"enabled"`
	Brokers  []string    `mapstructure:"brokers"`
	ClientID string      `mapstructure:"client_id"`
	Topics   KafkaTopics `mapstructure:"topics"`
}

// KafkaTopics holds topic names per message type
type KafkaTopics struct {
	UserEvents string `mapstructure:"user_events"`
}

// OracleConfig selects and tunes the language-model intent oracle
type OracleConfig struct {
	// Provider is none, gemini or http
	Provider string `mapstructure:"provider"`
	// Timeout is in seconds
	Timeout int              `mapstructure:"timeout"`
	Gemini  GeminiConfig     `mapstructure:"gemini"`
	HTTP    HTTPOracleConfig `mapstructure:"http"`
}

// GeminiConfig holds the Gemini API settings
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// HTTPOracleConfig points at a self-hosted completion endpoint
type HTTPOracleConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Path       string `mapstructure:"path"`
	APIKey     string `mapstructure:"api_key"`
	RetryCount int    `mapstructure:"retry_count"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.name", "Contact Book")
	v.SetDefault("application.version", "1.0")
	v.SetDefault("application.log_level", "info")
	v.SetDefault("application.log_format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15)     // seconds
	v.SetDefault("server.write_timeout", 15)    // seconds
	v.SetDefault("server.shutdown_timeout", 30) // seconds
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.seed_sample_data", true)
	v.SetDefault("infrastructure.postgres.host", "localhost")
	v.SetDefault("infrastructure.postgres.port", 5432)
	// No defaults for user and password - they must be provided for postgres
	v.SetDefault("infrastructure.postgres.dbname", "contacts")
	v.SetDefault("infrastructure.postgres.schema", "public")
	v.SetDefault("infrastructure.postgres.sslmode", "disable")
	v.SetDefault("infrastructure.postgres.max_idle_conns", 10)
	v.SetDefault("infrastructure.postgres.max_open_conns", 100)
	v.SetDefault("infrastructure.postgres.conn_max_idle_time", 5) // minutes
	v.SetDefault("infrastructure.postgres.conn_max_lifetime", 60) // minutes
	v.SetDefault("infrastructure.postgres.debug", false)
	v.SetDefault("infrastructure.postgres.auto_migrate", true)
	v.SetDefault("infrastructure.redis.enabled", false)
	v.SetDefault("infrastructure.redis.addrs", []string{"localhost:6379"})
	v.SetDefault("infrastructure.redis.db", 0)
	v.SetDefault("infrastructure.redis.pool_size", 10)
	v.SetDefault("infrastructure.redis.lock_ttl", 10) // seconds
	v.SetDefault("infrastructure.kafka.enabled", false)
	v.SetDefault("infrastructure.kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("infrastructure.kafka.client_id", "contactbook")
	v.SetDefault("infrastructure.kafka.topics.user_events", "contacts.user.events")
	v.SetDefault("oracle.provider", OracleNone)
	v.SetDefault("oracle.timeout", 10) // seconds
	v.SetDefault("oracle.gemini.api_key", "")
	v.SetDefault("oracle.gemini.model", "gemini-2.0-flash")
	v.SetDefault("oracle.http.base_url", "")
	v.SetDefault("oracle.http.path", "/generate")
	v.SetDefault("oracle.http.api_key", "")
	v.SetDefault("oracle.http.retry_count", 1)
}

// LoadConfig loads the application configuration. A .env file is applied to the
// environment first, then contacts.yaml is read from the working directory,
// configs or ../configs. CONTACTS_* environment variables override both.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.SetConfigName("contacts")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("configs")
	v.AddConfigPath("../configs")
	return load(v)
}

// LoadFile loads the configuration from an explicit file path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("CONTACTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the conventional unprefixed name wins only when the prefixed one is unset
	if err := v.BindEnv("oracle.gemini.api_key", "CONTACTS_ORACLE_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, err
		}
		log.Println("Config file not found, using environment variables and defaults")
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks settings that only matter for the selected drivers
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Infrastructure.Postgres.User == "" {
			return errors.New("database user is required")
		}
		if c.Infrastructure.Postgres.Password == "" {
			return errors.New("database password is required")
		}
	default:
		return errors.New("storage driver must be memory or postgres")
	}

	switch c.Oracle.Provider {
	case OracleNone, "":
	case OracleGemini:
		if c.Oracle.Gemini.APIKey == "" {
			return errors.New("gemini api key is required")
		}
	case OracleHTTP:
		if c.Oracle.HTTP.BaseURL == "" {
			return errors.New("oracle http base url is required")
		}
	default:
		return errors.New("oracle provider must be none, gemini or http")
	}

	if c.Infrastructure.Redis.Enabled && len(c.Infrastructure.Redis.Addrs) == 0 {
		return errors.New("redis addrs are required when redis is enabled")
	}
	if c.Infrastructure.Kafka.Enabled && len(c.Infrastructure.Kafka.Brokers) == 0 {
		return errors.New("kafka brokers are required when kafka is enabled")
	}
	return nil
}
