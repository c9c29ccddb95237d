package kafka

import (
	"errors"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"
)

// Config holds Kafka configuration
type Config struct {
	Brokers                []string
	ConsumerGroup          string
	ClientID               string
	AllowAutoTopicCreation bool
	RequestRetries         int
	DialTimeout            time.Duration
	// ProduceTimeout bounds how long a record may wait in the buffer
	ProduceTimeout time.Duration
	// SASL PLAIN is enabled when SASLUser is set
	SASLUser     string
	SASLPassword string
}

// ErrNoBrokers is returned when no seed broker is configured
var ErrNoBrokers = errors.New("kafka: at least one broker is required")

// Options converts the config into franz-go client options
func (c Config) Options() ([]kgo.Opt, error) {
	if len(c.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	opts := []kgo.Opt{
		WithBrokers(c.Brokers...),
	}
	if c.ConsumerGroup != "" {
		opts = append(opts, WithConsumerGroup(c.ConsumerGroup))
	}
	if c.ClientID != "" {
		opts = append(opts, WithClientID(c.ClientID))
	}
	if c.AllowAutoTopicCreation {
		opts = append(opts, WithAllowAutoTopicCreation())
	}
	if c.RequestRetries > 0 {
		opts = append(opts, WithRequestRetries(c.RequestRetries))
	}
	if c.DialTimeout > 0 {
		opts = append(opts, WithDialTimeout(c.DialTimeout))
	}
	if c.ProduceTimeout > 0 {
		opts = append(opts, WithRecordDeliveryTimeout(c.ProduceTimeout))
	}
	if c.SASLUser != "" {
		opts = append(opts, kgo.SASL(plain.Auth{User: c.SASLUser, Pass: c.SASLPassword}.AsMechanism()))
	}
	return opts, nil
}

// NewWithConfig creates a new Kafka client from a config struct
func NewWithConfig(config Config, extra ...kgo.Opt) (KafkaClient, error) {
	opts, err := config.Options()
	if err != nil {
		return nil, err
	}
	return New(append(opts, extra...)...)
}
