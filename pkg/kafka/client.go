package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is a single record to publish
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// KafkaClient defines the interface for Kafka operations
type KafkaClient interface {
	Produce(ctx context.Context, msg Message) error
	// ProduceAsync enqueues msg and logs delivery failures instead of returning them
	ProduceAsync(ctx context.Context, msg Message)
	// Consume streams records for topics until ctx is done or the client is closed
	Consume(ctx context.Context, topics ...string) <-chan *kgo.Record
	Ping(ctx context.Context) error
	Close() error
	GetClient() *kgo.Client
}

// Client represents a Kafka client wrapper that handles both producing and consuming
type Client struct {
	client *kgo.Client
	log    *slog.Logger
}

// New creates a new Kafka client with the provided options
func New(opts ...kgo.Opt) (KafkaClient, error) {
	kafkaClient, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		client: kafkaClient,
		log:    slog.Default(),
	}, nil
}

// SetLogger replaces the logger used for asynchronous delivery failures
func (k *Client) SetLogger(l *slog.Logger) {
	if l != nil {
		k.log = l
	}
}

func toRecord(msg Message) *kgo.Record {
	record := &kgo.Record{
		Topic: msg.Topic,
		Key:   msg.Key,
		Value: msg.Value,
	}
	for k, v := range msg.Headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	return record
}

// Produce sends a message and waits for the broker acknowledgement
func (k *Client) Produce(ctx context.Context, msg Message) error {
	return k.client.ProduceSync(ctx, toRecord(msg)).FirstErr()
}

// ProduceAsync sends a message to a Kafka topic asynchronously
func (k *Client) ProduceAsync(ctx context.Context, msg Message) {
	k.client.Produce(ctx, toRecord(msg), func(record *kgo.Record, err error) {
		if err != nil {
			k.log.Error("kafka async produce failed", "topic", record.Topic, "error", err)
		}
	})
}

// Consume starts consuming messages from the specified topics
func (k *Client) Consume(ctx context.Context, topics ...string) <-chan *kgo.Record {
	k.client.AddConsumeTopics(topics...)

	recordsChan := make(chan *kgo.Record, 100)
	go func() {
		defer close(recordsChan)
		for {
			fetches := k.client.PollFetches(ctx)
			if fetches.IsClientClosed() || ctx.Err() != nil {
				return
			}
			fetches.EachError(func(topic string, partition int32, err error) {
				k.log.Warn("kafka fetch error", "topic", topic, "partition", partition, "error", err)
			})

			iter := fetches.RecordIter()
			for !iter.Done() {
				select {
				case recordsChan <- iter.Next():
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return recordsChan
}

// Ping checks that at least one broker answers
func (k *Client) Ping(ctx context.Context) error {
	return k.client.Ping(ctx)
}

// Close closes the Kafka client
func (k *Client) Close() error {
	if k.client != nil {
		k.client.Close()
	}
	return nil
}

// GetClient returns the underlying Kafka client for advanced operations
func (k *Client) GetClient() *kgo.Client {
	return k.client
}
