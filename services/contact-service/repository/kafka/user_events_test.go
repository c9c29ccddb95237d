package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	pkgkafka "contactbook/pkg/kafka"
	"contactbook/pkg/logger"
	"contactbook/services/contact-service/domain/model"
	"contactbook/services/contact-service/domain/repository"
)

type fakeKafka struct {
	sent   []pkgkafka.Message
	err    error
	closed bool
}

func (f *fakeKafka) Produce(_ context.Context, msg pkgkafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeKafka) ProduceAsync(ctx context.Context, msg pkgkafka.Message) { _ = f.Produce(ctx, msg) }

func (f *fakeKafka) Consume(context.Context, ...string) <-chan *kgo.Record {
	ch := make(chan *kgo.Record)
	close(ch)
	return ch
}

func (f *fakeKafka) Ping(context.Context) error { return nil }
func (f *fakeKafka) Close() error               { f.closed = true; return nil }
func (f *fakeKafka) GetClient() *kgo.Client     { return nil }

func TestUserEventPublisher_Publish(t *testing.T) {
	fake := &fakeKafka{}
	pub := NewUserEventPublisher(fake, "contacts.user-events", logger.NoOpLogger())

	user := &model.User{ID: 42, FullName: "Jane Roe", Email: "jane.roe@example.com"}
	require.NoError(t, pub.Publish(context.Background(), repository.EventUserCreated, user))

	require.Len(t, fake.sent, 1)
	msg := fake.sent[0]
	assert.Equal(t, "contacts.user-events", msg.Topic)
	assert.Equal(t, []byte("42"), msg.Key)
	assert.Equal(t, "user.created", msg.Headers["event_type"])

	var event UserEvent
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "user.created", event.Type)
	assert.Equal(t, uint64(42), event.UserID)
	assert.Equal(t, "jane.roe@example.com", event.Email)
	_, err := ulid.Parse(event.EventID)
	assert.NoError(t, err, "event ids are ULIDs")
	assert.False(t, event.OccurredAt.IsZero())
}

func TestUserEventPublisher_ProduceError(t *testing.T) {
	fake := &fakeKafka{err: errors.New("broker down")}
	pub := NewUserEventPublisher(fake, "t", logger.NoOpLogger())

	err := pub.Publish(context.Background(), repository.EventUserDeleted, &model.User{ID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestUserEventPublisher_Close(t *testing.T) {
	fake := &fakeKafka{}
	require.NoError(t, NewUserEventPublisher(fake, "t", logger.NoOpLogger()).Close())
	assert.True(t, fake.closed)
}

func TestNoopPublisher(t *testing.T) {
	pub := NewNoopPublisher()
	assert.NoError(t, pub.Publish(context.Background(), repository.EventUserUpdated, &model.User{}))
	assert.NoError(t, pub.Close())
}
