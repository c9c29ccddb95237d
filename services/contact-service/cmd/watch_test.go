package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

func TestWatchEvents(t *testing.T) {
	records := make(chan *kgo.Record, 2)
	records <- &kgo.Record{Value: []byte(`{"event_id":"01J","type":"user.created","user_id":7,"full_name":"Jane Roe","email":"jane@example.com","occurred_at":"2024-05-01T10:00:00Z"}`)}
	records <- &kgo.Record{Offset: 3, Value: []byte(`not json`)}
	close(records)

	var out bytes.Buffer
	require.NoError(t, watchEvents(context.Background(), records, &out))

	assert.Contains(t, out.String(), `2024-05-01T10:00:00Z user.created  id=7 name="Jane Roe" email=jane@example.com`)
	assert.Contains(t, out.String(), "offset=3 undecodable event")
}

func TestWatchEvents_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, watchEvents(ctx, make(chan *kgo.Record), &bytes.Buffer{}))
}
