package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemorySink(t *testing.T) {
	sink := NewMemorySink()
	ctx := context.Background()

	sink.Emit(ctx, &Event{Time: time.Now(), Level: "info", Message: "sync completed"})
	sink.Emit(ctx, &Event{Time: time.Now(), Level: "warn", Message: "fallback engaged"})

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "sync completed", events[0].Message)
	assert.Equal(t, "fallback engaged", events[1].Message)
}

func TestMultiSinkFansOut(t *testing.T) {
	a := NewMemorySink()
	b := NewMemorySink()
	multi := NewMultiSink(a, b)

	multi.Emit(context.Background(), &Event{Level: "info", Message: "key saved"})

	require.Len(t, a.Events(), 1)
	require.Len(t, b.Events(), 1)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return srv, client
}

func TestRedisSinkEnqueues(t *testing.T) {
	srv, client := newTestRedis(t)

	sink := NewRedisSink(client, RedisSinkConfig{ListKey: "events", MaxEvents: 100}, zap.NewNop())
	sink.Emit(context.Background(), &Event{
		Time:    time.Now().UTC(),
		Level:   "info",
		Message: "sync completed",
		Meta:    map[string]any{"count": 12},
	})

	items, err := srv.List("events")
	require.NoError(t, err)
	require.Len(t, items, 1)

	var decoded Event
	require.NoError(t, json.Unmarshal([]byte(items[0]), &decoded))
	assert.Equal(t, "sync completed", decoded.Message)
	assert.EqualValues(t, 12, decoded.Meta["count"])
}

func TestRedisSinkTrimsToCap(t *testing.T) {
	srv, client := newTestRedis(t)

	sink := NewRedisSink(client, RedisSinkConfig{ListKey: "events", MaxEvents: 5}, zap.NewNop())
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		sink.Emit(ctx, &Event{Level: "info", Message: fmt.Sprintf("event %d", i)})
	}

	items, err := srv.List("events")
	require.NoError(t, err)
	require.Len(t, items, 5)

	var oldest Event
	require.NoError(t, json.Unmarshal([]byte(items[0]), &oldest))
	assert.Equal(t, "event 15", oldest.Message, "oldest entries are dropped first")

	n, err := sink.Pending(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestRedisSinkSwallowsDeliveryFailure(t *testing.T) {
	srv, client := newTestRedis(t)
	srv.Close()

	sink := NewRedisSink(client, RedisSinkConfig{ListKey: "events", MaxEvents: 5}, zap.NewNop())
	// Must not panic or block; delivery is best-effort.
	sink.Emit(context.Background(), &Event{Level: "info", Message: "unreachable"})
}
