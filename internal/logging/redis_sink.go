package logging

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// enqueueScript pushes an event and trims the list to its cap in one
// round trip, so concurrent emitters cannot grow the list past MaxEvents.
var enqueueScript = redis.NewScript(`
	local key = KEYS[1]
	local value = ARGV[1]
	local max_events = tonumber(ARGV[2])

	redis.call('RPUSH', key, value)

	local len = redis.call('LLEN', key)
	if len > max_events then
		redis.call('LTRIM', key, len - max_events, -1)
	end

	return len
`)

// RedisSink buffers events in a capped Redis list for out-of-process
// consumers. Delivery failures are logged and dropped, never returned.
type RedisSink struct {
	client    *redis.Client
	listKey   string
	maxEvents int64
	logger    *zap.Logger
}

// RedisSinkConfig holds settings for the Redis event buffer.
type RedisSinkConfig struct {
	ListKey   string
	MaxEvents int64
}

func NewRedisSink(client *redis.Client, cfg RedisSinkConfig, logger *zap.Logger) *RedisSink {
	return &RedisSink{
		client:    client,
		listKey:   cfg.ListKey,
		maxEvents: cfg.MaxEvents,
		logger:    logger,
	}
}

func (s *RedisSink) Emit(ctx context.Context, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn("failed to marshal event", zap.Error(err))
		return
	}

	if s.maxEvents > 0 {
		err = enqueueScript.Run(ctx, s.client, []string{s.listKey}, data, s.maxEvents).Err()
	} else {
		err = s.client.RPush(ctx, s.listKey, data).Err()
	}
	if err != nil {
		s.logger.Warn("failed to enqueue event", zap.Error(err), zap.String("list_key", s.listKey))
	}
}

// Pending returns the number of buffered events.
func (s *RedisSink) Pending(ctx context.Context) (int64, error) {
	return s.client.LLen(ctx, s.listKey).Result()
}
