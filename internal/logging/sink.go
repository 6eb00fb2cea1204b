package logging

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event is one observable occurrence worth recording outside the request
// path: a sync completing, a key being saved or deleted, a fallback
// engaging. Meta holds event-specific fields.
type Event struct {
	Time    time.Time      `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Meta    map[string]any `json:"meta,omitempty"`
}

// Sink receives events. Implementations must not block the caller for
// long and must swallow their own delivery failures; an event is
// best-effort by contract.
type Sink interface {
	Emit(ctx context.Context, event *Event)
}

// ZapSink forwards events to the application logger.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

func (s *ZapSink) Emit(_ context.Context, event *Event) {
	fields := make([]zap.Field, 0, len(event.Meta)+1)
	fields = append(fields, zap.Time("event_time", event.Time))
	for k, v := range event.Meta {
		fields = append(fields, zap.Any(k, v))
	}

	switch event.Level {
	case "error":
		s.logger.Error(event.Message, fields...)
	case "warn":
		s.logger.Warn(event.Message, fields...)
	default:
		s.logger.Info(event.Message, fields...)
	}
}

// MemorySink retains events in memory. Used in tests and as a default
// when no external sink is configured.
type MemorySink struct {
	mu     sync.Mutex
	events []*Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Emit(_ context.Context, event *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns a snapshot of everything emitted so far.
func (s *MemorySink) Events() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Event, len(s.events))
	copy(out, s.events)
	return out
}

// MultiSink fans an event out to several sinks.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (s *MultiSink) Emit(ctx context.Context, event *Event) {
	for _, sink := range s.sinks {
		sink.Emit(ctx, event)
	}
}
