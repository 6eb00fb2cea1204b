package catalog

import (
	"context"
	"time"

	"github.com/modeldeck/modeldeck/internal/logging"
)

// Fallback tries the primary source and falls back to the secondary when
// it fails. The primary's error is reported through the sink, not
// returned, as long as the secondary delivers.
type Fallback struct {
	primary   Source
	secondary Source
	sink      logging.Sink
}

func NewFallback(primary, secondary Source, sink logging.Sink) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, sink: sink}
}

func (f *Fallback) Fetch(ctx context.Context) ([]Entry, error) {
	entries, err := f.primary.Fetch(ctx)
	if err == nil {
		return entries, nil
	}

	f.sink.Emit(ctx, &logging.Event{
		Time:    time.Now().UTC(),
		Level:   "warn",
		Message: "catalog fallback engaged",
		Meta:    map[string]any{"error": err.Error()},
	})

	return f.secondary.Fetch(ctx)
}
