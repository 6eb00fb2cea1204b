package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modeldeck/modeldeck/internal/logging"
)

func TestStaticFetch(t *testing.T) {
	entries, err := NewStatic().Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		assert.NotEmpty(t, e.ModelID, "every static entry needs a model id")
		assert.NotEmpty(t, e.Provider)
		assert.False(t, e.Capabilities.IsZero(), "static entries ship with capability tags")
	}
}

func TestRemoteFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/providers.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"providers": [
				{
					"name": "OpenAI",
					"models": [
						{"id": "gpt-4o", "name": "GPT-4o", "capabilities": {"tasks": ["text-generation"], "features": ["chat"]}},
						{"id": "openai:o3-mini"},
						{"id": ""}
					]
				},
				{"name": "", "models": [{"id": "orphan"}]}
			]
		}`))
	}))
	defer srv.Close()

	entries, err := NewRemote(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2, "blank ids and unnamed providers are skipped")

	assert.Equal(t, "openai:gpt-4o", entries[0].ModelID)
	assert.Equal(t, "openai", entries[0].Provider)
	assert.Equal(t, "GPT-4o", entries[0].ModelName)

	// Already-prefixed id is kept; display name defaults to the bare id.
	assert.Equal(t, "openai:o3-mini", entries[1].ModelID)
	assert.Equal(t, "o3-mini", entries[1].ModelName)
	assert.True(t, entries[1].Capabilities.IsZero())
}

func TestRemoteFetchBareProviderArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"provider_id": "openai", "provider_name": "OpenAI"},
			{"provider_id": "mistral", "provider_name": "Mistral", "is_available": false},
			{"id": "anthropic", "models": [{"model_id": "claude-sonnet-4", "model_name": "Claude Sonnet 4"}]}
		]`))
	}))
	defer srv.Close()

	entries, err := NewRemote(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)

	byProvider := make(map[string][]string)
	for _, e := range entries {
		byProvider[e.Provider] = append(byProvider[e.Provider], e.ModelID)
	}

	// A provider entry without a model list pulls its models from the
	// shipped snapshot.
	assert.Contains(t, byProvider["openai"], "openai:gpt-4o")
	assert.NotContains(t, byProvider, "mistral", "unavailable providers are skipped")

	require.Len(t, byProvider["anthropic"], 1)
	assert.Equal(t, "anthropic:claude-sonnet-4", byProvider["anthropic"][0])

	for _, e := range entries {
		if e.ModelID == "anthropic:claude-sonnet-4" {
			assert.Equal(t, "Claude Sonnet 4", e.ModelName)
		}
	}
}

func TestRemoteFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, time.Second).Fetch(context.Background())
	assert.Error(t, err)
}

func TestRemoteFetchEmptyDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"providers": []}`))
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL, time.Second).Fetch(context.Background())
	assert.Error(t, err, "an empty catalog must not wipe the registry")
}

type failingSource struct{ err error }

func (s *failingSource) Fetch(context.Context) ([]Entry, error) { return nil, s.err }

func TestFallbackUsesPrimary(t *testing.T) {
	sink := logging.NewMemorySink()
	fb := NewFallback(NewStatic(), &failingSource{err: errors.New("unused")}, sink)

	entries, err := fb.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
	assert.Empty(t, sink.Events())
}

func TestFallbackEngagesSecondary(t *testing.T) {
	sink := logging.NewMemorySink()
	fb := NewFallback(&failingSource{err: errors.New("network down")}, NewStatic(), sink)

	entries, err := fb.Fetch(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "catalog fallback engaged", events[0].Message)
}

func TestFallbackBothFail(t *testing.T) {
	sink := logging.NewMemorySink()
	fb := NewFallback(&failingSource{err: errors.New("primary down")}, &failingSource{err: errors.New("secondary down")}, sink)

	_, err := fb.Fetch(context.Background())
	assert.Error(t, err)
}
