package catalog

import (
	"context"

	"github.com/modeldeck/modeldeck/internal/models"
)

// Static serves the catalog snapshot compiled into the binary. It backs
// sync when the remote catalog is unreachable, so the model list is never
// empty on a fresh install.
type Static struct{}

func NewStatic() *Static {
	return &Static{}
}

func (s *Static) Fetch(_ context.Context) ([]Entry, error) {
	out := make([]Entry, len(staticEntries))
	copy(out, staticEntries)
	return out, nil
}

// staticProviderEntries returns the snapshot's models for one provider.
func staticProviderEntries(provider string) []Entry {
	var out []Entry
	for _, e := range staticEntries {
		if e.Provider == provider {
			out = append(out, e)
		}
	}
	return out
}

func chat(tasks ...string) models.Capabilities {
	return models.Capabilities{
		Tasks:    append([]string{"text-generation"}, tasks...),
		Features: []string{"chat"},
	}
}

var staticEntries = []Entry{
	{ModelID: "openai:gpt-4o", ModelName: "GPT-4o", Provider: "openai", Capabilities: chat("vision")},
	{ModelID: "openai:gpt-4o-mini", ModelName: "GPT-4o mini", Provider: "openai", Capabilities: chat("vision")},
	{ModelID: "openai:o3-mini", ModelName: "o3-mini", Provider: "openai", Capabilities: chat("reasoning")},
	{ModelID: "openai:text-embedding-3-small", ModelName: "text-embedding-3-small", Provider: "openai",
		Capabilities: models.Capabilities{Tasks: []string{"embedding"}, Features: []string{"batch"}}},
	{ModelID: "anthropic:claude-opus-4-20250514", ModelName: "Claude Opus 4", Provider: "anthropic", Capabilities: chat("vision", "reasoning")},
	{ModelID: "anthropic:claude-sonnet-4-20250514", ModelName: "Claude Sonnet 4", Provider: "anthropic", Capabilities: chat("vision", "reasoning")},
	{ModelID: "anthropic:claude-3-5-haiku-20241022", ModelName: "Claude 3.5 Haiku", Provider: "anthropic", Capabilities: chat()},
	{ModelID: "google:gemini-2.5-pro", ModelName: "Gemini 2.5 Pro", Provider: "google", Capabilities: chat("vision", "reasoning")},
	{ModelID: "google:gemini-2.5-flash", ModelName: "Gemini 2.5 Flash", Provider: "google", Capabilities: chat("vision")},
	{ModelID: "mistral:mistral-large-latest", ModelName: "Mistral Large", Provider: "mistral", Capabilities: chat()},
}
