package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestProviderFromModelID(t *testing.T) {
	tests := []struct {
		name    string
		modelID string
		want    string
	}{
		{"openai model", "openai:gpt-4o", "openai"},
		{"anthropic model", "anthropic:claude-sonnet-4-20250514", "anthropic"},
		{"no prefix", "gpt-4o", ""},
		{"empty", "", ""},
		{"colon in model name", "google:gemini:experimental", "google"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProviderFromModelID(tt.modelID); got != tt.want {
				t.Errorf("ProviderFromModelID(%q) = %q, want %q", tt.modelID, got, tt.want)
			}
		})
	}
}

func TestModelHasTask(t *testing.T) {
	m := &Model{
		ModelID: "openai:gpt-4o",
		Capabilities: Capabilities{
			Tasks:    []string{"text-generation", "vision"},
			Features: []string{"chat"},
		},
	}

	if !m.HasTask("vision") {
		t.Error("expected model to have vision task")
	}
	if m.HasTask("embedding") {
		t.Error("did not expect embedding task")
	}
	if m.HasTask("chat") {
		t.Error("feature tags must not match as tasks")
	}
}

func TestKeyConfigOwnedBy(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	cfg := &KeyConfig{ID: uuid.New(), UserID: owner, Provider: "openai"}

	if !cfg.OwnedBy(owner) {
		t.Error("expected config to be owned by its user")
	}
	if cfg.OwnedBy(other) {
		t.Error("config must not be owned by another user")
	}
}
