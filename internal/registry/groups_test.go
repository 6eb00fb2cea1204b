package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modeldeck/modeldeck/internal/models"
)

func testModels() []*models.Model {
	return []*models.Model{
		{ModelID: "openai:gpt-4o", Provider: "openai",
			Capabilities: models.Capabilities{Tasks: []string{"text-generation", "vision"}}},
		{ModelID: "openai:text-embedding-3-small", Provider: "openai",
			Capabilities: models.Capabilities{Tasks: []string{"embedding"}}},
		{ModelID: "anthropic:claude-sonnet-4", Provider: "anthropic",
			Capabilities: models.Capabilities{Tasks: []string{"text-generation"}}},
		{ModelID: "google:gemini-2.5-flash", Provider: "google",
			Capabilities: models.Capabilities{Features: []string{"chat"}}}, // no task tags
	}
}

func TestGroupByProviderPartitions(t *testing.T) {
	groups := GroupByProvider(testModels())

	require.Len(t, groups, 3)

	// Partition: every model appears exactly once across all groups.
	seen := make(map[string]int)
	total := 0
	for _, g := range groups {
		for _, m := range g.Models {
			seen[m.ModelID]++
			total++
			assert.Equal(t, g.Provider, m.Provider)
		}
	}
	assert.Equal(t, len(testModels()), total)
	for id, n := range seen {
		assert.Equal(t, 1, n, "model %s appears %d times", id, n)
	}
}

func TestGroupByProviderFirstSeenOrder(t *testing.T) {
	groups := GroupByProvider(testModels())

	require.Len(t, groups, 3)
	assert.Equal(t, "openai", groups[0].Provider)
	assert.Equal(t, "anthropic", groups[1].Provider)
	assert.Equal(t, "google", groups[2].Provider)

	// Revisiting an earlier provider extends its existing group instead
	// of opening a new one or reordering.
	interleaved := []*models.Model{
		{ModelID: "openai:gpt-4o", Provider: "openai"},
		{ModelID: "anthropic:claude-sonnet-4", Provider: "anthropic"},
		{ModelID: "openai:o3-mini", Provider: "openai"},
	}
	groups = GroupByProvider(interleaved)
	require.Len(t, groups, 2)
	assert.Equal(t, "openai", groups[0].Provider)
	require.Len(t, groups[0].Models, 2)
	assert.Equal(t, "openai:gpt-4o", groups[0].Models[0].ModelID)
	assert.Equal(t, "openai:o3-mini", groups[0].Models[1].ModelID)
	assert.Equal(t, "anthropic", groups[1].Provider)
}

func TestGroupByProviderDeduplicates(t *testing.T) {
	list := append(testModels(), &models.Model{
		ModelID: "openai:gpt-4o", Provider: "openai",
		Capabilities: models.Capabilities{Tasks: []string{"text-generation"}},
	})

	groups := GroupByProvider(list)
	require.Len(t, groups, 3)
	assert.Equal(t, "openai", groups[0].Provider)

	counts := make(map[string]int)
	for _, m := range groups[0].Models {
		counts[m.ModelID]++
	}
	assert.Equal(t, 1, counts["openai:gpt-4o"], "a repeated model_id must collapse to one entry")
	assert.Len(t, groups[0].Models, 2)
}

func TestGroupByCapability(t *testing.T) {
	groups := GroupByCapability(testModels())

	require.Len(t, groups, 3)
	assert.Equal(t, "text-generation", groups[0].Capability)
	assert.Equal(t, "vision", groups[1].Capability)
	assert.Equal(t, "embedding", groups[2].Capability)

	byTag := make(map[string][]string)
	for _, g := range groups {
		for _, m := range g.Models {
			byTag[g.Capability] = append(byTag[g.Capability], m.ModelID)
		}
	}

	assert.Equal(t, []string{"openai:gpt-4o", "anthropic:claude-sonnet-4"}, byTag["text-generation"])
	assert.Equal(t, []string{"openai:gpt-4o"}, byTag["vision"])
	assert.Equal(t, []string{"openai:text-embedding-3-small"}, byTag["embedding"])

	// A model with multiple task tags appears once per tag.
	hits := 0
	for _, ids := range byTag {
		for _, id := range ids {
			if id == "openai:gpt-4o" {
				hits++
			}
		}
	}
	assert.Equal(t, 2, hits)

	// Models without task tags are absent from every group.
	for _, ids := range byTag {
		assert.NotContains(t, ids, "google:gemini-2.5-flash")
	}
}

func TestGroupByCapabilityDeduplicates(t *testing.T) {
	list := append(testModels(), &models.Model{
		ModelID: "openai:gpt-4o", Provider: "openai",
		Capabilities: models.Capabilities{Tasks: []string{"text-generation", "vision"}},
	})

	groups := GroupByCapability(list)
	for _, g := range groups {
		counts := make(map[string]int)
		for _, m := range g.Models {
			counts[m.ModelID]++
		}
		for id, n := range counts {
			assert.Equal(t, 1, n, "tag %s lists %s %d times", g.Capability, id, n)
		}
	}
	require.Len(t, groups, 3, "a repeated model must not invent new groups")
}

func TestGroupByEmptyInput(t *testing.T) {
	assert.Empty(t, GroupByProvider(nil))
	assert.Empty(t, GroupByCapability(nil))
}
