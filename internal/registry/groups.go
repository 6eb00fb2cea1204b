package registry

import (
	"github.com/modeldeck/modeldeck/internal/models"
)

// ProviderGroup holds one provider's models.
type ProviderGroup struct {
	Provider string          `json:"provider"`
	Models   []*models.Model `json:"models"`
}

// CapabilityGroup holds the models carrying one task tag.
type CapabilityGroup struct {
	Capability string          `json:"capability"`
	Models     []*models.Model `json:"models"`
}

// GroupByProvider partitions models by provider. Groups come back in the
// order their provider first appears in the input; within a group a
// repeated model_id keeps only its first occurrence.
func GroupByProvider(list []*models.Model) []ProviderGroup {
	index := make(map[string]int, len(list))
	seen := make(map[string]map[string]bool, len(list))
	var groups []ProviderGroup

	for _, m := range list {
		i, ok := index[m.Provider]
		if !ok {
			i = len(groups)
			index[m.Provider] = i
			seen[m.Provider] = make(map[string]bool)
			groups = append(groups, ProviderGroup{Provider: m.Provider})
		}
		if seen[m.Provider][m.ModelID] {
			continue
		}
		seen[m.Provider][m.ModelID] = true
		groups[i].Models = append(groups[i].Models, m)
	}

	return groups
}

// GroupByCapability indexes models by task tag, in first-seen tag order.
// A model appears once per tag it carries, even when the input lists it
// twice; models without task tags appear nowhere, which is why
// normalization assigns defaults.
func GroupByCapability(list []*models.Model) []CapabilityGroup {
	index := make(map[string]int, len(list))
	seen := make(map[string]map[string]bool, len(list))
	var groups []CapabilityGroup

	for _, m := range list {
		for _, tag := range m.Capabilities.Tasks {
			i, ok := index[tag]
			if !ok {
				i = len(groups)
				index[tag] = i
				seen[tag] = make(map[string]bool)
				groups = append(groups, CapabilityGroup{Capability: tag})
			}
			if seen[tag][m.ModelID] {
				continue
			}
			seen[tag][m.ModelID] = true
			groups[i].Models = append(groups[i].Models, m)
		}
	}

	return groups
}
