package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Default capability tags applied when a catalog entry carries none.
// Downstream capability grouping hides models with empty tags, so the
// normalizer must never persist a model without them.
const (
	DefaultTask    = "text-generation"
	DefaultFeature = "chat"
)

// Capabilities describes what a model can do: task tags drive
// capability-based grouping, feature tags are informational.
// Stored as a Postgres jsonb column.
type Capabilities struct {
	Tasks    []string `json:"tasks"`
	Features []string `json:"features"`
}

// DefaultCapabilities returns the fallback tag set for unclassified models.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Tasks:    []string{DefaultTask},
		Features: []string{DefaultFeature},
	}
}

// IsZero reports whether no tags are present at all.
func (c Capabilities) IsZero() bool {
	return len(c.Tasks) == 0 && len(c.Features) == 0
}

func (c Capabilities) Value() (driver.Value, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (c *Capabilities) Scan(value any) error {
	if value == nil {
		*c = Capabilities{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("capabilities: expected []byte, got %T", value)
	}

	if len(b) == 0 {
		*c = Capabilities{}
		return nil
	}

	return json.Unmarshal(b, c)
}
