package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/modeldeck/modeldeck/internal/models"
)

// Remote fetches the published provider catalog over HTTP.
type Remote struct {
	client *resty.Client
}

// NewRemote builds a remote source against baseURL. The catalog document
// lives at /providers.json under it.
func NewRemote(baseURL string, timeout time.Duration) *Remote {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Remote{client: client}
}

// Published catalogs come in two shapes: a bare provider array and an
// object wrapping one under "providers". Field names vary the same way,
// so each level accepts both spellings.
type remoteDocument struct {
	Providers []remoteProvider
}

func (d *remoteDocument) UnmarshalJSON(data []byte) error {
	var bare []remoteProvider
	if err := json.Unmarshal(data, &bare); err == nil {
		d.Providers = bare
		return nil
	}

	var wrapped struct {
		Providers []remoteProvider `json:"providers"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	d.Providers = wrapped.Providers
	return nil
}

type remoteProvider struct {
	ID        string        `json:"id"`
	AltID     string        `json:"provider_id"`
	Name      string        `json:"name"`
	AltName   string        `json:"provider_name"`
	Available *bool         `json:"is_available"`
	Models    []remoteModel `json:"models"`
}

// key is the lowercase slug used as the model_id prefix.
func (p remoteProvider) key() string {
	return strings.ToLower(firstNonEmpty(p.ID, p.AltID, p.Name, p.AltName))
}

type remoteModel struct {
	ID           string              `json:"id"`
	AltID        string              `json:"model_id"`
	Name         string              `json:"name"`
	AltName      string              `json:"model_name"`
	Version      *string             `json:"version"`
	Capabilities models.Capabilities `json:"capabilities"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func (r *Remote) Fetch(ctx context.Context) ([]Entry, error) {
	var doc remoteDocument

	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&doc).
		Get("/providers.json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("catalog request returned %s", resp.Status())
	}

	var entries []Entry
	for _, p := range doc.Providers {
		provider := p.key()
		if provider == "" {
			continue
		}
		if p.Available != nil && !*p.Available {
			continue
		}

		// Provider-only documents carry no model lists; the shipped
		// snapshot supplies this provider's models instead.
		if len(p.Models) == 0 {
			entries = append(entries, staticProviderEntries(provider)...)
			continue
		}

		for _, m := range p.Models {
			id := firstNonEmpty(m.ID, m.AltID)
			if id == "" {
				continue
			}
			// Published documents are inconsistent about prefixing; accept both.
			if !strings.HasPrefix(id, provider+":") {
				id = provider + ":" + id
			}

			name := firstNonEmpty(m.Name, m.AltName)
			if name == "" {
				name = strings.TrimPrefix(id, provider+":")
			}

			entries = append(entries, Entry{
				ModelID:      id,
				ModelName:    name,
				Provider:     provider,
				Version:      m.Version,
				Capabilities: m.Capabilities,
			})
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog document contains no models")
	}

	return entries, nil
}
