package httpapi

import (
	"net/http"

	"github.com/modeldeck/modeldeck/internal/registry"
	"github.com/modeldeck/modeldeck/internal/utils"
)

// RegistryHandler handles model registry endpoints
type RegistryHandler struct {
	registry *registry.Service
}

func NewRegistryHandler(registryService *registry.Service) *RegistryHandler {
	return &RegistryHandler{registry: registryService}
}

// Sync handles POST /v1/registry/sync
func (h *RegistryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.registry.Sync(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, result)
}

// ListModels handles GET /v1/registry/models
func (h *RegistryHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.ListModels(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"models": list})
}

// ListByProvider handles GET /v1/registry/models/by-provider
func (h *RegistryHandler) ListByProvider(w http.ResponseWriter, r *http.Request) {
	groups, err := h.registry.ListByProvider(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"providers": groups})
}

// ListByCapability handles GET /v1/registry/models/by-capability
func (h *RegistryHandler) ListByCapability(w http.ResponseWriter, r *http.Request) {
	groups, err := h.registry.ListByCapability(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"capabilities": groups})
}
