package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/modeldeck/modeldeck/internal/errs"
	"github.com/modeldeck/modeldeck/internal/keystore"
	"github.com/modeldeck/modeldeck/internal/middleware"
	"github.com/modeldeck/modeldeck/internal/models"
	"github.com/modeldeck/modeldeck/internal/utils"
)

// KeysHandler handles key configuration endpoints
type KeysHandler struct {
	keys *keystore.Service
}

func NewKeysHandler(keysService *keystore.Service) *KeysHandler {
	return &KeysHandler{keys: keysService}
}

// SaveKeyRequest is the payload for creating or updating a configuration.
type SaveKeyRequest struct {
	Provider  string  `json:"provider"`
	ModelID   string  `json:"model_id"`
	ModelName string  `json:"model_name"`
	APIKey    string  `json:"api_key"`
	IsEnabled *bool   `json:"is_enabled,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateNotesRequest is the payload for PATCH /v1/keys/{id}/notes.
// A null notes field clears them.
type UpdateNotesRequest struct {
	Notes *string `json:"notes"`
}

// KeyConfigResponse is a configuration as shown to its owner. The key
// itself never leaves the server unmasked.
type KeyConfigResponse struct {
	ID             string  `json:"id"`
	Provider       string  `json:"provider"`
	ModelID        string  `json:"model_id"`
	ModelName      string  `json:"model_name"`
	MaskedKey      string  `json:"masked_key"`
	IsEnabled      bool    `json:"is_enabled"`
	LastVerifiedAt *string `json:"last_verified_at,omitempty"`
	Notes          *string `json:"notes,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

func toKeyConfigResponse(cfg *models.KeyConfig) KeyConfigResponse {
	resp := KeyConfigResponse{
		ID:        cfg.ID.String(),
		Provider:  cfg.Provider,
		ModelID:   cfg.ModelID,
		ModelName: cfg.ModelName,
		MaskedKey: utils.MaskKey(cfg.APIKey),
		IsEnabled: cfg.IsEnabled,
		Notes:     cfg.Notes,
		CreatedAt: cfg.CreatedAt.Format(time.RFC3339),
		UpdatedAt: cfg.UpdatedAt.Format(time.RFC3339),
	}
	if cfg.LastVerifiedAt != nil {
		v := cfg.LastVerifiedAt.Format(time.RFC3339)
		resp.LastVerifiedAt = &v
	}
	return resp
}

func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respondWithServiceError(w, errs.ErrUnauthenticated)
		return uuid.Nil, false
	}
	return userID, true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid configuration id")
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /v1/keys
func (h *KeysHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, nil)
}

// Update handles PUT /v1/keys/{id}
func (h *KeysHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	h.save(w, r, &id)
}

func (h *KeysHandler) save(w http.ResponseWriter, r *http.Request, id *uuid.UUID) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req SaveKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}

	cfg, err := h.keys.Save(r.Context(), userID, keystore.SaveInput{
		ID:        id,
		Provider:  req.Provider,
		ModelID:   req.ModelID,
		ModelName: req.ModelName,
		APIKey:    req.APIKey,
		IsEnabled: enabled,
		Notes:     req.Notes,
	})
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	status := http.StatusOK
	if id == nil {
		status = http.StatusCreated
	}
	utils.RespondWithJSON(w, status, toKeyConfigResponse(cfg))
}

// List handles GET /v1/keys
func (h *KeysHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	configs, err := h.keys.List(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	out := make([]KeyConfigResponse, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, toKeyConfigResponse(cfg))
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"keys": out})
}

// Delete handles DELETE /v1/keys/{id}
func (h *KeysHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.keys.Delete(r.Context(), userID, id); err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateNotes handles PATCH /v1/keys/{id}/notes
func (h *KeysHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	cfg, err := h.keys.UpdateNotes(r.Context(), userID, id, req.Notes)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, toKeyConfigResponse(cfg))
}

// HistoryEntry is one audit record as returned by the API.
type HistoryEntry struct {
	ID        string  `json:"id"`
	Provider  string  `json:"provider"`
	Notes     *string `json:"notes,omitempty"`
	DeletedAt string  `json:"deleted_at"`
}

// History handles GET /v1/keys/history
func (h *KeysHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	history, err := h.keys.History(r.Context(), userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	out := make([]HistoryEntry, 0, len(history))
	for _, entry := range history {
		out = append(out, HistoryEntry{
			ID:        entry.ID.String(),
			Provider:  entry.Provider,
			Notes:     entry.Notes,
			DeletedAt: entry.DeletedAt.Format(time.RFC3339),
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"history": out})
}
