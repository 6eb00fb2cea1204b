package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/modeldeck/modeldeck/internal/auth"
	"github.com/modeldeck/modeldeck/internal/utils"
)

// AuthHandler handles session endpoints
type AuthHandler struct {
	auth *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// LoginRequest carries the credentials for POST /v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, session)
}
