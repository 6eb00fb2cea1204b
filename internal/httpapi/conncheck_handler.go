package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/modeldeck/modeldeck/internal/conncheck"
	"github.com/modeldeck/modeldeck/internal/utils"
)

// ConnCheckHandler handles live credential tests
type ConnCheckHandler struct {
	tester *conncheck.Tester
}

func NewConnCheckHandler(tester *conncheck.Tester) *ConnCheckHandler {
	return &ConnCheckHandler{tester: tester}
}

// TestConnectionRequest carries the credential to test.
type TestConnectionRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

// TestConnectionResponse reports the outcome of a test.
type TestConnectionResponse struct {
	Provider  string `json:"provider"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

// Test handles POST /v1/connection/test
func (h *ConnCheckHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req TestConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if req.Provider == "" || req.APIKey == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "provider and api_key are required")
		return
	}

	start := time.Now()
	if err := h.tester.Verify(r.Context(), req.Provider, req.APIKey); err != nil {
		if errors.Is(err, conncheck.ErrUnsupportedProvider) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, TestConnectionResponse{
		Provider:  req.Provider,
		Status:    "ok",
		LatencyMS: time.Since(start).Milliseconds(),
	})
}
