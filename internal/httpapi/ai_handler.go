package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/quantnexusai/ai-groceries/internal/ai"
)

type AIHandler struct {
	svc    *ai.Service
	logger *log.Logger
}

func NewAIHandler(svc *ai.Service, logger *log.Logger) *AIHandler {
	return &AIHandler{svc: svc, logger: logger}
}

type aiRequest struct {
	Context string          `json:"context"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req aiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	text, err := h.svc.Generate(r.Context(), req.Context, req.Message, req.Data)
	if err != nil {
		var uce *ai.UnknownContextError
		switch {
		case errors.Is(err, ai.ErrNotConfigured):
			writeError(w, http.StatusBadRequest, "Please configure the ANTHROPIC_API_KEY environment variable to enable AI features.")
		case errors.As(err, &uce):
			writeError(w, http.StatusBadRequest, uce.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Failed to get AI response. Please try again.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"response": text})
}
