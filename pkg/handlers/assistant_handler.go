package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/llm"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// ChatRequest for POST /assistant/chat
type ChatRequest struct {
	Message  string `json:"message" validate:"required"`
	ThreadID string `json:"thread_id"`
}

// ChatResponse for POST /assistant/chat
type ChatResponse struct {
	Reply    string `json:"reply"`
	ThreadID string `json:"thread_id"`
}

// AssistantHandler handles assistant chat HTTP requests.
type AssistantHandler struct {
	assistantService services.AssistantService
	logger           *zap.Logger
}

// NewAssistantHandler creates a new assistant handler.
func NewAssistantHandler(assistantService services.AssistantService, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService, logger: logger}
}

// RegisterRoutes registers the assistant handler's routes on the given mux.
func (h *AssistantHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /assistant/chat", h.Chat)
}

// Chat handles POST /assistant/chat. Upstream failures split by cause: 500
// when the assistant is unconfigured, 504 on run timeout, 502 otherwise.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if !ValidatePayload(w, h.logger, &req) {
		return
	}

	reply, threadID, err := h.assistantService.Chat(r.Context(), req.Message, req.ThreadID)
	if err != nil {
		h.respondChatError(w, err)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ChatResponse{Reply: reply, ThreadID: threadID}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *AssistantHandler) respondChatError(w http.ResponseWriter, err error) {
	var writeErr error
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		writeErr = ErrorResponse(w, http.StatusForbidden, "chat_disabled", "Chat assistant is disabled")
	case errors.Is(err, apperrors.ErrInvalidInput):
		writeErr = ErrorResponse(w, http.StatusBadRequest, "invalid_thread_id", "Invalid thread_id format")
	case errors.Is(err, llm.ErrNotConfigured):
		writeErr = ErrorResponse(w, http.StatusInternalServerError, "assistant_not_configured", "Chat assistant is not configured.")
	case errors.Is(err, llm.ErrRunTimeout):
		writeErr = ErrorResponse(w, http.StatusGatewayTimeout, "assistant_timeout", "Assistant run timed out")
	default:
		h.logger.Error("Assistant chat failed", zap.Error(err))
		writeErr = ErrorResponse(w, http.StatusBadGateway, "assistant_error", "Assistant request failed")
	}
	if writeErr != nil {
		h.logger.Error("Failed to write error response", zap.Error(writeErr))
	}
}
