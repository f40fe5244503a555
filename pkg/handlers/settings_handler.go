package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/auth"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// ChatSettingResponse for the chat toggle endpoints.
type ChatSettingResponse struct {
	Enabled bool `json:"enabled"`
}

// UpdateChatSettingRequest for PATCH /settings/chat
type UpdateChatSettingRequest struct {
	Enabled bool `json:"enabled"`
}

// SettingsHandler handles application setting HTTP requests, including the
// SSE stream that pushes setting changes to connected clients.
type SettingsHandler struct {
	settingsService services.SettingsService
	logger          *zap.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settingsService services.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, logger: logger}
}

// RegisterRoutes registers the settings handler's routes on the given mux.
func (h *SettingsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /settings/chat", h.GetChat)
	mux.HandleFunc("PATCH /settings/chat", authMiddleware.RequireAuth(h.UpdateChat))
	mux.HandleFunc("GET /settings/stream", h.Stream)
}

// GetChat handles GET /settings/chat
func (h *SettingsHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.settingsService.ChatEnabled(r.Context())
	if err != nil {
		h.logger.Error("Failed to read chat setting", zap.Error(err))
		RespondError(w, h.logger, err, "setting_not_found", "Setting not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ChatSettingResponse{Enabled: enabled}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateChat handles PATCH /settings/chat. Admins only.
func (h *SettingsHandler) UpdateChat(w http.ResponseWriter, r *http.Request) {
	callerID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid auth token"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req UpdateChatSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	enabled, err := h.settingsService.SetChatEnabled(r.Context(), callerID, req.Enabled)
	if err != nil {
		RespondError(w, h.logger, err, "user_not_found", "User not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ChatSettingResponse{Enabled: enabled}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Stream handles GET /settings/stream. Events go out as SSE data frames;
// the subscription drops when the client disconnects.
func (h *SettingsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, unsubscribe := h.settingsService.Broadcaster().Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-events:
			if !open {
				return
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", event); err != nil {
				h.logger.Debug("SSE client write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}
