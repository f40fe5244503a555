package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/auth"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/push"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// SubscribeRequest mirrors the browser PushSubscription JSON.
type SubscribeRequest struct {
	Endpoint       string `json:"endpoint" validate:"required,url"`
	ExpirationTime *int64 `json:"expirationTime"`
	Keys           struct {
		P256DH string `json:"p256dh" validate:"required"`
		Auth   string `json:"auth" validate:"required"`
	} `json:"keys"`
}

// UnsubscribeRequest for DELETE /push/subscriptions
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required"`
}

// PushHandler handles Web Push subscription HTTP requests.
type PushHandler struct {
	subscriptions repositories.PushSubscriptionRepository
	sender        push.Sender
	logger        *zap.Logger
}

// NewPushHandler creates a new push handler.
func NewPushHandler(subscriptions repositories.PushSubscriptionRepository, sender push.Sender, logger *zap.Logger) *PushHandler {
	return &PushHandler{subscriptions: subscriptions, sender: sender, logger: logger}
}

// RegisterRoutes registers the push handler's routes on the given mux.
func (h *PushHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /push/vapid-public-key", h.PublicKey)
	mux.HandleFunc("POST /push/subscriptions", authMiddleware.RequireAuth(h.Subscribe))
	mux.HandleFunc("DELETE /push/subscriptions", authMiddleware.RequireAuth(h.Unsubscribe))
}

// PublicKey handles GET /push/vapid-public-key
func (h *PushHandler) PublicKey(w http.ResponseWriter, r *http.Request) {
	if err := WriteJSON(w, http.StatusOK, map[string]string{
		"public_key": h.sender.PublicKey(),
	}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Subscribe handles POST /push/subscriptions. Subscriptions upsert by
// endpoint, so a browser re-registering under a new login moves over.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid auth token"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if !ValidatePayload(w, h.logger, &req) {
		return
	}

	sub := &models.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256DH:   req.Keys.P256DH,
		Auth:     req.Keys.Auth,
	}
	if ua := r.UserAgent(); ua != "" {
		sub.UserAgent = &ua
	}

	if err := h.subscriptions.Upsert(r.Context(), sub); err != nil {
		h.logger.Error("Failed to save push subscription", zap.Int64("user_id", userID), zap.Error(err))
		RespondError(w, h.logger, err, "subscription_not_found", "Subscription not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, sub); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Unsubscribe handles DELETE /push/subscriptions
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid auth token"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req UnsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if !ValidatePayload(w, h.logger, &req) {
		return
	}

	if err := h.subscriptions.DeleteByEndpoint(r.Context(), userID, req.Endpoint); err != nil {
		RespondError(w, h.logger, err, "subscription_not_found", "Subscription not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
