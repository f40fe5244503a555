package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/auth"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// CreateNotificationRequest for POST /notifications/
type CreateNotificationRequest struct {
	Title        string `json:"title"`
	Body         string `json:"body"`
	InspectionID *int64 `json:"inspection_id"`
	UserID       int64  `json:"user_id"`
}

// MarkAllReadResponse for PATCH /notifications/read-all
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// NotificationHandler handles notification HTTP requests. Every route runs
// behind auth and every id-scoped route is owner-scoped: another user's row
// is indistinguishable from a missing one.
type NotificationHandler struct {
	notificationService services.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(notificationService services.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, logger: logger}
}

// RegisterRoutes registers the notification handler's routes on the given mux.
func (h *NotificationHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /notifications/{$}", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /notifications/{$}", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("PATCH /notifications/read-all", authMiddleware.RequireAuth(h.MarkAllRead))
	mux.HandleFunc("GET /notifications/{id}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("PATCH /notifications/{id}/read", authMiddleware.RequireAuth(h.MarkRead))
	mux.HandleFunc("DELETE /notifications/{id}", authMiddleware.RequireAuth(h.Delete))
}

func (h *NotificationHandler) caller(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid auth token"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return userID, true
}

// List handles GET /notifications/
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	notifications, err := h.notificationService.List(r.Context(), callerID, ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list notifications", zap.Int64("user_id", callerID), zap.Error(err))
		RespondError(w, h.logger, err, "notifications_not_found", "Notifications not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, notifications); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /notifications/. Users may only create notifications
// for themselves; the inspection and target user must exist.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req CreateNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	notification := &models.Notification{
		Title:        req.Title,
		Body:         req.Body,
		InspectionID: req.InspectionID,
		UserID:       req.UserID,
	}

	if err := h.notificationService.Create(r.Context(), callerID, notification); err != nil {
		RespondError(w, h.logger, err, "not_found", "Inspection or user not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, notification); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /notifications/{id}
func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	notificationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	notification, err := h.notificationService.GetByID(r.Context(), callerID, notificationID)
	if err != nil {
		RespondError(w, h.logger, err, "notification_not_found", "Notification not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, notification); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MarkRead handles PATCH /notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	notificationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(r.Context(), callerID, notificationID)
	if err != nil {
		RespondError(w, h.logger, err, "notification_not_found", "Notification not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, notification); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// MarkAllRead handles PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(r.Context(), callerID)
	if err != nil {
		h.logger.Error("Failed to mark notifications read", zap.Int64("user_id", callerID), zap.Error(err))
		RespondError(w, h.logger, err, "notifications_not_found", "Notifications not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, MarkAllReadResponse{Updated: updated}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /notifications/{id}
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := h.caller(w, r)
	if !ok {
		return
	}
	notificationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.notificationService.Delete(r.Context(), callerID, notificationID); err != nil {
		RespondError(w, h.logger, err, "notification_not_found", "Notification not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
