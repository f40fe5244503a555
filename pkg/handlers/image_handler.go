package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/auth"
	"github.com/civicodehq/civicode-engine/pkg/llm"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// AnalyzeImagesRequest for POST /images/analyze
type AnalyzeImagesRequest struct {
	Images []services.ImageAnalysisInput `json:"images"`
	Prompt string                        `json:"prompt"`
}

// AnalyzeImagesResponse for POST /images/analyze
type AnalyzeImagesResponse struct {
	Result *string `json:"result"`
	Status string  `json:"status"`
}

// ImageHandler handles vision analysis HTTP requests.
type ImageHandler struct {
	imageService services.ImageService
	logger       *zap.Logger
}

// NewImageHandler creates a new image handler.
func NewImageHandler(imageService services.ImageService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{imageService: imageService, logger: logger}
}

// RegisterRoutes registers the image handler's routes on the given mux.
func (h *ImageHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /images/analyze", authMiddleware.RequireAuth(h.Analyze))
}

// Analyze handles POST /images/analyze
func (h *ImageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid auth token"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req AnalyzeImagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	log, err := h.imageService.Analyze(r.Context(), userID, req.Images, req.Prompt)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			if err := ErrorResponse(w, http.StatusInternalServerError, "vision_not_configured", "Image analysis is not configured."); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Image analysis failed", zap.Int64("user_id", userID), zap.Error(err))
		RespondError(w, h.logger, err, "images_not_found", "Images not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, AnalyzeImagesResponse{Result: log.Result, Status: log.Status}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
