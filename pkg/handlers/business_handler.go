package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// BusinessHandler handles business HTTP requests.
type BusinessHandler struct {
	businessService services.BusinessService
	logger          *zap.Logger
}

// NewBusinessHandler creates a new business handler.
func NewBusinessHandler(businessService services.BusinessService, logger *zap.Logger) *BusinessHandler {
	return &BusinessHandler{businessService: businessService, logger: logger}
}

// RegisterRoutes registers the business handler's routes on the given mux.
func (h *BusinessHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /businesses/{$}", h.List)
	mux.HandleFunc("POST /businesses/{$}", h.Create)
	mux.HandleFunc("GET /businesses/{id}", h.Get)
	mux.HandleFunc("PUT /businesses/{id}", h.Update)
	mux.HandleFunc("DELETE /businesses/{id}", h.Delete)
}

// List handles GET /businesses/
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.businessService.List(r.Context(), ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list businesses", zap.Error(err))
		RespondError(w, h.logger, err, "businesses_not_found", "Businesses not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, businesses); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /businesses/
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var business models.Business
	if err := json.NewDecoder(r.Body).Decode(&business); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.businessService.Create(r.Context(), &business); err != nil {
		h.logger.Error("Failed to create business", zap.Error(err))
		RespondError(w, h.logger, err, "business_not_found", "Business not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, &business); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /businesses/{id}
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	businessID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	business, err := h.businessService.GetByID(r.Context(), businessID)
	if err != nil {
		RespondError(w, h.logger, err, "business_not_found", "Business not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, business); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /businesses/{id}
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	businessID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	business, err := h.businessService.GetByID(r.Context(), businessID)
	if err != nil {
		RespondError(w, h.logger, err, "business_not_found", "Business not found")
		return
	}
	business.Address = nil

	if err := json.NewDecoder(r.Body).Decode(business); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	business.ID = businessID

	if err := h.businessService.Update(r.Context(), business); err != nil {
		h.logger.Error("Failed to update business", zap.Int64("business_id", businessID), zap.Error(err))
		RespondError(w, h.logger, err, "business_not_found", "Business not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, business); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /businesses/{id}
func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	businessID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.businessService.Delete(r.Context(), businessID); err != nil {
		RespondError(w, h.logger, err, "business_not_found", "Business not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
