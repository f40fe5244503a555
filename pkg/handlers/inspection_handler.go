package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// UpdateInspectionStatusRequest for PATCH /inspections/{id}/status
type UpdateInspectionStatusRequest struct {
	Status string `json:"status"`
}

// ReplaceInspectionCodesRequest for POST /inspections/{id}/codes
type ReplaceInspectionCodesRequest struct {
	CodeIDs []int64 `json:"code_ids"`
}

// InspectionHandler handles inspection HTTP requests, covering complaints
// and license/permit inspections alike.
type InspectionHandler struct {
	inspectionService services.InspectionService
	logger            *zap.Logger
}

// NewInspectionHandler creates a new inspection handler.
func NewInspectionHandler(inspectionService services.InspectionService, logger *zap.Logger) *InspectionHandler {
	return &InspectionHandler{inspectionService: inspectionService, logger: logger}
}

// RegisterRoutes registers the inspection handler's routes on the given mux.
func (h *InspectionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /inspections/{$}", h.List)
	mux.HandleFunc("POST /inspections/{$}", h.Create)
	mux.HandleFunc("GET /inspections/{id}", h.Get)
	mux.HandleFunc("PUT /inspections/{id}", h.Update)
	mux.HandleFunc("PATCH /inspections/{id}/status", h.UpdateStatus)
	mux.HandleFunc("GET /inspections/{id}/codes", h.ListCodes)
	mux.HandleFunc("POST /inspections/{id}/codes", h.ReplaceCodes)
}

// List handles GET /inspections/
func (h *InspectionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repositories.InspectionFilter{
		Source: r.URL.Query().Get("source"),
		Status: r.URL.Query().Get("status"),
	}

	inspections, err := h.inspectionService.List(r.Context(), filter, ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list inspections", zap.Error(err))
		RespondError(w, h.logger, err, "inspections_not_found", "Inspections not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, inspections); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /inspections/
func (h *InspectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var inspection models.Inspection
	if err := json.NewDecoder(r.Body).Decode(&inspection); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.inspectionService.Create(r.Context(), &inspection); err != nil {
		h.logger.Error("Failed to create inspection", zap.Error(err))
		RespondError(w, h.logger, err, "address_not_found", "Address not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, &inspection); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /inspections/{id}
func (h *InspectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	inspection, err := h.inspectionService.GetByID(r.Context(), inspectionID)
	if err != nil {
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, inspection); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /inspections/{id}
func (h *InspectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var update services.InspectionUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	inspection, err := h.inspectionService.Update(r.Context(), inspectionID, &update)
	if err != nil {
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, inspection); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateStatus handles PATCH /inspections/{id}/status
func (h *InspectionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateInspectionStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	inspection, err := h.inspectionService.UpdateStatus(r.Context(), inspectionID, req.Status)
	if err != nil {
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, inspection); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListCodes handles GET /inspections/{id}/codes
func (h *InspectionHandler) ListCodes(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	codes, err := h.inspectionService.ListCodes(r.Context(), inspectionID)
	if err != nil {
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, codes); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ReplaceCodes handles POST /inspections/{id}/codes, replacing the whole
// associated set.
func (h *InspectionHandler) ReplaceCodes(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req ReplaceInspectionCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	codes, err := h.inspectionService.ReplaceCodes(r.Context(), inspectionID, req.CodeIDs)
	if err != nil {
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, codes); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
