package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// CreateViolationRequest for POST /violations/
type CreateViolationRequest struct {
	models.Violation
	CodeIDs []int64 `json:"code_ids"`
}

// UpdateViolationStatusRequest for PATCH /violation/{id}/status
type UpdateViolationStatusRequest struct {
	Status int `json:"status"`
}

// ViolationHandler handles violation HTTP requests. The singular /violation
// paths mirror the plural ones; both shapes are part of the public surface.
type ViolationHandler struct {
	violationService services.ViolationService
	citations        repositories.CitationRepository
	logger           *zap.Logger
}

// NewViolationHandler creates a new violation handler.
func NewViolationHandler(
	violationService services.ViolationService,
	citations repositories.CitationRepository,
	logger *zap.Logger,
) *ViolationHandler {
	return &ViolationHandler{
		violationService: violationService,
		citations:        citations,
		logger:           logger,
	}
}

// RegisterRoutes registers the violation handler's routes on the given mux.
func (h *ViolationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /violations/{$}", h.List)
	mux.HandleFunc("POST /violations/{$}", h.Create)
	mux.HandleFunc("GET /violations/search", h.Search)
	mux.HandleFunc("DELETE /violations/{id}", h.Delete)
	mux.HandleFunc("GET /violations/address/{address_id}", h.ListByAddress)
	mux.HandleFunc("GET /violation/{id}", h.Get)
	mux.HandleFunc("PUT /violation/{id}", h.Update)
	mux.HandleFunc("PATCH /violation/{id}/status", h.UpdateStatus)
	mux.HandleFunc("GET /violation/{id}/citations", h.ListCitations)
}

// List handles GET /violations/
func (h *ViolationHandler) List(w http.ResponseWriter, r *http.Request) {
	violations, err := h.violationService.List(r.Context(), ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list violations", zap.Error(err))
		RespondError(w, h.logger, err, "violations_not_found", "Violations not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, violations); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /violations/
func (h *ViolationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateViolationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	violation, err := h.violationService.Create(r.Context(), &req.Violation, req.CodeIDs)
	if err != nil {
		h.logger.Error("Failed to create violation", zap.Error(err))
		RespondError(w, h.logger, err, "violation_not_found", "Violation not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, violation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Search handles GET /violations/search
func (h *ViolationHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	violations, err := h.violationService.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to search violations", zap.String("query", query), zap.Error(err))
		RespondError(w, h.logger, err, "violations_not_found", "Violations not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, violations); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /violation/{id}
func (h *ViolationHandler) Get(w http.ResponseWriter, r *http.Request) {
	violationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	violation, err := h.violationService.GetByID(r.Context(), violationID)
	if err != nil {
		RespondError(w, h.logger, err, "violation_not_found", "Violation not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, violation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /violation/{id}
func (h *ViolationHandler) Update(w http.ResponseWriter, r *http.Request) {
	violationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var update services.ViolationUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	violation, err := h.violationService.Update(r.Context(), violationID, &update)
	if err != nil {
		RespondError(w, h.logger, err, "violation_not_found", "Violation not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, violation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateStatus handles PATCH /violation/{id}/status
func (h *ViolationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	violationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateViolationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	violation, err := h.violationService.UpdateStatus(r.Context(), violationID, req.Status)
	if err != nil {
		RespondError(w, h.logger, err, "violation_not_found", "Violation not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, violation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /violations/{id}. Citations referencing the
// violation block deletion with a 400.
func (h *ViolationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	violationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.violationService.Delete(r.Context(), violationID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if err := ErrorResponse(w, http.StatusBadRequest, "violation_in_use", "Violation has citations and cannot be deleted"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		RespondError(w, h.logger, err, "violation_not_found", "Violation not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByAddress handles GET /violations/address/{address_id}. No parent
// check: an absent address yields an empty list.
func (h *ViolationHandler) ListByAddress(w http.ResponseWriter, r *http.Request) {
	addressID, ok := ParsePathID(w, r, "address_id", h.logger)
	if !ok {
		return
	}

	violations, err := h.violationService.ListByAddress(r.Context(), addressID)
	if err != nil {
		h.logger.Error("Failed to list violations by address", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "violations_not_found", "Violations not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, violations); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListCitations handles GET /violation/{id}/citations. An absent violation
// yields an empty list, not a 404.
func (h *ViolationHandler) ListCitations(w http.ResponseWriter, r *http.Request) {
	violationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	citations, err := h.citations.ListByViolation(r.Context(), violationID)
	if err != nil {
		h.logger.Error("Failed to list violation citations", zap.Int64("violation_id", violationID), zap.Error(err))
		RespondError(w, h.logger, err, "citations_not_found", "Citations not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, citations); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
