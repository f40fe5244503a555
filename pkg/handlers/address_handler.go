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

// searchResultCap bounds address search responses.
const searchResultCap = 20

// AddressHandler handles address and unit HTTP requests, including the
// nested listings hung off an address.
type AddressHandler struct {
	addresses   repositories.AddressRepository
	comments    services.CommentService
	violations  services.ViolationService
	inspections services.InspectionService
	logger      *zap.Logger
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(
	addresses repositories.AddressRepository,
	comments services.CommentService,
	violations services.ViolationService,
	inspections services.InspectionService,
	logger *zap.Logger,
) *AddressHandler {
	return &AddressHandler{
		addresses:   addresses,
		comments:    comments,
		violations:  violations,
		inspections: inspections,
		logger:      logger,
	}
}

// RegisterRoutes registers the address handler's routes on the given mux.
func (h *AddressHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /addresses/{$}", h.List)
	mux.HandleFunc("POST /addresses/{$}", h.Create)
	mux.HandleFunc("GET /addresses/search", h.Search)
	mux.HandleFunc("GET /addresses/{id}", h.Get)
	mux.HandleFunc("PUT /addresses/{id}", h.Update)
	mux.HandleFunc("DELETE /addresses/{id}", h.Delete)
	mux.HandleFunc("GET /addresses/{id}/comments", h.ListComments)
	mux.HandleFunc("POST /addresses/{id}/comments", h.CreateComment)
	mux.HandleFunc("PUT /addresses/{id}/comments/{comment_id}", h.UpdateComment)
	mux.HandleFunc("DELETE /addresses/{id}/comments/{comment_id}", h.DeleteComment)
	mux.HandleFunc("GET /addresses/{id}/violations", h.ListViolations)
	mux.HandleFunc("POST /addresses/{id}/violations", h.CreateViolation)
	mux.HandleFunc("PUT /addresses/{id}/violations/{violation_id}", h.UpdateViolation)
	mux.HandleFunc("DELETE /addresses/{id}/violations/{violation_id}", h.DeleteViolation)
	mux.HandleFunc("GET /addresses/{id}/inspections", h.ListInspections)
	mux.HandleFunc("POST /addresses/{id}/inspections", h.CreateInspection)
	mux.HandleFunc("PUT /addresses/{id}/inspections/{inspection_id}", h.UpdateInspection)
	mux.HandleFunc("DELETE /addresses/{id}/inspections/{inspection_id}", h.DeleteInspection)
	mux.HandleFunc("GET /addresses/{id}/units", h.ListUnits)
	mux.HandleFunc("POST /addresses/{id}/units", h.CreateUnit)
	mux.HandleFunc("GET /addresses/{id}/units/{unit_id}", h.GetUnitUnderAddress)
	mux.HandleFunc("GET /units/{id}", h.GetUnit)
}

// List handles GET /addresses/
func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request) {
	addresses, err := h.addresses.List(r.Context(), ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list addresses", zap.Error(err))
		RespondError(w, h.logger, err, "addresses_not_found", "Addresses not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, addresses); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /addresses/
func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request) {
	var address models.Address
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.addresses.Create(r.Context(), &address); err != nil {
		h.logger.Error("Failed to create address", zap.Error(err))
		RespondError(w, h.logger, err, "address_not_found", "Address not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, &address); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Search handles GET /addresses/search
func (h *AddressHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	addresses, err := h.addresses.Search(r.Context(), query, searchResultCap)
	if err != nil {
		h.logger.Error("Failed to search addresses", zap.String("query", query), zap.Error(err))
		RespondError(w, h.logger, err, "addresses_not_found", "Addresses not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, addresses); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /addresses/{id}
func (h *AddressHandler) Get(w http.ResponseWriter, r *http.Request) {
	addressID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	address, err := h.addresses.GetByID(r.Context(), addressID)
	if err != nil {
		RespondError(w, h.logger, err, "address_not_found", "Address not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, address); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /addresses/{id}
func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request) {
	addressID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	address, err := h.addresses.GetByID(r.Context(), addressID)
	if err != nil {
		RespondError(w, h.logger, err, "address_not_found", "Address not found")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(address); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	address.ID = addressID

	if err := h.addresses.Update(r.Context(), address); err != nil {
		h.logger.Error("Failed to update address", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "address_not_found", "Address not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, address); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /addresses/{id}
func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request) {
	addressID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.addresses.Delete(r.Context(), addressID); err != nil {
		RespondError(w, h.logger, err, "address_not_found", "Address not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListComments handles GET /addresses/{id}/comments
func (h *AddressHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}

	comments, err := h.comments.ListByAddress(r.Context(), addressID)
	if err != nil {
		h.logger.Error("Failed to list address comments", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "comments_not_found", "Comments not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, comments); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateComment handles POST /addresses/{id}/comments
func (h *AddressHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}

	var comment models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	comment.AddressID = addressID

	created, err := h.comments.Create(r.Context(), &comment)
	if err != nil {
		h.logger.Error("Failed to create address comment", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "comment_not_found", "Comment not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, created); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateComment handles PUT /addresses/{id}/comments/{comment_id}
func (h *AddressHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}
	commentID, ok := h.requireCommentUnderAddress(w, r, addressID)
	if !ok {
		return
	}

	var req UpdateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	comment, err := h.comments.Update(r.Context(), commentID, req.Content, req.UnitID)
	if err != nil {
		h.logger.Error("Failed to update address comment", zap.Int64("comment_id", commentID), zap.Error(err))
		RespondError(w, h.logger, err, "comment_not_found", "Comment not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, comment); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteComment handles DELETE /addresses/{id}/comments/{comment_id}
func (h *AddressHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}
	commentID, ok := h.requireCommentUnderAddress(w, r, addressID)
	if !ok {
		return
	}

	if err := h.comments.Delete(r.Context(), commentID); err != nil {
		RespondError(w, h.logger, err, "comment_not_found", "Comment not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListViolations handles GET /addresses/{id}/violations
func (h *AddressHandler) ListViolations(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}

	violations, err := h.violations.ListByAddress(r.Context(), addressID)
	if err != nil {
		h.logger.Error("Failed to list address violations", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "violations_not_found", "Violations not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, violations); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateViolation handles POST /addresses/{id}/violations
func (h *AddressHandler) CreateViolation(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}

	var req CreateViolationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	req.Violation.AddressID = addressID
	if req.Violation.ViolationType == "" {
		req.Violation.ViolationType = "doorhanger"
	}

	violation, err := h.violations.Create(r.Context(), &req.Violation, req.CodeIDs)
	if err != nil {
		h.logger.Error("Failed to create address violation", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "violation_not_found", "Violation not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, violation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateViolation handles PUT /addresses/{id}/violations/{violation_id}
func (h *AddressHandler) UpdateViolation(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}
	violationID, ok := h.requireViolationUnderAddress(w, r, addressID)
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

	violation, err := h.violations.Update(r.Context(), violationID, &update)
	if err != nil {
		h.logger.Error("Failed to update address violation", zap.Int64("violation_id", violationID), zap.Error(err))
		RespondError(w, h.logger, err, "violation_not_found", "Violation not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, violation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteViolation handles DELETE /addresses/{id}/violations/{violation_id}
func (h *AddressHandler) DeleteViolation(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}
	violationID, ok := h.requireViolationUnderAddress(w, r, addressID)
	if !ok {
		return
	}

	if err := h.violations.Delete(r.Context(), violationID); err != nil {
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

// ListInspections handles GET /addresses/{id}/inspections
func (h *AddressHandler) ListInspections(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}

	inspections, err := h.inspections.ListByAddress(r.Context(), addressID, r.URL.Query().Get("source"))
	if err != nil {
		h.logger.Error("Failed to list address inspections", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "inspections_not_found", "Inspections not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, inspections); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateInspection handles POST /addresses/{id}/inspections
func (h *AddressHandler) CreateInspection(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}

	var inspection models.Inspection
	if err := json.NewDecoder(r.Body).Decode(&inspection); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	inspection.AddressID = addressID

	if err := h.inspections.Create(r.Context(), &inspection); err != nil {
		h.logger.Error("Failed to create address inspection", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, &inspection); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UpdateInspection handles PUT /addresses/{id}/inspections/{inspection_id}
func (h *AddressHandler) UpdateInspection(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}
	inspectionID, ok := h.requireInspectionUnderAddress(w, r, addressID)
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

	inspection, err := h.inspections.Update(r.Context(), inspectionID, &update)
	if err != nil {
		h.logger.Error("Failed to update address inspection", zap.Int64("inspection_id", inspectionID), zap.Error(err))
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, inspection); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// DeleteInspection handles DELETE /addresses/{id}/inspections/{inspection_id}
func (h *AddressHandler) DeleteInspection(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}
	inspectionID, ok := h.requireInspectionUnderAddress(w, r, addressID)
	if !ok {
		return
	}

	if err := h.inspections.Delete(r.Context(), inspectionID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if err := ErrorResponse(w, http.StatusBadRequest, "inspection_in_use", "Inspection is referenced and cannot be deleted"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListUnits handles GET /addresses/{id}/units
func (h *AddressHandler) ListUnits(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}

	units, err := h.addresses.ListUnits(r.Context(), addressID)
	if err != nil {
		h.logger.Error("Failed to list units", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "units_not_found", "Units not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, units); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateUnit handles POST /addresses/{id}/units
func (h *AddressHandler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	addressID, ok := h.requireAddress(w, r)
	if !ok {
		return
	}

	var unit models.Unit
	if err := json.NewDecoder(r.Body).Decode(&unit); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	unit.AddressID = addressID

	if err := h.addresses.CreateUnit(r.Context(), &unit); err != nil {
		h.logger.Error("Failed to create unit", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "address_not_found", "Address not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, &unit); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetUnitUnderAddress handles GET /addresses/{id}/units/{unit_id}
func (h *AddressHandler) GetUnitUnderAddress(w http.ResponseWriter, r *http.Request) {
	addressID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}
	unitID, ok := ParsePathID(w, r, "unit_id", h.logger)
	if !ok {
		return
	}

	unit, err := h.addresses.GetUnitUnderAddress(r.Context(), addressID, unitID)
	if err != nil {
		RespondError(w, h.logger, err, "unit_not_found", "Unit not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, unit); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// GetUnit handles GET /units/{id}
func (h *AddressHandler) GetUnit(w http.ResponseWriter, r *http.Request) {
	unitID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	unit, err := h.addresses.GetUnit(r.Context(), unitID)
	if err != nil {
		RespondError(w, h.logger, err, "unit_not_found", "Unit not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, unit); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// requireAddress parses the id path parameter and 404s when the address row
// is absent, returning the id and whether to proceed.
func (h *AddressHandler) requireAddress(w http.ResponseWriter, r *http.Request) (int64, bool) {
	addressID, ok := ParseID(w, r, h.logger)
	if !ok {
		return 0, false
	}

	if _, err := h.addresses.GetByID(r.Context(), addressID); err != nil {
		RespondError(w, h.logger, err, "address_not_found", "Address not found")
		return 0, false
	}

	return addressID, true
}

// requireCommentUnderAddress parses the comment_id path parameter and 404s
// unless the comment exists and belongs to the given address.
func (h *AddressHandler) requireCommentUnderAddress(w http.ResponseWriter, r *http.Request, addressID int64) (int64, bool) {
	commentID, ok := ParsePathID(w, r, "comment_id", h.logger)
	if !ok {
		return 0, false
	}

	comment, err := h.comments.GetByID(r.Context(), commentID)
	if err != nil || comment.AddressID != addressID {
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			h.logger.Error("Failed to load comment", zap.Int64("comment_id", commentID), zap.Error(err))
		}
		if err == nil {
			err = apperrors.ErrNotFound
		}
		RespondError(w, h.logger, err, "comment_not_found", "Comment not found")
		return 0, false
	}

	return commentID, true
}

// requireViolationUnderAddress parses the violation_id path parameter and
// 404s unless the violation exists and belongs to the given address.
func (h *AddressHandler) requireViolationUnderAddress(w http.ResponseWriter, r *http.Request, addressID int64) (int64, bool) {
	violationID, ok := ParsePathID(w, r, "violation_id", h.logger)
	if !ok {
		return 0, false
	}

	violation, err := h.violations.GetByID(r.Context(), violationID)
	if err != nil || violation.AddressID != addressID {
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			h.logger.Error("Failed to load violation", zap.Int64("violation_id", violationID), zap.Error(err))
		}
		if err == nil {
			err = apperrors.ErrNotFound
		}
		RespondError(w, h.logger, err, "violation_not_found", "Violation not found")
		return 0, false
	}

	return violationID, true
}

// requireInspectionUnderAddress parses the inspection_id path parameter and
// 404s unless the inspection exists and belongs to the given address.
func (h *AddressHandler) requireInspectionUnderAddress(w http.ResponseWriter, r *http.Request, addressID int64) (int64, bool) {
	inspectionID, ok := ParsePathID(w, r, "inspection_id", h.logger)
	if !ok {
		return 0, false
	}

	inspection, err := h.inspections.GetByID(r.Context(), inspectionID)
	if err != nil || inspection.AddressID != addressID {
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			h.logger.Error("Failed to load inspection", zap.Int64("inspection_id", inspectionID), zap.Error(err))
		}
		if err == nil {
			err = apperrors.ErrNotFound
		}
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return 0, false
	}

	return inspectionID, true
}
