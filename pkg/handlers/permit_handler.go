package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// PermitHandler handles permit HTTP requests.
type PermitHandler struct {
	permitService services.PermitService
	logger        *zap.Logger
}

// NewPermitHandler creates a new permit handler.
func NewPermitHandler(permitService services.PermitService, logger *zap.Logger) *PermitHandler {
	return &PermitHandler{permitService: permitService, logger: logger}
}

// RegisterRoutes registers the permit handler's routes on the given mux.
func (h *PermitHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /permits/{$}", h.List)
	mux.HandleFunc("POST /permits/{$}", h.Create)
	mux.HandleFunc("GET /permits/{id}", h.Get)
}

// List handles GET /permits/. An inspection_id query parameter narrows the
// listing to one inspection.
func (h *PermitHandler) List(w http.ResponseWriter, r *http.Request) {
	var inspectionID int64
	if raw := r.URL.Query().Get("inspection_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_inspection_id", "Invalid inspection_id format"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		inspectionID = parsed
	}

	permits, err := h.permitService.List(r.Context(), inspectionID, ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list permits", zap.Error(err))
		RespondError(w, h.logger, err, "permits_not_found", "Permits not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, permits); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /permits/. A new permit returns 201; an inspection
// that already holds one returns its existing permit with a 200.
func (h *PermitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var permit models.Permit
	if err := json.NewDecoder(r.Body).Decode(&permit); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, created, err := h.permitService.Create(r.Context(), &permit)
	if err != nil {
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	if err := WriteJSON(w, status, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /permits/{id}
func (h *PermitHandler) Get(w http.ResponseWriter, r *http.Request) {
	permitID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	permit, err := h.permitService.GetByID(r.Context(), permitID)
	if err != nil {
		RespondError(w, h.logger, err, "permit_not_found", "Permit not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, permit); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
