package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// LicenseHandler handles license HTTP requests.
type LicenseHandler struct {
	licenseService services.LicenseService
	logger         *zap.Logger
}

// NewLicenseHandler creates a new license handler.
func NewLicenseHandler(licenseService services.LicenseService, logger *zap.Logger) *LicenseHandler {
	return &LicenseHandler{licenseService: licenseService, logger: logger}
}

// RegisterRoutes registers the license handler's routes on the given mux.
func (h *LicenseHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /licenses/{$}", h.List)
	mux.HandleFunc("POST /licenses/{$}", h.Create)
	mux.HandleFunc("GET /licenses/{id}", h.Get)
	mux.HandleFunc("PUT /licenses/{id}", h.Update)
	mux.HandleFunc("DELETE /licenses/{id}", h.Delete)
}

// List handles GET /licenses/
func (h *LicenseHandler) List(w http.ResponseWriter, r *http.Request) {
	licenses, err := h.licenseService.List(r.Context(), ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list licenses", zap.Error(err))
		RespondError(w, h.logger, err, "licenses_not_found", "Licenses not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, licenses); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /licenses/. Creation is idempotent per inspection and
// rejects duplicate license numbers with a 409.
func (h *LicenseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.LicenseCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	license, err := h.licenseService.Create(r.Context(), &input)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if err := ErrorResponse(w, http.StatusConflict, "license_number_taken", "License number already in use"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to create license", zap.Error(err))
		RespondError(w, h.logger, err, "inspection_not_found", "Inspection not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, license); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /licenses/{id}
func (h *LicenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	license, err := h.licenseService.GetByID(r.Context(), licenseID)
	if err != nil {
		RespondError(w, h.logger, err, "license_not_found", "License not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, license); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /licenses/{id}
func (h *LicenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	var update services.LicenseUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	license, err := h.licenseService.Update(r.Context(), licenseID, &update)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if err := ErrorResponse(w, http.StatusConflict, "license_number_taken", "License number already in use"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		RespondError(w, h.logger, err, "license_not_found", "License not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, license); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /licenses/{id}. Rows referenced elsewhere block
// deletion with a 400.
func (h *LicenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	licenseID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.licenseService.Delete(r.Context(), licenseID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if err := ErrorResponse(w, http.StatusBadRequest, "license_in_use", "License is referenced and cannot be deleted"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		RespondError(w, h.logger, err, "license_not_found", "License not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
