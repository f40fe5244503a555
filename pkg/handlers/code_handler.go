package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// CodeHandler handles municipal code HTTP requests.
type CodeHandler struct {
	codes  repositories.CodeRepository
	logger *zap.Logger
}

// NewCodeHandler creates a new code handler.
func NewCodeHandler(codes repositories.CodeRepository, logger *zap.Logger) *CodeHandler {
	return &CodeHandler{codes: codes, logger: logger}
}

// RegisterRoutes registers the code handler's routes on the given mux.
func (h *CodeHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /codes/{$}", h.List)
	mux.HandleFunc("POST /codes/{$}", h.Create)
	mux.HandleFunc("GET /codes/search", h.Search)
	mux.HandleFunc("GET /codes/{id}", h.Get)
	mux.HandleFunc("PUT /codes/{id}", h.Update)
	mux.HandleFunc("DELETE /codes/{id}", h.Delete)
}

// List handles GET /codes/
func (h *CodeHandler) List(w http.ResponseWriter, r *http.Request) {
	codes, err := h.codes.List(r.Context(), ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list codes", zap.Error(err))
		RespondError(w, h.logger, err, "codes_not_found", "Codes not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, codes); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /codes/
func (h *CodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var code models.Code
	if err := json.NewDecoder(r.Body).Decode(&code); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.codes.Create(r.Context(), &code); err != nil {
		h.logger.Error("Failed to create code", zap.Error(err))
		RespondError(w, h.logger, err, "code_not_found", "Code not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, &code); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Search handles GET /codes/search
func (h *CodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	codes, err := h.codes.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to search codes", zap.String("query", query), zap.Error(err))
		RespondError(w, h.logger, err, "codes_not_found", "Codes not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, codes); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /codes/{id}
func (h *CodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	codeID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	code, err := h.codes.GetByID(r.Context(), codeID)
	if err != nil {
		RespondError(w, h.logger, err, "code_not_found", "Code not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, code); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /codes/{id}
func (h *CodeHandler) Update(w http.ResponseWriter, r *http.Request) {
	codeID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	code, err := h.codes.GetByID(r.Context(), codeID)
	if err != nil {
		RespondError(w, h.logger, err, "code_not_found", "Code not found")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(code); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	code.ID = codeID

	if err := h.codes.Update(r.Context(), code); err != nil {
		h.logger.Error("Failed to update code", zap.Int64("code_id", codeID), zap.Error(err))
		RespondError(w, h.logger, err, "code_not_found", "Code not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, code); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /codes/{id}
func (h *CodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	codeID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.codes.Delete(r.Context(), codeID); err != nil {
		RespondError(w, h.logger, err, "code_not_found", "Code not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
