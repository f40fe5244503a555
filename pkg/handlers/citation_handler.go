package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// CitationHandler handles citation HTTP requests.
type CitationHandler struct {
	citations repositories.CitationRepository
	logger    *zap.Logger
}

// NewCitationHandler creates a new citation handler.
func NewCitationHandler(citations repositories.CitationRepository, logger *zap.Logger) *CitationHandler {
	return &CitationHandler{citations: citations, logger: logger}
}

// RegisterRoutes registers the citation handler's routes on the given mux.
func (h *CitationHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /citations/{$}", h.List)
	mux.HandleFunc("POST /citations/{$}", h.Create)
	mux.HandleFunc("GET /citations/{id}", h.Get)
	mux.HandleFunc("PUT /citations/{id}", h.Update)
	mux.HandleFunc("DELETE /citations/{id}", h.Delete)
	mux.HandleFunc("GET /citations/violation/{violation_id}", h.ListByViolation)
}

// List handles GET /citations/
func (h *CitationHandler) List(w http.ResponseWriter, r *http.Request) {
	citations, err := h.citations.List(r.Context(), ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list citations", zap.Error(err))
		RespondError(w, h.logger, err, "citations_not_found", "Citations not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, citations); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /citations/
func (h *CitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var citation models.Citation
	if err := json.NewDecoder(r.Body).Decode(&citation); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.citations.Create(r.Context(), &citation); err != nil {
		h.logger.Error("Failed to create citation", zap.Error(err))
		RespondError(w, h.logger, err, "citation_not_found", "Citation not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, &citation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /citations/{id}
func (h *CitationHandler) Get(w http.ResponseWriter, r *http.Request) {
	citationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	citation, err := h.citations.GetByID(r.Context(), citationID)
	if err != nil {
		RespondError(w, h.logger, err, "citation_not_found", "Citation not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, citation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /citations/{id}
func (h *CitationHandler) Update(w http.ResponseWriter, r *http.Request) {
	citationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	citation, err := h.citations.GetByID(r.Context(), citationID)
	if err != nil {
		RespondError(w, h.logger, err, "citation_not_found", "Citation not found")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(citation); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	citation.ID = citationID

	if err := h.citations.Update(r.Context(), citation); err != nil {
		h.logger.Error("Failed to update citation", zap.Int64("citation_id", citationID), zap.Error(err))
		RespondError(w, h.logger, err, "citation_not_found", "Citation not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, citation); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /citations/{id}
func (h *CitationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	citationID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.citations.Delete(r.Context(), citationID); err != nil {
		RespondError(w, h.logger, err, "citation_not_found", "Citation not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByViolation handles GET /citations/violation/{violation_id}
func (h *CitationHandler) ListByViolation(w http.ResponseWriter, r *http.Request) {
	violationID, ok := ParsePathID(w, r, "violation_id", h.logger)
	if !ok {
		return
	}

	citations, err := h.citations.ListByViolation(r.Context(), violationID)
	if err != nil {
		h.logger.Error("Failed to list citations by violation", zap.Int64("violation_id", violationID), zap.Error(err))
		RespondError(w, h.logger, err, "citations_not_found", "Citations not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, citations); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
