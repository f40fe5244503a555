package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// ContactHandler handles contact HTTP requests. Hidden contacts stay out of
// listings and search but remain fetchable by id.
type ContactHandler struct {
	contacts repositories.ContactRepository
	logger   *zap.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contacts repositories.ContactRepository, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

// RegisterRoutes registers the contact handler's routes on the given mux.
func (h *ContactHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /contacts/{$}", h.List)
	mux.HandleFunc("POST /contacts/{$}", h.Create)
	mux.HandleFunc("GET /contacts/search", h.Search)
	mux.HandleFunc("GET /contacts/{id}", h.Get)
	mux.HandleFunc("PUT /contacts/{id}", h.Update)
	mux.HandleFunc("DELETE /contacts/{id}", h.Delete)
}

// List handles GET /contacts/
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context(), ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list contacts", zap.Error(err))
		RespondError(w, h.logger, err, "contacts_not_found", "Contacts not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, contacts); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /contacts/
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var contact models.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.contacts.Create(r.Context(), &contact); err != nil {
		h.logger.Error("Failed to create contact", zap.Error(err))
		RespondError(w, h.logger, err, "contact_not_found", "Contact not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, &contact); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Search handles GET /contacts/search
func (h *ContactHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")

	contacts, err := h.contacts.Search(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to search contacts", zap.String("query", query), zap.Error(err))
		RespondError(w, h.logger, err, "contacts_not_found", "Contacts not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, contacts); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /contacts/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contactID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), contactID)
	if err != nil {
		RespondError(w, h.logger, err, "contact_not_found", "Contact not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, contact); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /contacts/{id}
func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	contactID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), contactID)
	if err != nil {
		RespondError(w, h.logger, err, "contact_not_found", "Contact not found")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(contact); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	contact.ID = contactID

	if err := h.contacts.Update(r.Context(), contact); err != nil {
		h.logger.Error("Failed to update contact", zap.Int64("contact_id", contactID), zap.Error(err))
		RespondError(w, h.logger, err, "contact_not_found", "Contact not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, contact); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /contacts/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	contactID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.contacts.Delete(r.Context(), contactID); err != nil {
		RespondError(w, h.logger, err, "contact_not_found", "Contact not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
