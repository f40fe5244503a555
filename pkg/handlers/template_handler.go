package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/auth"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/repositories"
)

// maxTemplateBytes bounds an uploaded template document.
const maxTemplateBytes = 10 << 20

// unsafeFilenameChars matches everything stripped out of uploaded filenames.
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// TemplateHandler handles document template HTTP requests. Templates are
// uploaded .docx notices; rendering them happens outside this service.
type TemplateHandler struct {
	templates repositories.TemplateRepository
	logger    *zap.Logger
}

// NewTemplateHandler creates a new template handler.
func NewTemplateHandler(templates repositories.TemplateRepository, logger *zap.Logger) *TemplateHandler {
	return &TemplateHandler{templates: templates, logger: logger}
}

// RegisterRoutes registers the template handler's routes on the given mux.
func (h *TemplateHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /templates/{$}", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /templates/{$}", authMiddleware.RequireAuth(h.Upload))
	mux.HandleFunc("GET /templates/{id}/download", authMiddleware.RequireAuth(h.Download))
	mux.HandleFunc("DELETE /templates/{id}", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /templates/. A category query parameter narrows the
// listing; content bytes are never included.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category != "" && !models.IsValidTemplateCategory(category) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_category", "Invalid template category"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	templates, err := h.templates.List(r.Context(), category)
	if err != nil {
		h.logger.Error("Failed to list templates", zap.Error(err))
		RespondError(w, h.logger, err, "templates_not_found", "Templates not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, templates); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Upload handles POST /templates/. Multipart form with a "file" field plus
// name, category and optional license_type fields.
func (h *TemplateHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxTemplateBytes); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid multipart body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	category := r.FormValue("category")
	if !models.IsValidTemplateCategory(category) {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_category", "Invalid template category"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "no_file", "No file uploaded"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !strings.HasSuffix(strings.ToLower(filename), ".docx") {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_file_type", "Only .docx templates are accepted"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if header.Size > maxTemplateBytes {
		if err := ErrorResponse(w, http.StatusBadRequest, "file_too_large", "Template exceeds the 10MB limit"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, maxTemplateBytes+1))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_file", "Could not read uploaded file"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	if len(content) > maxTemplateBytes {
		if err := ErrorResponse(w, http.StatusBadRequest, "file_too_large", "Template exceeds the 10MB limit"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	template := &models.DocumentTemplate{
		Name:     name,
		Category: category,
		Filename: filename,
		Content:  content,
	}
	if raw := r.FormValue("license_type"); raw != "" {
		licenseType, err := strconv.Atoi(raw)
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_license_type", "Invalid license_type format"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		template.LicenseType = &licenseType
	}

	if err := h.templates.Create(r.Context(), template); err != nil {
		h.logger.Error("Failed to save template", zap.String("filename", filename), zap.Error(err))
		RespondError(w, h.logger, err, "template_not_found", "Template not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, template); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Download handles GET /templates/{id}/download
func (h *TemplateHandler) Download(w http.ResponseWriter, r *http.Request) {
	templateID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	template, err := h.templates.GetByID(r.Context(), templateID)
	if err != nil {
		RespondError(w, h.logger, err, "template_not_found", "Template not found")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", template.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(template.Content)))
	if _, err := w.Write(template.Content); err != nil {
		h.logger.Debug("Template download aborted", zap.Int64("template_id", templateID), zap.Error(err))
	}
}

// Delete handles DELETE /templates/{id}
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	templateID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.templates.Delete(r.Context(), templateID); err != nil {
		RespondError(w, h.logger, err, "template_not_found", "Template not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// sanitizeFilename strips path components and unsafe characters from an
// uploaded filename.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	return unsafeFilenameChars.ReplaceAllString(base, "_")
}
