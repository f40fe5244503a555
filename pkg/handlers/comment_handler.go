package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// defaultCommentLimit bounds the flat comment listing. Comments are the one
// listing that honors limit alongside skip.
const defaultCommentLimit = 100

// maxPhotoUploadBytes bounds a single photo upload request.
const maxPhotoUploadBytes = 50 << 20

// UpdateCommentRequest for PUT /comments/{id}
type UpdateCommentRequest struct {
	Content string `json:"content"`
	UnitID  *int64 `json:"unit_id"`
}

// CreateContactCommentRequest for POST /comments/{contact_id}/contact/
type CreateContactCommentRequest struct {
	Comment string `json:"comment"`
	UserID  int64  `json:"user_id"`
}

// CommentHandler handles comment HTTP requests, including photos and
// contact comments.
type CommentHandler struct {
	commentService services.CommentService
	photoService   services.PhotoService
	logger         *zap.Logger
}

// NewCommentHandler creates a new comment handler.
func NewCommentHandler(
	commentService services.CommentService,
	photoService services.PhotoService,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		photoService:   photoService,
		logger:         logger,
	}
}

// RegisterRoutes registers the comment handler's routes on the given mux.
func (h *CommentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /comments/{$}", h.List)
	mux.HandleFunc("POST /comments/{$}", h.Create)
	mux.HandleFunc("GET /comments/address/{address_id}", h.ListByAddress)
	mux.HandleFunc("GET /comments/unit/{unit_id}", h.ListByUnit)
	mux.HandleFunc("GET /comments/contact/{contact_id}", h.ListByContact)
	mux.HandleFunc("POST /comments/{contact_id}/contact/{$}", h.CreateContactComment)
	mux.HandleFunc("PUT /comments/{id}", h.Update)
	mux.HandleFunc("DELETE /comments/{id}", h.Delete)
	mux.HandleFunc("GET /comments/{id}/photos", h.ListPhotos)
	mux.HandleFunc("POST /comments/{id}/photos", h.UploadPhotos)
}

// List handles GET /comments/
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.List(r.Context(), ParseSkip(r), ParseLimit(r, defaultCommentLimit))
	if err != nil {
		h.logger.Error("Failed to list comments", zap.Error(err))
		RespondError(w, h.logger, err, "comments_not_found", "Comments not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, comments); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /comments/
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var comment models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	created, err := h.commentService.Create(r.Context(), &comment)
	if err != nil {
		h.logger.Error("Failed to create comment", zap.Error(err))
		RespondError(w, h.logger, err, "comment_not_found", "Comment not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, created); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListByAddress handles GET /comments/address/{address_id}. An absent
// address yields an empty list.
func (h *CommentHandler) ListByAddress(w http.ResponseWriter, r *http.Request) {
	addressID, ok := ParsePathID(w, r, "address_id", h.logger)
	if !ok {
		return
	}

	comments, err := h.commentService.ListByAddress(r.Context(), addressID)
	if err != nil {
		h.logger.Error("Failed to list comments by address", zap.Int64("address_id", addressID), zap.Error(err))
		RespondError(w, h.logger, err, "comments_not_found", "Comments not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, comments); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListByUnit handles GET /comments/unit/{unit_id}. A unit with no comments
// is a 404, unlike the address listing.
func (h *CommentHandler) ListByUnit(w http.ResponseWriter, r *http.Request) {
	unitID, ok := ParsePathID(w, r, "unit_id", h.logger)
	if !ok {
		return
	}

	comments, err := h.commentService.ListByUnit(r.Context(), unitID)
	if err != nil {
		h.logger.Error("Failed to list comments by unit", zap.Int64("unit_id", unitID), zap.Error(err))
		RespondError(w, h.logger, err, "comments_not_found", "Comments not found")
		return
	}

	if len(comments) == 0 {
		if err := ErrorResponse(w, http.StatusNotFound, "comments_not_found", "Comments not found"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, comments); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListByContact handles GET /comments/contact/{contact_id}. A missing
// contact is a 404; a contact with no comments is an empty list.
func (h *CommentHandler) ListByContact(w http.ResponseWriter, r *http.Request) {
	contactID, ok := ParsePathID(w, r, "contact_id", h.logger)
	if !ok {
		return
	}

	comments, err := h.commentService.ListByContact(r.Context(), contactID)
	if err != nil {
		RespondError(w, h.logger, err, "contact_not_found", "Contact not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, comments); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// CreateContactComment handles POST /comments/{contact_id}/contact/
func (h *CommentHandler) CreateContactComment(w http.ResponseWriter, r *http.Request) {
	contactID, ok := ParsePathID(w, r, "contact_id", h.logger)
	if !ok {
		return
	}

	var req CreateContactCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	comment := &models.ContactComment{
		Comment:   req.Comment,
		UserID:    req.UserID,
		ContactID: contactID,
	}

	created, err := h.commentService.CreateContactComment(r.Context(), comment)
	if err != nil {
		RespondError(w, h.logger, err, "contact_not_found", "Contact not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, created); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /comments/{id}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	commentID, ok := ParseID(w, r, h.logger)
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

	comment, err := h.commentService.Update(r.Context(), commentID, req.Content, req.UnitID)
	if err != nil {
		RespondError(w, h.logger, err, "comment_not_found", "Comment not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, comment); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), commentID); err != nil {
		RespondError(w, h.logger, err, "comment_not_found", "Comment not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPhotos handles GET /comments/{id}/photos
func (h *CommentHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	commentID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	photos, err := h.photoService.ListPhotos(r.Context(), models.AttachmentRecordComment, commentID)
	if err != nil {
		RespondError(w, h.logger, err, "photos_not_found", "Photos not found for this comment")
		return
	}

	if err := WriteJSON(w, http.StatusOK, photos); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// UploadPhotos handles POST /comments/{id}/photos. Images arrive as a
// multipart form under the "files" field.
func (h *CommentHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	commentID, ok := ParseID(w, r, h.logger)
	if !ok {
		return
	}

	if _, err := h.commentService.GetByID(r.Context(), commentID); err != nil {
		RespondError(w, h.logger, err, "comment_not_found", "Comment not found")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid multipart body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "no_files", "No files uploaded"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var uploads []*services.Upload
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_file", "Could not read uploaded file"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			if err := ErrorResponse(w, http.StatusBadRequest, "invalid_file", "Could not read uploaded file"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}

		uploads = append(uploads, &services.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	photos, err := h.photoService.UploadPhotos(r.Context(), models.AttachmentRecordComment, commentID, uploads)
	if err != nil {
		h.logger.Error("Failed to upload photos", zap.Int64("comment_id", commentID), zap.Error(err))
		RespondError(w, h.logger, err, "comment_not_found", "Comment not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, photos); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
