package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/civicodehq/civicode-engine/pkg/apperrors"
	"github.com/civicodehq/civicode-engine/pkg/auth"
	"github.com/civicodehq/civicode-engine/pkg/models"
	"github.com/civicodehq/civicode-engine/pkg/services"
)

// TokenResponse for POST /login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateUserRequest for POST /users/
type CreateUserRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required"`
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Role     int     `json:"role" validate:"gte=0"`
}

// UserHandler handles login and user account HTTP requests.
type UserHandler struct {
	userService services.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

// RegisterRoutes registers the user handler's routes on the given mux.
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /users/{$}", h.List)
	mux.HandleFunc("POST /users/{$}", h.Create)
	mux.HandleFunc("GET /users/me", authMiddleware.RequireAuth(h.Me))
}

// Login handles POST /login. Credentials arrive as an OAuth2 password form:
// username and password fields, token returned as a bearer.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid form body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.userService.Login(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUnauthorized) {
			h.logger.Error("Login failed", zap.String("email", email), zap.Error(err))
		}
		RespondError(w, h.logger, err, "user_not_found", "User not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /users/
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), ParseSkip(r))
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		RespondError(w, h.logger, err, "users_not_found", "Users not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, users); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /users/
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if !ValidatePayload(w, h.logger, &req) {
		return
	}

	user := &models.User{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
		Role:  req.Role,
	}

	if err := h.userService.Create(r.Context(), user, req.Password); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			if err := ErrorResponse(w, http.StatusConflict, "email_taken", "Email already registered"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}
		h.logger.Error("Failed to create user", zap.String("email", req.Email), zap.Error(err))
		RespondError(w, h.logger, err, "user_not_found", "User not found")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Invalid auth token"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		RespondError(w, h.logger, err, "user_not_found", "User not found")
		return
	}

	if err := WriteJSON(w, http.StatusOK, user); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
