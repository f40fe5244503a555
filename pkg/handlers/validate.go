package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidatePayload runs struct tag validation on a decoded request payload and
// writes a 400 naming the failing fields when it does not pass. Returns true
// when the payload is valid.
func ValidatePayload(w http.ResponseWriter, logger *zap.Logger, payload any) bool {
	err := validate.Struct(payload)
	if err == nil {
		return true
	}

	message := "Invalid request payload"
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			fields = append(fields, fmt.Sprintf("%s (%s)", fieldErr.Field(), fieldErr.Tag()))
		}
		message = "Invalid fields: " + strings.Join(fields, ", ")
	}

	if writeErr := ErrorResponse(w, http.StatusBadRequest, "validation_error", message); writeErr != nil {
		logger.Error("Failed to write error response", zap.Error(writeErr))
	}
	return false
}
