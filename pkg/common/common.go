package common

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
)

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrCreditNotFound     = errors.New("credit not found")
	ErrActiveCreditExists = errors.New("client already has an active or defaulted credit")
	ErrInvalidCreditState = errors.New("credit is not in a valid state for this operation")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	// ErrDuplicateCreditNumber surfaces a numero_credito unique-index
	// violation; the solicitud is retryable.
	ErrDuplicateCreditNumber = errors.New("numero de credito already assigned")
)

// ValidationError reports a single invalid entity field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

func SuccessResponse(c *fiber.Ctx, statusCode int, data any) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}
