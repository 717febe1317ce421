package utils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the error services hand back to the central error handler.
// Message is safe to show to clients.
type ErrorResponse struct {
	StatusCode int
	Message    string
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

func NewErrorResponse(statusCode int, format string, args ...any) *ErrorResponse {
	return &ErrorResponse{StatusCode: statusCode, Message: fmt.Sprintf(format, args...)}
}

func BadRequest(format string, args ...any) *ErrorResponse {
	return NewErrorResponse(fiber.StatusBadRequest, format, args...)
}

func NotFound(format string, args ...any) *ErrorResponse {
	return NewErrorResponse(fiber.StatusNotFound, format, args...)
}

func Unauthorized(format string, args ...any) *ErrorResponse {
	return NewErrorResponse(fiber.StatusUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *ErrorResponse {
	return NewErrorResponse(fiber.StatusForbidden, format, args...)
}
