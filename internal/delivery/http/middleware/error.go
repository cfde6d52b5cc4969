package middleware

import (
	"errors"
	"log"

	"applyforge/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

// Stable error codes surfaced to clients. Handlers attach one of these to
// every AppError; everything unrecognized collapses to INTERNAL.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeAlreadyResolved  = "ALREADY_RESOLVED"
	CodeConflict         = "CONFLICT"
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidState     = "INVALID_STATE"
	CodeInternal         = "INTERNAL"
)

type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Cause      error
}

func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewAppError(statusCode int, code string, message string, cause error) *AppError {
	return &AppError{StatusCode: statusCode, Code: code, Message: message, Cause: cause}
}

func NotFound(message string, cause error) *AppError {
	return NewAppError(fiber.StatusNotFound, CodeNotFound, message, cause)
}

func ValidationFailed(message string, cause error) *AppError {
	return NewAppError(fiber.StatusUnprocessableEntity, CodeValidationFailed, message, cause)
}

func Conflict(message string, cause error) *AppError {
	return NewAppError(fiber.StatusConflict, CodeConflict, message, cause)
}

func InvalidState(message string, cause error) *AppError {
	return NewAppError(fiber.StatusConflict, CodeInvalidState, message, cause)
}

func AlreadyResolved(message string, cause error) *AppError {
	return NewAppError(fiber.StatusConflict, CodeAlreadyResolved, message, cause)
}

type ErrorMiddleware struct{}

func NewErrorMiddleware() *ErrorMiddleware {
	return &ErrorMiddleware{}
}

func (m *ErrorMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("panic recovered: %v", r)
				err = response.Error(c, fiber.StatusInternalServerError, CodeInternal, "")
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		status, code, msg := normalizeError(err)
		return response.Error(c, status, code, msg)
	}
}

func normalizeError(err error) (int, string, string) {
	if err == nil {
		return fiber.StatusInternalServerError, CodeInternal, ""
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.StatusCode
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, CodeInternal, ""
		}
		code := appErr.Code
		if code == "" {
			code = codeForStatus(status)
		}
		return status, code, appErr.Message
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status := fiberErr.Code
		if status <= 0 || status >= 500 {
			return fiber.StatusInternalServerError, CodeInternal, ""
		}
		return status, codeForStatus(status), fiberErr.Message
	}

	return fiber.StatusInternalServerError, CodeInternal, ""
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusConflict:
		return CodeConflict
	case fiber.StatusUnprocessableEntity:
		return CodeValidationFailed
	case fiber.StatusBadRequest:
		return CodeValidationFailed
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusForbidden:
		return "FORBIDDEN"
	default:
		return CodeInternal
	}
}
