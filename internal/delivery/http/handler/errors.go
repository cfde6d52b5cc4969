package handler

import (
	"errors"

	"applyforge/internal/delivery/http/middleware"
	"applyforge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// mapUsecaseError is the single place usecase sentinels become HTTP codes.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "invalid request", err)
	case errors.Is(err, usecase.ErrValidationFailed):
		return middleware.ValidationFailed("guardrail validation failed", err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NotFound("resource not found", err)
	case errors.Is(err, usecase.ErrInvalidState):
		return middleware.InvalidState("resource in incompatible state", err)
	case errors.Is(err, usecase.ErrConflict):
		return middleware.Conflict("concurrent update conflict", err)
	case errors.Is(err, usecase.ErrAlreadyResolved):
		return middleware.AlreadyResolved("change flag already resolved", err)
	case errors.Is(err, usecase.ErrGenerationDisabled):
		return middleware.InvalidState("content generation is not configured", err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, middleware.CodeInternal, "internal server error", err)
	}
}

func personaFromCtx(c fiber.Ctx) (uuid.UUID, error) {
	personaID, ok := middleware.PersonaID(c)
	if !ok {
		return uuid.Nil, middleware.NewAppError(fiber.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
	}
	return personaID, nil
}

func parseIDParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "invalid "+name, err)
	}
	return id, nil
}
