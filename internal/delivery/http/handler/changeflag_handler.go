package handler

import (
	"applyforge/internal/delivery/http/dto"
	"applyforge/internal/delivery/http/middleware"
	"applyforge/internal/domain/changeflag"
	"applyforge/internal/domain/persona"
	"applyforge/internal/pkg/response"
	"applyforge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type recordChangeRequest struct {
	ChangeType  string    `json:"change_type"`
	ItemID      uuid.UUID `json:"item_id"`
	Description string    `json:"description"`
	ItemValue   string    `json:"item_value"`
}

type resolveFlagRequest struct {
	Resolution string      `json:"resolution"`
	ResumeIDs  []uuid.UUID `json:"resume_ids,omitempty"`
}

type ChangeFlagHandler struct {
	uc usecase.ChangeFlagUsecase
}

func NewChangeFlagHandler(uc usecase.ChangeFlagUsecase) *ChangeFlagHandler {
	return &ChangeFlagHandler{uc: uc}
}

func (h *ChangeFlagHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/change-flags")
	grp.Get("/", h.ListPending)
	grp.Post("/", h.RecordChange)
	grp.Post("/:flag_id/resolve", h.Resolve)
}

func (h *ChangeFlagHandler) ListPending(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}

	flags, err := h.uc.ListPending(c.Context(), personaID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, dto.NewChangeFlagListResponse(flags))
}

func (h *ChangeFlagHandler) RecordChange(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}

	var req recordChangeRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "invalid request body", err)
	}
	changeType, ok := persona.ParseChangeType(req.ChangeType)
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "unknown change_type", nil)
	}

	flag, err := h.uc.RecordChange(c.Context(), persona.ChangeEvent{
		PersonaID:   personaID,
		Type:        changeType,
		ItemID:      req.ItemID,
		Description: req.Description,
		ItemValue:   req.ItemValue,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusCreated, dto.NewChangeFlagResponse(flag))
}

func (h *ChangeFlagHandler) Resolve(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}
	flagID, err := parseIDParam(c, "flag_id")
	if err != nil {
		return err
	}

	var req resolveFlagRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "invalid request body", err)
	}
	res, ok := changeflag.ParseResolution(req.Resolution)
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "unknown resolution", nil)
	}

	flag, err := h.uc.Resolve(c.Context(), personaID, flagID, res, req.ResumeIDs)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, dto.NewChangeFlagResponse(flag))
}
