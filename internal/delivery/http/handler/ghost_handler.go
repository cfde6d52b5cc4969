package handler

import (
	"applyforge/internal/pkg/response"
	"applyforge/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type GhostHandler struct {
	uc usecase.GhostUsecase
}

func NewGhostHandler(uc usecase.GhostUsecase) *GhostHandler {
	return &GhostHandler{uc: uc}
}

func (h *GhostHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/postings")
	grp.Post("/:posting_id/ghost-check", h.Assess)
}

func (h *GhostHandler) Assess(c fiber.Ctx) error {
	if _, err := personaFromCtx(c); err != nil {
		return err
	}
	postingID, err := parseIDParam(c, "posting_id")
	if err != nil {
		return err
	}

	signals, err := h.uc.Assess(c.Context(), postingID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, signals)
}
