package handler

import (
	"errors"
	"strings"

	"applyforge/internal/delivery/http/dto"
	"applyforge/internal/delivery/http/middleware"
	"applyforge/internal/domain/guardrail"
	"applyforge/internal/pkg/response"
	"applyforge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type generateVariantRequest struct {
	BaseResumeID uuid.UUID `json:"base_resume_id"`
	PostingID    uuid.UUID `json:"posting_id"`
}

type generateCoverLetterRequest struct {
	PostingID uuid.UUID  `json:"posting_id"`
	VariantID *uuid.UUID `json:"variant_id,omitempty"`
}

type approvePackageRequest struct {
	CoverLetterID uuid.UUID `json:"cover_letter_id"`
}

type TailoringHandler struct {
	uc usecase.TailoringUsecase
}

func NewTailoringHandler(uc usecase.TailoringUsecase) *TailoringHandler {
	return &TailoringHandler{uc: uc}
}

func (h *TailoringHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	variants := r.Group("/variants")
	variants.Post("/", h.GenerateVariant)
	variants.Post("/:variant_id/validate", h.ValidateVariant)
	variants.Post("/:variant_id/approve", h.ApproveVariant)
	variants.Post("/:variant_id/approve-package", h.ApprovePackage)

	letters := r.Group("/cover-letters")
	letters.Post("/", h.GenerateCoverLetter)
	letters.Post("/:letter_id/validate", h.ValidateCoverLetter)
	letters.Post("/:letter_id/approve", h.ApproveCoverLetter)
}

func (h *TailoringHandler) GenerateVariant(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}

	var req generateVariantRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "invalid request body", err)
	}

	v, err := h.uc.GenerateVariant(c.Context(), personaID, req.BaseResumeID, req.PostingID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusCreated, dto.NewVariantResponse(v))
}

func (h *TailoringHandler) GenerateCoverLetter(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}

	var req generateCoverLetterRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "invalid request body", err)
	}

	l, err := h.uc.GenerateCoverLetter(c.Context(), personaID, req.PostingID, req.VariantID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusCreated, dto.NewCoverLetterResponse(l))
}

func (h *TailoringHandler) ValidateVariant(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}
	variantID, err := parseIDParam(c, "variant_id")
	if err != nil {
		return err
	}

	result, err := h.uc.ValidateVariant(c.Context(), personaID, variantID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, result)
}

func (h *TailoringHandler) ValidateCoverLetter(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}
	letterID, err := parseIDParam(c, "letter_id")
	if err != nil {
		return err
	}

	result, err := h.uc.ValidateCoverLetter(c.Context(), personaID, letterID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, result)
}

func (h *TailoringHandler) ApproveVariant(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}
	variantID, err := parseIDParam(c, "variant_id")
	if err != nil {
		return err
	}

	v, result, err := h.uc.ApproveVariant(c.Context(), personaID, variantID)
	if err != nil {
		// A blocked approval names the violated rules so the client can
		// show what stopped it.
		if errors.Is(err, usecase.ErrValidationFailed) {
			return response.Error(c, fiber.StatusUnprocessableEntity, middleware.CodeValidationFailed, formatViolations(result))
		}
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, dto.NewVariantResponse(v))
}

func errorRules(result guardrail.Result) []string {
	rules := make([]string, 0, len(result.Violations))
	for _, v := range result.Violations {
		if v.Severity == guardrail.SeverityError {
			rules = append(rules, v.Rule)
		}
	}
	return rules
}

func formatViolations(result guardrail.Result) string {
	rules := errorRules(result)
	if len(rules) == 0 {
		return "guardrail validation failed"
	}
	return "guardrail validation failed: " + strings.Join(rules, ", ")
}

// formatPackageViolations names the artifact that blocked a package
// approval alongside its failed rules.
func formatPackageViolations(checks usecase.PackageValidation) string {
	parts := make([]string, 0, 2)
	if !checks.Variant.Passed {
		parts = append(parts, "variant: "+strings.Join(errorRules(checks.Variant), ", "))
	}
	if !checks.CoverLetter.Passed {
		parts = append(parts, "cover letter: "+strings.Join(errorRules(checks.CoverLetter), ", "))
	}
	if len(parts) == 0 {
		return "guardrail validation failed"
	}
	return "guardrail validation failed: " + strings.Join(parts, "; ")
}

func (h *TailoringHandler) ApproveCoverLetter(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}
	letterID, err := parseIDParam(c, "letter_id")
	if err != nil {
		return err
	}

	l, result, err := h.uc.ApproveCoverLetter(c.Context(), personaID, letterID)
	if err != nil {
		if errors.Is(err, usecase.ErrValidationFailed) {
			return response.Error(c, fiber.StatusUnprocessableEntity, middleware.CodeValidationFailed, formatViolations(result))
		}
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, dto.NewCoverLetterResponse(l))
}

func (h *TailoringHandler) ApprovePackage(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}
	variantID, err := parseIDParam(c, "variant_id")
	if err != nil {
		return err
	}

	var req approvePackageRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "invalid request body", err)
	}

	v, l, checks, err := h.uc.ApprovePackage(c.Context(), personaID, variantID, req.CoverLetterID)
	if err != nil {
		if errors.Is(err, usecase.ErrValidationFailed) {
			return response.Error(c, fiber.StatusUnprocessableEntity, middleware.CodeValidationFailed, formatPackageViolations(checks))
		}
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, dto.ApprovedPackageResponse{
		Variant:     dto.NewVariantResponse(v),
		CoverLetter: dto.NewCoverLetterResponse(l),
	})
}
