package handler

import (
	"context"
	"strconv"

	"applyforge/internal/delivery/http/dto"
	"applyforge/internal/delivery/http/middleware"
	"applyforge/internal/pkg/response"
	"applyforge/internal/usecase"
	"applyforge/internal/usecase/rescore"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type bulkActionRequest struct {
	Action string      `json:"action"`
	JobIDs []uuid.UUID `json:"job_ids"`
}

type JobsHandler struct {
	jobs    usecase.JobUsecase
	scoring usecase.ScoringUsecase
	rescore *rescore.Dispatcher
}

func NewJobsHandler(jobs usecase.JobUsecase, scoring usecase.ScoringUsecase, rescoreDispatcher *rescore.Dispatcher) *JobsHandler {
	return &JobsHandler{jobs: jobs, scoring: scoring, rescore: rescoreDispatcher}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/jobs")
	grp.Get("/", h.List)
	grp.Post("/bulk", h.Bulk)
	grp.Post("/rescore", h.Rescore)
	grp.Post("/:job_id/score", h.Score)
	grp.Post("/:job_id/dismiss", h.Dismiss)
	grp.Post("/:job_id/archive", h.Archive)
	grp.Post("/:job_id/favorite", h.Favorite)
	grp.Post("/:job_id/unfavorite", h.Unfavorite)
}

func (h *JobsHandler) List(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}

	page, err := parseQueryIntStrict(c, "page", 1)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "invalid page", err)
	}
	perPage, err := parseQueryIntStrict(c, "per_page", 20)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "invalid per_page", err)
	}

	params := usecase.JobListParams{
		ShowFiltered: c.Query("show_filtered") == "true",
		Page:         page,
		PerPage:      perPage,
	}

	rows, total, err := h.jobs.List(c.Context(), personaID, params)
	if err != nil {
		return mapUsecaseError(err)
	}

	return response.Page(c, fiber.StatusOK, dto.NewPersonaJobListResponse(rows), total, params.Page, params.PerPage)
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(s)
}

func (h *JobsHandler) Score(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}

	job, err := h.scoring.ScoreJob(c.Context(), personaID, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, dto.NewPersonaJobResponse(job))
}

func (h *JobsHandler) Rescore(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}

	started := h.rescore.Dispatch(c.Context(), personaID)
	return response.Data(c, fiber.StatusAccepted, fiber.Map{"started": started})
}

func (h *JobsHandler) Dismiss(c fiber.Ctx) error {
	return h.applyAction(c, h.jobs.Dismiss)
}

func (h *JobsHandler) Archive(c fiber.Ctx) error {
	return h.applyAction(c, h.jobs.Archive)
}

func (h *JobsHandler) Favorite(c fiber.Ctx) error {
	return h.applyAction(c, func(ctx context.Context, personaID, jobID uuid.UUID) error {
		return h.jobs.SetFavorite(ctx, personaID, jobID, true)
	})
}

func (h *JobsHandler) Unfavorite(c fiber.Ctx) error {
	return h.applyAction(c, func(ctx context.Context, personaID, jobID uuid.UUID) error {
		return h.jobs.SetFavorite(ctx, personaID, jobID, false)
	})
}

func (h *JobsHandler) Bulk(c fiber.Ctx) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}

	var req bulkActionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, middleware.CodeValidationFailed, "invalid request body", err)
	}

	result, err := h.jobs.Bulk(c.Context(), personaID, req.Action, req.JobIDs)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, result)
}

func (h *JobsHandler) applyAction(c fiber.Ctx, apply func(ctx context.Context, personaID, jobID uuid.UUID) error) error {
	personaID, err := personaFromCtx(c)
	if err != nil {
		return err
	}
	jobID, err := parseIDParam(c, "job_id")
	if err != nil {
		return err
	}

	if err := apply(c.Context(), personaID, jobID); err != nil {
		return mapUsecaseError(err)
	}
	return response.Data(c, fiber.StatusOK, fiber.Map{"job_id": jobID})
}
