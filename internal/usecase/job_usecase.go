package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"applyforge/internal/repository"

	"github.com/google/uuid"
)

const (
	BulkActionDismiss    = "dismiss"
	BulkActionArchive    = "archive"
	BulkActionFavorite   = "favorite"
	BulkActionUnfavorite = "unfavorite"
)

type JobListParams struct {
	// ShowFiltered includes jobs that failed a non-negotiable; the
	// default listing hides them.
	ShowFiltered bool
	Page         int
	PerPage      int
}

type BulkFailure struct {
	JobID  uuid.UUID `json:"job_id"`
	Reason string    `json:"reason"`
}

// BulkResult reports per-item outcomes; one bad item never sinks the batch.
type BulkResult struct {
	Succeeded []uuid.UUID   `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

type JobUsecase interface {
	List(ctx context.Context, personaID uuid.UUID, params JobListParams) ([]repository.PersonaJobListRow, int, error)
	Dismiss(ctx context.Context, personaID, jobID uuid.UUID) error
	Archive(ctx context.Context, personaID, jobID uuid.UUID) error
	SetFavorite(ctx context.Context, personaID, jobID uuid.UUID, favorite bool) error
	Bulk(ctx context.Context, personaID uuid.UUID, action string, jobIDs []uuid.UUID) (BulkResult, error)
}

type Job struct {
	personaJobs repository.PersonaJobRepository
	cache       ScoreCache
	logger      *log.Logger
	now         func() time.Time
}

func NewJobUsecase(personaJobs repository.PersonaJobRepository, cache ScoreCache, logger *log.Logger) *Job {
	return &Job{personaJobs: personaJobs, cache: cache, logger: logger, now: time.Now}
}

func (u *Job) List(ctx context.Context, personaID uuid.UUID, params JobListParams) ([]repository.PersonaJobListRow, int, error) {
	if personaID == uuid.Nil {
		return nil, 0, ErrInvalidInput
	}
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage == 0 {
		perPage = 20
	}
	if perPage < 0 || perPage > 100 {
		return nil, 0, ErrInvalidInput
	}
	offset := (page - 1) * perPage

	cacheKey := JobListCacheKey(personaID, params.ShowFiltered, perPage, offset)
	if u.cache != nil {
		var cached struct {
			Rows  []repository.PersonaJobListRow `json:"rows"`
			Total int                            `json:"total"`
		}
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			return cached.Rows, cached.Total, nil
		}
	}

	rows, total, err := u.personaJobs.List(ctx, repository.PersonaJobListFilter{
		PersonaID:    personaID,
		ShowFiltered: params.ShowFiltered,
		Limit:        perPage,
		Offset:       offset,
	})
	if err != nil {
		return nil, 0, ErrInternal
	}

	if u.cache != nil {
		payload := struct {
			Rows  []repository.PersonaJobListRow `json:"rows"`
			Total int                            `json:"total"`
		}{Rows: rows, Total: total}
		_ = u.cache.SetJSON(ctx, cacheKey, payload, 5*time.Minute)
	}
	return rows, total, nil
}

func (u *Job) Dismiss(ctx context.Context, personaID, jobID uuid.UUID) error {
	if personaID == uuid.Nil || jobID == uuid.Nil {
		return ErrInvalidInput
	}
	err := u.personaJobs.Dismiss(ctx, personaID, jobID, u.now().UTC())
	if err != nil {
		return mapJobRepoError(err)
	}
	u.invalidateListing(ctx, personaID)
	return nil
}

func (u *Job) Archive(ctx context.Context, personaID, jobID uuid.UUID) error {
	if personaID == uuid.Nil || jobID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.personaJobs.Archive(ctx, personaID, jobID); err != nil {
		return mapJobRepoError(err)
	}
	u.invalidateListing(ctx, personaID)
	return nil
}

func (u *Job) SetFavorite(ctx context.Context, personaID, jobID uuid.UUID, favorite bool) error {
	if personaID == uuid.Nil || jobID == uuid.Nil {
		return ErrInvalidInput
	}
	if err := u.personaJobs.SetFavorite(ctx, personaID, jobID, favorite); err != nil {
		return mapJobRepoError(err)
	}
	u.invalidateListing(ctx, personaID)
	return nil
}

func (u *Job) Bulk(ctx context.Context, personaID uuid.UUID, action string, jobIDs []uuid.UUID) (BulkResult, error) {
	if personaID == uuid.Nil || len(jobIDs) == 0 {
		return BulkResult{}, ErrInvalidInput
	}

	var apply func(context.Context, uuid.UUID) error
	switch action {
	case BulkActionDismiss:
		apply = func(ctx context.Context, id uuid.UUID) error {
			return u.personaJobs.Dismiss(ctx, personaID, id, u.now().UTC())
		}
	case BulkActionArchive:
		apply = func(ctx context.Context, id uuid.UUID) error {
			return u.personaJobs.Archive(ctx, personaID, id)
		}
	case BulkActionFavorite:
		apply = func(ctx context.Context, id uuid.UUID) error {
			return u.personaJobs.SetFavorite(ctx, personaID, id, true)
		}
	case BulkActionUnfavorite:
		apply = func(ctx context.Context, id uuid.UUID) error {
			return u.personaJobs.SetFavorite(ctx, personaID, id, false)
		}
	default:
		return BulkResult{}, ErrInvalidInput
	}

	result := BulkResult{
		Succeeded: make([]uuid.UUID, 0, len(jobIDs)),
		Failed:    make([]BulkFailure, 0),
	}
	for _, id := range jobIDs {
		if id == uuid.Nil {
			result.Failed = append(result.Failed, BulkFailure{JobID: id, Reason: "invalid job id"})
			continue
		}
		if err := apply(ctx, id); err != nil {
			result.Failed = append(result.Failed, BulkFailure{JobID: id, Reason: bulkReason(err)})
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}

	u.invalidateListing(ctx, personaID)
	return result, nil
}

func (u *Job) invalidateListing(ctx context.Context, personaID uuid.UUID) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, "jobs:list:"+personaID.String()+":*"); err != nil && u.logger != nil {
		u.logger.Printf("[Jobs] listing invalidation failed persona=%s err=%v", personaID, err)
	}
}

func mapJobRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrPersonaJobNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidJobState):
		return ErrInvalidState
	default:
		return ErrInternal
	}
}

func bulkReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrPersonaJobNotFound):
		return "not found"
	case errors.Is(err, repository.ErrInvalidJobState):
		return "incompatible state"
	default:
		return "internal error"
	}
}
