package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"applyforge/internal/config"
	"applyforge/internal/domain/filter"
	"applyforge/internal/domain/posting"
	"applyforge/internal/domain/scoring"
	"applyforge/internal/repository"

	"github.com/google/uuid"
)

type ScoringUsecase interface {
	// ScoreJob runs the non-negotiable filter first; a job that fails any
	// constraint gets its failures recorded and both scores nulled, and is
	// never scored.
	ScoreJob(ctx context.Context, personaID, jobID uuid.UUID) (posting.PersonaJob, error)
	// RescoreAll recomputes every non-dismissed, non-archived job for the
	// persona. Returns how many jobs were processed.
	RescoreAll(ctx context.Context, personaID uuid.UUID) (int, error)
}

type Scoring struct {
	personaJobs repository.PersonaJobRepository
	personas    repository.PersonaRepository
	postings    repository.PostingRepository
	policy      config.PolicyConfig
	cache       ScoreCache
	logger      *log.Logger
	now         func() time.Time
}

func NewScoringUsecase(personaJobs repository.PersonaJobRepository, personas repository.PersonaRepository, postings repository.PostingRepository, policy config.PolicyConfig, cache ScoreCache, logger *log.Logger) *Scoring {
	return &Scoring{
		personaJobs: personaJobs,
		personas:    personas,
		postings:    postings,
		policy:      policy,
		cache:       cache,
		logger:      logger,
		now:         time.Now,
	}
}

func (u *Scoring) ScoreJob(ctx context.Context, personaID, jobID uuid.UUID) (posting.PersonaJob, error) {
	if personaID == uuid.Nil || jobID == uuid.Nil {
		return posting.PersonaJob{}, ErrInvalidInput
	}

	job, err := u.personaJobs.GetByID(ctx, personaID, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrPersonaJobNotFound) {
			return posting.PersonaJob{}, ErrNotFound
		}
		return posting.PersonaJob{}, ErrInternal
	}

	job, err = u.scoreOne(ctx, personaID, job)
	if err != nil {
		return posting.PersonaJob{}, err
	}

	if u.cache != nil {
		_ = u.cache.DeleteByPattern(ctx, "jobs:list:"+personaID.String()+":*")
		_ = u.cache.SetJSON(ctx, ScoreCacheKey(personaID, jobID), job.ScoreDetails, 0)
	}
	return job, nil
}

func (u *Scoring) RescoreAll(ctx context.Context, personaID uuid.UUID) (int, error) {
	if personaID == uuid.Nil {
		return 0, ErrInvalidInput
	}

	rows, _, err := u.personaJobs.List(ctx, repository.PersonaJobListFilter{
		PersonaID:    personaID,
		ShowFiltered: true,
		Limit:        1000,
		Offset:       0,
	})
	if err != nil {
		return 0, ErrInternal
	}

	processed := 0
	for _, row := range rows {
		if _, err := u.scoreOne(ctx, personaID, row.Job); err != nil {
			if u.logger != nil {
				u.logger.Printf("[Scoring] rescore skipped job=%s err=%v", row.Job.ID, err)
			}
			continue
		}
		processed++
	}

	if u.cache != nil {
		_ = u.cache.InvalidatePersonaScores(ctx, personaID.String())
	}
	return processed, nil
}

// scoreOne applies filter-then-score to a single persona job and persists
// the outcome. The returned job reflects what was written.
func (u *Scoring) scoreOne(ctx context.Context, personaID uuid.UUID, job posting.PersonaJob) (posting.PersonaJob, error) {
	p, err := u.postings.GetByID(ctx, job.PostingID)
	if err != nil {
		if errors.Is(err, repository.ErrPostingNotFound) {
			return posting.PersonaJob{}, ErrNotFound
		}
		return posting.PersonaJob{}, ErrInternal
	}

	constraints, err := u.personas.GetConstraints(ctx, personaID)
	if err != nil {
		if errors.Is(err, repository.ErrPersonaNotFound) {
			return posting.PersonaJob{}, ErrNotFound
		}
		return posting.PersonaJob{}, ErrInternal
	}

	failures := filter.Evaluate(p, constraints)
	if len(failures) > 0 {
		if err := u.personaJobs.SaveFilterFailures(ctx, personaID, job.ID, failures); err != nil {
			return posting.PersonaJob{}, ErrInternal
		}
		job.FailedNonNegotiables = failures
		job.FitScore = nil
		job.StretchScore = nil
		job.ScoreDetails = nil
		job.ScoredAt = nil
		return job, nil
	}

	profile, err := u.personas.GetProfile(ctx, personaID)
	if err != nil {
		return posting.PersonaJob{}, ErrInternal
	}
	extracted, err := u.postings.GetExtractedSkills(ctx, job.PostingID)
	if err != nil {
		return posting.PersonaJob{}, ErrInternal
	}

	details := scoring.Score(scoring.Input{
		Posting:         p,
		Profile:         profile,
		ExtractedSkills: extracted,
	}, scoringWeights(u.policy), scoringThresholds(u.policy))

	scoredAt := u.now().UTC()
	if err := u.personaJobs.SaveScore(ctx, personaID, job.ID, details, scoredAt); err != nil {
		if errors.Is(err, repository.ErrPersonaJobNotFound) {
			return posting.PersonaJob{}, ErrNotFound
		}
		return posting.PersonaJob{}, ErrInternal
	}

	fit := details.Fit.Total
	stretch := details.Stretch.Total
	job.FitScore = &fit
	job.StretchScore = &stretch
	job.ScoreDetails = &details
	job.ScoredAt = &scoredAt
	job.FailedNonNegotiables = nil
	return job, nil
}
