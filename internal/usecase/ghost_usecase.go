package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"applyforge/internal/config"
	"applyforge/internal/domain/ghost"
	"applyforge/internal/domain/posting"
	"applyforge/internal/repository"

	"github.com/google/uuid"
)

type GhostUsecase interface {
	// Assess recomputes the ghost signals for one posting and persists
	// them. Recomputing against unchanged posting data yields an
	// identical result.
	Assess(ctx context.Context, postingID uuid.UUID) (posting.GhostSignals, error)
	// ReverifyActive sweeps every active posting. Run by the scheduler.
	ReverifyActive(ctx context.Context) (int, error)
}

type Ghost struct {
	postings repository.PostingRepository
	policy   config.PolicyConfig
	logger   *log.Logger
	now      func() time.Time
}

func NewGhostUsecase(postings repository.PostingRepository, policy config.PolicyConfig, logger *log.Logger) *Ghost {
	return &Ghost{postings: postings, policy: policy, logger: logger, now: time.Now}
}

func (u *Ghost) Assess(ctx context.Context, postingID uuid.UUID) (posting.GhostSignals, error) {
	if postingID == uuid.Nil {
		return posting.GhostSignals{}, ErrInvalidInput
	}

	p, err := u.postings.GetByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, repository.ErrPostingNotFound) {
			return posting.GhostSignals{}, ErrNotFound
		}
		return posting.GhostSignals{}, ErrInternal
	}

	extracted, err := u.postings.GetExtractedSkills(ctx, postingID)
	if err != nil {
		return posting.GhostSignals{}, ErrInternal
	}

	now := u.now().UTC()
	signals := ghost.Detect(ghost.Input{
		Posting:         p,
		DaysOpen:        p.DaysOpen(now),
		ExtractedSkills: extracted,
	}, ghostWeights(u.policy), ghostTiers(u.policy))

	if err := u.postings.SaveGhostSignals(ctx, postingID, signals, now); err != nil {
		return posting.GhostSignals{}, ErrInternal
	}
	return signals, nil
}

func (u *Ghost) ReverifyActive(ctx context.Context) (int, error) {
	ids, err := u.postings.ListActiveIDs(ctx, 0)
	if err != nil {
		return 0, ErrInternal
	}

	processed := 0
	for _, id := range ids {
		if _, err := u.Assess(ctx, id); err != nil {
			if u.logger != nil {
				u.logger.Printf("[Ghost] reverify skipped posting=%s err=%v", id, err)
			}
			continue
		}
		processed++
	}
	return processed, nil
}
