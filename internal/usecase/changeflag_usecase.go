package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"applyforge/internal/domain/changeflag"
	"applyforge/internal/domain/persona"
	"applyforge/internal/repository"

	"github.com/google/uuid"
)

// Notifier pushes realtime events to connected clients. A nil notifier
// means nobody is listening.
type Notifier interface {
	NotifyFlagCreated(personaID uuid.UUID, flag changeflag.Flag)
	NotifyFlagResolved(personaID uuid.UUID, flag changeflag.Flag)
	NotifyRescoreCompleted(personaID uuid.UUID, processed int)
}

type ChangeFlagUsecase interface {
	// RecordChange raises a Pending flag for a persona edit. Repeated
	// edits to the same item collapse into the existing flag.
	RecordChange(ctx context.Context, event persona.ChangeEvent) (changeflag.Flag, error)
	ListPending(ctx context.Context, personaID uuid.UUID) ([]changeflag.Flag, error)
	// Resolve applies the chosen resolution to base resumes, then retires
	// the flag. Resolution is one-shot: the second caller gets
	// ErrAlreadyResolved.
	Resolve(ctx context.Context, personaID, flagID uuid.UUID, res changeflag.Resolution, resumeIDs []uuid.UUID) (changeflag.Flag, error)
}

type ChangeFlag struct {
	flags       repository.ChangeFlagRepository
	baseResumes repository.BaseResumeRepository
	notifier    Notifier
	logger      *log.Logger
	now         func() time.Time
}

func NewChangeFlagUsecase(flags repository.ChangeFlagRepository, baseResumes repository.BaseResumeRepository, notifier Notifier, logger *log.Logger) *ChangeFlag {
	return &ChangeFlag{flags: flags, baseResumes: baseResumes, notifier: notifier, logger: logger, now: time.Now}
}

func (u *ChangeFlag) RecordChange(ctx context.Context, event persona.ChangeEvent) (changeflag.Flag, error) {
	if event.PersonaID == uuid.Nil || event.ItemID == uuid.Nil {
		return changeflag.Flag{}, ErrInvalidInput
	}
	if _, ok := persona.ParseChangeType(string(event.Type)); !ok {
		return changeflag.Flag{}, ErrInvalidInput
	}

	flag := changeflag.Flag{
		ID:              uuid.New(),
		PersonaID:       event.PersonaID,
		ChangeType:      event.Type,
		ItemID:          event.ItemID,
		ItemDescription: event.Description,
		ItemValue:       event.ItemValue,
		Status:          changeflag.StatusPending,
		CreatedAt:       u.now().UTC(),
	}

	saved, created, err := u.flags.CreatePending(ctx, flag)
	if err != nil {
		return changeflag.Flag{}, ErrInternal
	}
	if created && u.notifier != nil {
		u.notifier.NotifyFlagCreated(event.PersonaID, saved)
	}
	return saved, nil
}

func (u *ChangeFlag) ListPending(ctx context.Context, personaID uuid.UUID) ([]changeflag.Flag, error) {
	if personaID == uuid.Nil {
		return nil, ErrInvalidInput
	}
	flags, err := u.flags.ListPending(ctx, personaID)
	if err != nil {
		return nil, ErrInternal
	}
	return flags, nil
}

func (u *ChangeFlag) Resolve(ctx context.Context, personaID, flagID uuid.UUID, res changeflag.Resolution, resumeIDs []uuid.UUID) (changeflag.Flag, error) {
	if personaID == uuid.Nil || flagID == uuid.Nil {
		return changeflag.Flag{}, ErrInvalidInput
	}
	if _, ok := changeflag.ParseResolution(string(res)); !ok {
		return changeflag.Flag{}, ErrInvalidInput
	}
	if res == changeflag.ResolutionAddedToSome && len(resumeIDs) == 0 {
		return changeflag.Flag{}, ErrInvalidInput
	}

	// The claim happens before any resume is touched, so a losing racer
	// is rejected with zero side effects. A failed apply releases the
	// claim and the flag stays retryable.
	flag, err := u.flags.Claim(ctx, personaID, flagID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyResolved):
			return changeflag.Flag{}, ErrAlreadyResolved
		case errors.Is(err, repository.ErrFlagNotFound):
			return changeflag.Flag{}, ErrNotFound
		default:
			return changeflag.Flag{}, ErrInternal
		}
	}

	if err := u.apply(ctx, flag, personaID, res, resumeIDs); err != nil {
		if relErr := u.flags.Release(ctx, personaID, flagID); relErr != nil && u.logger != nil {
			u.logger.Printf("[ChangeFlag] release failed flag=%s err=%v", flagID, relErr)
		}
		return changeflag.Flag{}, err
	}

	resolved, err := u.flags.Resolve(ctx, personaID, flagID, res, u.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyResolved):
			return changeflag.Flag{}, ErrAlreadyResolved
		case errors.Is(err, repository.ErrFlagNotFound):
			return changeflag.Flag{}, ErrNotFound
		default:
			return changeflag.Flag{}, ErrInternal
		}
	}
	if u.notifier != nil {
		u.notifier.NotifyFlagResolved(personaID, resolved)
	}
	return resolved, nil
}

func (u *ChangeFlag) apply(ctx context.Context, flag changeflag.Flag, personaID uuid.UUID, res changeflag.Resolution, resumeIDs []uuid.UUID) error {
	switch res {
	case changeflag.ResolutionAddedToAll:
		resumes, err := u.baseResumes.ListActive(ctx, personaID)
		if err != nil {
			return ErrInternal
		}
		for _, b := range resumes {
			if flag.ChangeType == persona.ChangeSkillAdded && b.HasSkillEmphasis(flag.ItemValue) {
				continue
			}
			if err := u.applyToResume(ctx, flag, personaID, b.ID); err != nil {
				return err
			}
		}
	case changeflag.ResolutionAddedToSome:
		for _, resumeID := range resumeIDs {
			if err := u.applyToResume(ctx, flag, personaID, resumeID); err != nil {
				return err
			}
		}
	case changeflag.ResolutionSkipped:
		// Nothing to apply.
	}
	return nil
}

func (u *ChangeFlag) applyToResume(ctx context.Context, flag changeflag.Flag, personaID, resumeID uuid.UUID) error {
	var err error
	switch flag.ChangeType {
	case persona.ChangeSkillAdded:
		err = u.baseResumes.AddSkillEmphasis(ctx, personaID, resumeID, flag.ItemValue)
	case persona.ChangeJobAdded:
		err = u.baseResumes.AddIncludedWorkHistory(ctx, personaID, resumeID, flag.ItemID)
	case persona.ChangeCertificationAdded:
		err = u.baseResumes.AddIncludedCertification(ctx, personaID, resumeID, flag.ItemID)
	case persona.ChangeEducationAdded:
		err = u.baseResumes.AddIncludedEducation(ctx, personaID, resumeID, flag.ItemID)
	case persona.ChangeSummaryUpdated:
		// Summary edits carry no structural change to apply.
		return nil
	default:
		return ErrInvalidInput
	}
	if err != nil {
		if errors.Is(err, repository.ErrBaseResumeNotFound) {
			return ErrNotFound
		}
		if u.logger != nil {
			u.logger.Printf("[ChangeFlag] apply failed flag=%s resume=%s err=%v", flag.ID, resumeID, err)
		}
		return ErrInternal
	}
	return nil
}
