package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"applyforge/internal/config"
	"applyforge/internal/domain/guardrail"
	"applyforge/internal/domain/resume"
	"applyforge/internal/infrastructure/generator"
	"applyforge/internal/repository"

	"github.com/google/uuid"
)

var ErrGenerationDisabled = errors.New("content generation disabled")

type TailoringUsecase interface {
	GenerateVariant(ctx context.Context, personaID, baseResumeID, postingID uuid.UUID) (resume.JobVariant, error)
	GenerateCoverLetter(ctx context.Context, personaID, postingID uuid.UUID, variantID *uuid.UUID) (resume.CoverLetter, error)
	ValidateVariant(ctx context.Context, personaID, variantID uuid.UUID) (guardrail.Result, error)
	ValidateCoverLetter(ctx context.Context, personaID, letterID uuid.UUID) (guardrail.Result, error)
	// ApproveVariant re-validates before promoting; a validation result
	// stored earlier is never trusted at the approval boundary.
	ApproveVariant(ctx context.Context, personaID, variantID uuid.UUID) (resume.JobVariant, guardrail.Result, error)
	ApproveCoverLetter(ctx context.Context, personaID, letterID uuid.UUID) (resume.CoverLetter, guardrail.Result, error)
	// ApprovePackage promotes a variant and its cover letter atomically.
	// The returned PackageValidation carries both guardrail verdicts so a
	// rejected caller can see which artifact blocked the approval.
	ApprovePackage(ctx context.Context, personaID, variantID, letterID uuid.UUID) (resume.JobVariant, resume.CoverLetter, PackageValidation, error)
}

// PackageValidation pairs the guardrail verdicts of a package approval.
type PackageValidation struct {
	Variant     guardrail.Result
	CoverLetter guardrail.Result
}

type Tailoring struct {
	variants    repository.VariantRepository
	letters     repository.CoverLetterRepository
	baseResumes repository.BaseResumeRepository
	personas    repository.PersonaRepository
	postings    repository.PostingRepository
	gen         generator.Client
	policy      config.PolicyConfig
	logger      *log.Logger
	now         func() time.Time
}

func NewTailoringUsecase(
	variants repository.VariantRepository,
	letters repository.CoverLetterRepository,
	baseResumes repository.BaseResumeRepository,
	personas repository.PersonaRepository,
	postings repository.PostingRepository,
	gen generator.Client,
	policy config.PolicyConfig,
	logger *log.Logger,
) *Tailoring {
	return &Tailoring{
		variants:    variants,
		letters:     letters,
		baseResumes: baseResumes,
		personas:    personas,
		postings:    postings,
		gen:         gen,
		policy:      policy,
		logger:      logger,
		now:         time.Now,
	}
}

func (u *Tailoring) GenerateVariant(ctx context.Context, personaID, baseResumeID, postingID uuid.UUID) (resume.JobVariant, error) {
	if personaID == uuid.Nil || baseResumeID == uuid.Nil || postingID == uuid.Nil {
		return resume.JobVariant{}, ErrInvalidInput
	}
	if u.gen == nil {
		return resume.JobVariant{}, ErrGenerationDisabled
	}

	if _, err := u.baseResumes.GetByID(ctx, personaID, baseResumeID); err != nil {
		if errors.Is(err, repository.ErrBaseResumeNotFound) {
			return resume.JobVariant{}, ErrNotFound
		}
		return resume.JobVariant{}, ErrInternal
	}
	if _, err := u.postings.GetByID(ctx, postingID); err != nil {
		if errors.Is(err, repository.ErrPostingNotFound) {
			return resume.JobVariant{}, ErrNotFound
		}
		return resume.JobVariant{}, ErrInternal
	}

	draft, err := u.gen.GenerateVariant(ctx, generator.VariantRequest{
		PersonaID:    personaID,
		BaseResumeID: baseResumeID,
		PostingID:    postingID,
	})
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Tailoring] variant generation failed persona=%s posting=%s err=%v", personaID, postingID, err)
		}
		return resume.JobVariant{}, ErrInternal
	}

	v := resume.JobVariant{
		ID:              uuid.New(),
		PersonaID:       personaID,
		BaseResumeID:    baseResumeID,
		PostingID:       postingID,
		SummaryOverride: draft.SummaryOverride,
		Bullets:         draft.Bullets,
		Skills:          draft.Skills,
		BulletOrder:     draft.BulletOrder,
		AgentReasoning:  draft.AgentReasoning,
	}

	// Drafts are validated on arrival so the UI never shows unchecked
	// generated content.
	result, err := u.checkVariant(ctx, v)
	if err != nil {
		return resume.JobVariant{}, err
	}
	v.GuardrailResult = &result

	created, err := u.variants.CreateDraft(ctx, v)
	if err != nil {
		return resume.JobVariant{}, ErrInternal
	}
	return created, nil
}

func (u *Tailoring) GenerateCoverLetter(ctx context.Context, personaID, postingID uuid.UUID, variantID *uuid.UUID) (resume.CoverLetter, error) {
	if personaID == uuid.Nil || postingID == uuid.Nil {
		return resume.CoverLetter{}, ErrInvalidInput
	}
	if u.gen == nil {
		return resume.CoverLetter{}, ErrGenerationDisabled
	}

	p, err := u.postings.GetByID(ctx, postingID)
	if err != nil {
		if errors.Is(err, repository.ErrPostingNotFound) {
			return resume.CoverLetter{}, ErrNotFound
		}
		return resume.CoverLetter{}, ErrInternal
	}

	draft, err := u.gen.GenerateCoverLetter(ctx, generator.CoverLetterRequest{
		PersonaID: personaID,
		PostingID: postingID,
		VariantID: variantID,
	})
	if err != nil {
		if u.logger != nil {
			u.logger.Printf("[Tailoring] cover letter generation failed persona=%s posting=%s err=%v", personaID, postingID, err)
		}
		return resume.CoverLetter{}, ErrInternal
	}

	l := resume.CoverLetter{
		ID:        uuid.New(),
		PersonaID: personaID,
		PostingID: postingID,
		VariantID: variantID,
		DraftText: draft.Text,
		StoryIDs:  draft.StoryIDs,
	}

	result := u.checkLetter(l, p.Company)
	l.ValidationResult = &result

	created, err := u.letters.CreateDraft(ctx, l)
	if err != nil {
		return resume.CoverLetter{}, ErrInternal
	}
	return created, nil
}

func (u *Tailoring) ValidateVariant(ctx context.Context, personaID, variantID uuid.UUID) (guardrail.Result, error) {
	if personaID == uuid.Nil || variantID == uuid.Nil {
		return guardrail.Result{}, ErrInvalidInput
	}

	v, err := u.variants.GetByID(ctx, personaID, variantID)
	if err != nil {
		return guardrail.Result{}, mapTailoringRepoError(err)
	}

	result, err := u.checkVariant(ctx, v)
	if err != nil {
		return guardrail.Result{}, err
	}
	if err := u.variants.SaveGuardrailResult(ctx, personaID, variantID, result); err != nil {
		return guardrail.Result{}, mapTailoringRepoError(err)
	}
	return result, nil
}

func (u *Tailoring) ValidateCoverLetter(ctx context.Context, personaID, letterID uuid.UUID) (guardrail.Result, error) {
	if personaID == uuid.Nil || letterID == uuid.Nil {
		return guardrail.Result{}, ErrInvalidInput
	}

	l, err := u.letters.GetByID(ctx, personaID, letterID)
	if err != nil {
		return guardrail.Result{}, mapTailoringRepoError(err)
	}
	p, err := u.postings.GetByID(ctx, l.PostingID)
	if err != nil {
		return guardrail.Result{}, ErrInternal
	}

	result := u.checkLetter(l, p.Company)
	if err := u.letters.SaveValidationResult(ctx, personaID, letterID, result); err != nil {
		return guardrail.Result{}, mapTailoringRepoError(err)
	}
	return result, nil
}

func (u *Tailoring) ApproveVariant(ctx context.Context, personaID, variantID uuid.UUID) (resume.JobVariant, guardrail.Result, error) {
	if personaID == uuid.Nil || variantID == uuid.Nil {
		return resume.JobVariant{}, guardrail.Result{}, ErrInvalidInput
	}

	v, err := u.variants.GetByID(ctx, personaID, variantID)
	if err != nil {
		return resume.JobVariant{}, guardrail.Result{}, mapTailoringRepoError(err)
	}

	result, err := u.checkVariant(ctx, v)
	if err != nil {
		return resume.JobVariant{}, guardrail.Result{}, err
	}
	if !result.Passed {
		_ = u.variants.SaveGuardrailResult(ctx, personaID, variantID, result)
		return resume.JobVariant{}, result, ErrValidationFailed
	}

	snap, err := u.snapshotFor(ctx, personaID, v.BaseResumeID)
	if err != nil {
		return resume.JobVariant{}, guardrail.Result{}, err
	}

	approved, err := u.variants.Approve(ctx, personaID, variantID, snap, result, u.now().UTC())
	if err != nil {
		return resume.JobVariant{}, guardrail.Result{}, mapTailoringRepoError(err)
	}
	return approved, result, nil
}

func (u *Tailoring) ApproveCoverLetter(ctx context.Context, personaID, letterID uuid.UUID) (resume.CoverLetter, guardrail.Result, error) {
	if personaID == uuid.Nil || letterID == uuid.Nil {
		return resume.CoverLetter{}, guardrail.Result{}, ErrInvalidInput
	}

	l, err := u.letters.GetByID(ctx, personaID, letterID)
	if err != nil {
		return resume.CoverLetter{}, guardrail.Result{}, mapTailoringRepoError(err)
	}
	p, err := u.postings.GetByID(ctx, l.PostingID)
	if err != nil {
		return resume.CoverLetter{}, guardrail.Result{}, ErrInternal
	}

	result := u.checkLetter(l, p.Company)
	if !result.Passed {
		_ = u.letters.SaveValidationResult(ctx, personaID, letterID, result)
		return resume.CoverLetter{}, result, ErrValidationFailed
	}

	approved, err := u.letters.Approve(ctx, personaID, letterID, result, u.now().UTC())
	if err != nil {
		return resume.CoverLetter{}, guardrail.Result{}, mapTailoringRepoError(err)
	}
	return approved, result, nil
}

func (u *Tailoring) ApprovePackage(ctx context.Context, personaID, variantID, letterID uuid.UUID) (resume.JobVariant, resume.CoverLetter, PackageValidation, error) {
	if personaID == uuid.Nil || variantID == uuid.Nil || letterID == uuid.Nil {
		return resume.JobVariant{}, resume.CoverLetter{}, PackageValidation{}, ErrInvalidInput
	}

	v, err := u.variants.GetByID(ctx, personaID, variantID)
	if err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, PackageValidation{}, mapTailoringRepoError(err)
	}
	l, err := u.letters.GetByID(ctx, personaID, letterID)
	if err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, PackageValidation{}, mapTailoringRepoError(err)
	}
	if l.PostingID != v.PostingID {
		return resume.JobVariant{}, resume.CoverLetter{}, PackageValidation{}, ErrInvalidInput
	}

	vres, err := u.checkVariant(ctx, v)
	if err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, PackageValidation{}, err
	}
	p, err := u.postings.GetByID(ctx, v.PostingID)
	if err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, PackageValidation{}, ErrInternal
	}
	lres := u.checkLetter(l, p.Company)
	checks := PackageValidation{Variant: vres, CoverLetter: lres}

	// Both must pass before either side transitions. The failed verdicts
	// go back to the caller so it can name the blocking artifact.
	if !vres.Passed || !lres.Passed {
		_ = u.variants.SaveGuardrailResult(ctx, personaID, variantID, vres)
		_ = u.letters.SaveValidationResult(ctx, personaID, letterID, lres)
		return resume.JobVariant{}, resume.CoverLetter{}, checks, ErrValidationFailed
	}

	snap, err := u.snapshotFor(ctx, personaID, v.BaseResumeID)
	if err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, checks, err
	}

	approvedV, approvedL, err := u.variants.ApproveWithLetter(ctx, personaID, variantID, letterID, snap, vres, lres, u.now().UTC())
	if err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, checks, mapTailoringRepoError(err)
	}
	return approvedV, approvedL, checks, nil
}

func (u *Tailoring) checkVariant(ctx context.Context, v resume.JobVariant) (guardrail.Result, error) {
	profile, err := u.personas.GetProfile(ctx, v.PersonaID)
	if err != nil {
		return guardrail.Result{}, ErrInternal
	}
	requested, err := u.postings.GetExtractedSkills(ctx, v.PostingID)
	if err != nil {
		return guardrail.Result{}, ErrInternal
	}

	claims := make([]guardrail.BulletClaim, 0, len(v.Bullets))
	for _, b := range v.Bullets {
		claims = append(claims, guardrail.BulletClaim{SourceBulletID: b.SourceBulletID, Text: b.Text})
	}

	check := guardrail.VariantCheck{
		Summary:         v.SummaryOverride,
		Bullets:         claims,
		Skills:          v.Skills,
		RequestedSkills: requested,
		Profile:         profile,
	}
	return check.Validate(), nil
}

func (u *Tailoring) checkLetter(l resume.CoverLetter, companyName string) guardrail.Result {
	check := guardrail.CoverLetterCheck{
		Text:        l.Text(),
		CompanyName: companyName,
		MinWords:    u.policy.CoverLetterMinWords,
		MaxWords:    u.policy.CoverLetterMaxWords,
		Blacklist:   u.policy.BlacklistPhrases,
	}
	return check.Validate()
}

func (u *Tailoring) snapshotFor(ctx context.Context, personaID, baseResumeID uuid.UUID) (resume.Snapshot, error) {
	b, err := u.baseResumes.GetByID(ctx, personaID, baseResumeID)
	if err != nil {
		if errors.Is(err, repository.ErrBaseResumeNotFound) {
			return resume.Snapshot{}, ErrNotFound
		}
		return resume.Snapshot{}, ErrInternal
	}
	return resume.SnapshotOf(b, u.now().UTC()), nil
}

func mapTailoringRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrVariantNotFound), errors.Is(err, repository.ErrLetterNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidTransition):
		return ErrInvalidState
	case errors.Is(err, repository.ErrApprovalConflict):
		return ErrConflict
	default:
		return ErrInternal
	}
}
