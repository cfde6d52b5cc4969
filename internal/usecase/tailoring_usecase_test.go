package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"applyforge/internal/domain/guardrail"
	"applyforge/internal/domain/lifecycle"
	"applyforge/internal/domain/persona"
	"applyforge/internal/domain/posting"
	"applyforge/internal/domain/resume"
	"applyforge/internal/repository"

	"github.com/google/uuid"
)

type mockVariantRepo struct {
	variant    resume.JobVariant
	getErr     error
	approveErr error

	approveCalls int
	lastSnapshot resume.Snapshot
	savedResults int
}

func (m *mockVariantRepo) CreateDraft(_ context.Context, v resume.JobVariant) (resume.JobVariant, error) {
	return v, nil
}
func (m *mockVariantRepo) GetByID(context.Context, uuid.UUID, uuid.UUID) (resume.JobVariant, error) {
	if m.getErr != nil {
		return resume.JobVariant{}, m.getErr
	}
	return m.variant, nil
}
func (m *mockVariantRepo) SaveGuardrailResult(context.Context, uuid.UUID, uuid.UUID, guardrail.Result) error {
	m.savedResults++
	return nil
}
func (m *mockVariantRepo) Approve(_ context.Context, _ uuid.UUID, _ uuid.UUID, snap resume.Snapshot, result guardrail.Result, at time.Time) (resume.JobVariant, error) {
	if m.approveErr != nil {
		return resume.JobVariant{}, m.approveErr
	}
	m.approveCalls++
	m.lastSnapshot = snap
	v := m.variant
	v.Status = lifecycle.StatusApproved
	v.ApprovedAt = &at
	v.Snapshot = snap
	v.GuardrailResult = &result
	return v, nil
}
func (m *mockVariantRepo) ApproveWithLetter(_ context.Context, _ uuid.UUID, _ uuid.UUID, _ uuid.UUID, snap resume.Snapshot, vres, _ guardrail.Result, at time.Time) (resume.JobVariant, resume.CoverLetter, error) {
	if m.approveErr != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, m.approveErr
	}
	m.approveCalls++
	m.lastSnapshot = snap
	v := m.variant
	v.Status = lifecycle.StatusApproved
	v.ApprovedAt = &at
	l := resume.CoverLetter{Status: lifecycle.StatusApproved, ApprovedAt: &at}
	return v, l, nil
}
func (m *mockVariantRepo) Archive(context.Context, uuid.UUID, uuid.UUID) (resume.JobVariant, error) {
	return m.variant, nil
}

type mockLetterRepo struct {
	letter resume.CoverLetter
	getErr error

	savedResults int
}

func (m *mockLetterRepo) CreateDraft(_ context.Context, l resume.CoverLetter) (resume.CoverLetter, error) {
	return l, nil
}
func (m *mockLetterRepo) GetByID(context.Context, uuid.UUID, uuid.UUID) (resume.CoverLetter, error) {
	if m.getErr != nil {
		return resume.CoverLetter{}, m.getErr
	}
	return m.letter, nil
}
func (m *mockLetterRepo) SaveValidationResult(context.Context, uuid.UUID, uuid.UUID, guardrail.Result) error {
	m.savedResults++
	return nil
}
func (m *mockLetterRepo) Approve(context.Context, uuid.UUID, uuid.UUID, guardrail.Result, time.Time) (resume.CoverLetter, error) {
	return m.letter, nil
}
func (m *mockLetterRepo) Archive(context.Context, uuid.UUID, uuid.UUID) (resume.CoverLetter, error) {
	return m.letter, nil
}

type mockBaseResumeRepo struct {
	resumes  []resume.BaseResume
	getErr   error
	applyErr error

	emphasized map[uuid.UUID][]string
	included   map[uuid.UUID][]uuid.UUID
}

func (m *mockBaseResumeRepo) GetByID(_ context.Context, _ uuid.UUID, resumeID uuid.UUID) (resume.BaseResume, error) {
	if m.getErr != nil {
		return resume.BaseResume{}, m.getErr
	}
	for _, b := range m.resumes {
		if b.ID == resumeID {
			return b, nil
		}
	}
	return resume.BaseResume{}, repository.ErrBaseResumeNotFound
}
func (m *mockBaseResumeRepo) ListActive(context.Context, uuid.UUID) ([]resume.BaseResume, error) {
	return m.resumes, nil
}
func (m *mockBaseResumeRepo) AddSkillEmphasis(_ context.Context, _ uuid.UUID, resumeID uuid.UUID, skill string) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	if m.emphasized == nil {
		m.emphasized = make(map[uuid.UUID][]string)
	}
	m.emphasized[resumeID] = append(m.emphasized[resumeID], skill)
	return nil
}
func (m *mockBaseResumeRepo) AddIncludedWorkHistory(_ context.Context, _ uuid.UUID, resumeID, itemID uuid.UUID) error {
	if m.included == nil {
		m.included = make(map[uuid.UUID][]uuid.UUID)
	}
	m.included[resumeID] = append(m.included[resumeID], itemID)
	return nil
}
func (m *mockBaseResumeRepo) AddIncludedCertification(ctx context.Context, personaID, resumeID, itemID uuid.UUID) error {
	return m.AddIncludedWorkHistory(ctx, personaID, resumeID, itemID)
}
func (m *mockBaseResumeRepo) AddIncludedEducation(ctx context.Context, personaID, resumeID, itemID uuid.UUID) error {
	return m.AddIncludedWorkHistory(ctx, personaID, resumeID, itemID)
}

func tailoringFixture(variants *mockVariantRepo, letters *mockLetterRepo, resumes *mockBaseResumeRepo, personas *mockPersonaRepo, postings *mockPostingRepo) *Tailoring {
	return NewTailoringUsecase(variants, letters, resumes, personas, postings, nil, testPolicy(), nil)
}

func TestApproveVariant_BlockedByFabricatedSkill(t *testing.T) {
	personaID := uuid.New()
	variantID := uuid.New()
	baseResumeID := uuid.New()

	variants := &mockVariantRepo{variant: resume.JobVariant{
		ID:           variantID,
		PersonaID:    personaID,
		BaseResumeID: baseResumeID,
		Skills:       []string{"Kubernetes"},
		Status:       lifecycle.StatusDraft,
	}}
	personas := &mockPersonaRepo{profile: persona.Profile{
		Skills: []persona.Skill{{Name: "Go", Kind: persona.SkillHard, Level: 4}},
	}}
	resumes := &mockBaseResumeRepo{resumes: []resume.BaseResume{{ID: baseResumeID, PersonaID: personaID}}}

	uc := tailoringFixture(variants, &mockLetterRepo{}, resumes, personas, &mockPostingRepo{})
	_, result, err := uc.ApproveVariant(context.Background(), personaID, variantID)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if result.Passed {
		t.Fatalf("result must not pass with a fabricated skill")
	}
	if variants.approveCalls != 0 {
		t.Fatalf("failed validation must never reach the approval transaction")
	}
	if variants.savedResults != 1 {
		t.Fatalf("failing result should still be persisted for the UI")
	}
}

func TestApproveVariant_SnapshotsCurrentTemplate(t *testing.T) {
	personaID := uuid.New()
	variantID := uuid.New()
	baseResumeID := uuid.New()
	workID := uuid.New()

	variants := &mockVariantRepo{variant: resume.JobVariant{
		ID:           variantID,
		PersonaID:    personaID,
		BaseResumeID: baseResumeID,
		Status:       lifecycle.StatusDraft,
	}}
	personas := &mockPersonaRepo{profile: persona.Profile{
		Skills: []persona.Skill{{Name: "Go", Kind: persona.SkillHard, Level: 4}},
	}}
	resumes := &mockBaseResumeRepo{resumes: []resume.BaseResume{{
		ID:                     baseResumeID,
		PersonaID:              personaID,
		IncludedWorkHistoryIDs: []uuid.UUID{workID},
		SkillsEmphasis:         []string{"Go"},
	}}}

	uc := tailoringFixture(variants, &mockLetterRepo{}, resumes, personas, &mockPostingRepo{})
	approved, result, err := uc.ApproveVariant(context.Background(), personaID, variantID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !result.Passed {
		t.Fatalf("expected passing result, got %+v", result.Violations)
	}
	if approved.Status != lifecycle.StatusApproved {
		t.Fatalf("expected Approved status, got %s", approved.Status)
	}
	if len(variants.lastSnapshot.IncludedWorkHistoryIDs) != 1 || variants.lastSnapshot.IncludedWorkHistoryIDs[0] != workID {
		t.Fatalf("snapshot must freeze the template's included work history")
	}
	if variants.lastSnapshot.TakenAt.IsZero() {
		t.Fatalf("snapshot must record when it was taken")
	}
}

func TestApproveVariant_RaceLoserGetsConflict(t *testing.T) {
	personaID := uuid.New()
	variantID := uuid.New()
	baseResumeID := uuid.New()

	variants := &mockVariantRepo{
		variant: resume.JobVariant{
			ID: variantID, PersonaID: personaID, BaseResumeID: baseResumeID,
			Status: lifecycle.StatusDraft,
		},
		approveErr: repository.ErrApprovalConflict,
	}
	resumes := &mockBaseResumeRepo{resumes: []resume.BaseResume{{ID: baseResumeID, PersonaID: personaID}}}

	uc := tailoringFixture(variants, &mockLetterRepo{}, resumes, &mockPersonaRepo{}, &mockPostingRepo{})
	_, _, err := uc.ApproveVariant(context.Background(), personaID, variantID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestApprovePackage_RejectsMismatchedPosting(t *testing.T) {
	personaID := uuid.New()
	variantID := uuid.New()
	letterID := uuid.New()

	variants := &mockVariantRepo{variant: resume.JobVariant{
		ID: variantID, PersonaID: personaID, PostingID: uuid.New(), Status: lifecycle.StatusDraft,
	}}
	letters := &mockLetterRepo{letter: resume.CoverLetter{
		ID: letterID, PersonaID: personaID, PostingID: uuid.New(), Status: lifecycle.StatusDraft,
	}}

	uc := tailoringFixture(variants, letters, &mockBaseResumeRepo{}, &mockPersonaRepo{}, &mockPostingRepo{})
	_, _, _, err := uc.ApprovePackage(context.Background(), personaID, variantID, letterID)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for mismatched posting, got %v", err)
	}
	if variants.approveCalls != 0 {
		t.Fatalf("mismatched pair must not be approved")
	}
}

func TestApprovePackage_VerdictsNameBlockingArtifact(t *testing.T) {
	personaID := uuid.New()
	variantID := uuid.New()
	letterID := uuid.New()
	baseResumeID := uuid.New()
	postingID := uuid.New()

	variants := &mockVariantRepo{variant: resume.JobVariant{
		ID: variantID, PersonaID: personaID, BaseResumeID: baseResumeID, PostingID: postingID,
		Status: lifecycle.StatusDraft,
	}}
	letters := &mockLetterRepo{letter: resume.CoverLetter{
		ID: letterID, PersonaID: personaID, PostingID: postingID,
		DraftText: "To whom it may concern, I would like a job.",
		Status:    lifecycle.StatusDraft,
	}}
	personas := &mockPersonaRepo{profile: persona.Profile{
		Skills: []persona.Skill{{Name: "Go", Kind: persona.SkillHard, Level: 4}},
	}}
	resumes := &mockBaseResumeRepo{resumes: []resume.BaseResume{{ID: baseResumeID, PersonaID: personaID}}}
	postings := &mockPostingRepo{posting: posting.Posting{ID: postingID, Company: "Acme Cloud"}}

	policy := testPolicy()
	policy.BlacklistPhrases = []string{"to whom it may concern"}
	uc := NewTailoringUsecase(variants, letters, resumes, personas, postings, nil, policy, nil)

	_, _, checks, err := uc.ApprovePackage(context.Background(), personaID, variantID, letterID)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if !checks.Variant.Passed {
		t.Fatalf("variant verdict must pass, got %+v", checks.Variant.Violations)
	}
	if checks.CoverLetter.Passed {
		t.Fatalf("cover letter verdict must fail so the caller sees which side blocked")
	}
	if variants.approveCalls != 0 {
		t.Fatalf("blocked package must never reach the approval transaction")
	}
	if variants.savedResults != 1 || letters.savedResults != 1 {
		t.Fatalf("both verdicts should be persisted for the UI")
	}
}

func TestApproveCoverLetter_PromotesPassingLetter(t *testing.T) {
	personaID := uuid.New()
	letterID := uuid.New()
	postingID := uuid.New()

	letters := &mockLetterRepo{letter: resume.CoverLetter{
		ID: letterID, PersonaID: personaID, PostingID: postingID,
		DraftText: "I build reliable backend systems at Acme Cloud scale.",
		Status:    lifecycle.StatusDraft,
	}}
	postings := &mockPostingRepo{posting: posting.Posting{ID: postingID, Company: "Acme Cloud"}}

	uc := tailoringFixture(&mockVariantRepo{}, letters, &mockBaseResumeRepo{}, &mockPersonaRepo{}, postings)
	_, result, err := uc.ApproveCoverLetter(context.Background(), personaID, letterID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !result.Passed {
		t.Fatalf("expected passing result, got %+v", result.Violations)
	}
}

func TestApproveCoverLetter_BlockedByBlacklistedPhrase(t *testing.T) {
	personaID := uuid.New()
	letterID := uuid.New()
	postingID := uuid.New()

	letters := &mockLetterRepo{letter: resume.CoverLetter{
		ID: letterID, PersonaID: personaID, PostingID: postingID,
		DraftText: "To whom it may concern, I would like a job.",
		Status:    lifecycle.StatusDraft,
	}}
	postings := &mockPostingRepo{posting: posting.Posting{ID: postingID, Company: "Acme Cloud"}}

	policy := testPolicy()
	policy.BlacklistPhrases = []string{"to whom it may concern"}
	uc := NewTailoringUsecase(&mockVariantRepo{}, letters, &mockBaseResumeRepo{}, &mockPersonaRepo{}, postings, nil, policy, nil)

	_, result, err := uc.ApproveCoverLetter(context.Background(), personaID, letterID)
	if !errors.Is(err, ErrValidationFailed) {
		t.Fatalf("expected ErrValidationFailed, got %v", err)
	}
	if result.Passed {
		t.Fatalf("result must not pass with a blacklisted phrase")
	}
	if letters.savedResults != 1 {
		t.Fatalf("failing result should still be persisted for the UI")
	}
}

func TestValidateVariant_UnknownVariantIsNotFound(t *testing.T) {
	variants := &mockVariantRepo{getErr: repository.ErrVariantNotFound}
	uc := tailoringFixture(variants, &mockLetterRepo{}, &mockBaseResumeRepo{}, &mockPersonaRepo{}, &mockPostingRepo{})

	_, err := uc.ValidateVariant(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateVariant_DisabledWithoutClient(t *testing.T) {
	uc := tailoringFixture(&mockVariantRepo{}, &mockLetterRepo{}, &mockBaseResumeRepo{}, &mockPersonaRepo{}, &mockPostingRepo{})
	_, err := uc.GenerateVariant(context.Background(), uuid.New(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrGenerationDisabled) {
		t.Fatalf("expected ErrGenerationDisabled, got %v", err)
	}
}
