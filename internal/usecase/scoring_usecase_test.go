package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"applyforge/internal/config"
	"applyforge/internal/domain/persona"
	"applyforge/internal/domain/posting"
	"applyforge/internal/repository"

	"github.com/google/uuid"
)

type mockPersonaJobRepo struct {
	job      posting.PersonaJob
	rows     []repository.PersonaJobListRow
	getErr   error
	saveErr  error
	stateErr error

	savedScores   int
	savedFailures int
	lastFailures  []posting.FailedNonNegotiable
}

func (m *mockPersonaJobRepo) GetByID(context.Context, uuid.UUID, uuid.UUID) (posting.PersonaJob, error) {
	if m.getErr != nil {
		return posting.PersonaJob{}, m.getErr
	}
	return m.job, nil
}
func (m *mockPersonaJobRepo) List(context.Context, repository.PersonaJobListFilter) ([]repository.PersonaJobListRow, int, error) {
	return m.rows, len(m.rows), nil
}
func (m *mockPersonaJobRepo) SaveScore(context.Context, uuid.UUID, uuid.UUID, posting.ScoreDetails, time.Time) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedScores++
	return nil
}
func (m *mockPersonaJobRepo) SaveFilterFailures(_ context.Context, _ uuid.UUID, _ uuid.UUID, failures []posting.FailedNonNegotiable) error {
	m.savedFailures++
	m.lastFailures = failures
	return nil
}
func (m *mockPersonaJobRepo) Dismiss(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	return m.stateErr
}
func (m *mockPersonaJobRepo) Archive(context.Context, uuid.UUID, uuid.UUID) error {
	return m.stateErr
}
func (m *mockPersonaJobRepo) SetFavorite(context.Context, uuid.UUID, uuid.UUID, bool) error {
	return m.stateErr
}

type mockPersonaRepo struct {
	profile     persona.Profile
	constraints persona.Constraints
	err         error
}

func (m *mockPersonaRepo) GetProfile(context.Context, uuid.UUID) (persona.Profile, error) {
	return m.profile, m.err
}
func (m *mockPersonaRepo) GetConstraints(context.Context, uuid.UUID) (persona.Constraints, error) {
	return m.constraints, m.err
}

type mockPostingRepo struct {
	posting   posting.Posting
	extracted []string
	activeIDs []uuid.UUID
	getErr    error

	savedSignals int
}

func (m *mockPostingRepo) GetByID(context.Context, uuid.UUID) (posting.Posting, error) {
	if m.getErr != nil {
		return posting.Posting{}, m.getErr
	}
	return m.posting, nil
}
func (m *mockPostingRepo) GetExtractedSkills(context.Context, uuid.UUID) ([]string, error) {
	return m.extracted, nil
}
func (m *mockPostingRepo) ListActiveIDs(context.Context, int) ([]uuid.UUID, error) {
	return m.activeIDs, nil
}
func (m *mockPostingRepo) SaveGhostSignals(context.Context, uuid.UUID, posting.GhostSignals, time.Time) error {
	m.savedSignals++
	return nil
}

func testPolicy() config.PolicyConfig {
	return config.PolicyConfig{
		FitWeights: config.FitWeights{
			HardSkills: 0.35, SoftSkills: 0.15, ExperienceLevel: 0.20,
			TitleSimilarity: 0.15, Logistics: 0.15,
		},
		StretchWeights: config.StretchWeights{TargetRole: 0.40, TargetSkills: 0.35, Growth: 0.25},
		GhostWeights: config.GhostWeights{
			Staleness: 0.30, Repost: 0.25, Vagueness: 0.20, MissingFields: 0.15, ReqMismatch: 0.10,
		},
		StrengthThreshold: 75,
		GapThreshold:      40,
		GhostMediumCutoff: 40,
		GhostHighCutoff:   70,
	}
}

func intPtr(v int) *int { return &v }

func TestScoreJob_FilterFailureBlocksScoring(t *testing.T) {
	personaID := uuid.New()
	jobID := uuid.New()
	postingID := uuid.New()

	jobs := &mockPersonaJobRepo{job: posting.PersonaJob{ID: jobID, PersonaID: personaID, PostingID: postingID}}
	personas := &mockPersonaRepo{constraints: persona.Constraints{MinimumBaseSalary: intPtr(180000)}}
	postings := &mockPostingRepo{posting: posting.Posting{ID: postingID, SalaryMax: intPtr(110000)}}

	uc := NewScoringUsecase(jobs, personas, postings, testPolicy(), nil, nil)
	job, err := uc.ScoreJob(context.Background(), personaID, jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if jobs.savedFailures != 1 {
		t.Fatalf("expected filter failures to be saved once, got %d", jobs.savedFailures)
	}
	if jobs.savedScores != 0 {
		t.Fatalf("a filtered job must never be scored")
	}
	if job.FitScore != nil || job.StretchScore != nil || job.ScoreDetails != nil {
		t.Fatalf("filtered job must carry null scores")
	}
	if len(job.FailedNonNegotiables) != 1 {
		t.Fatalf("expected 1 failed constraint, got %d", len(job.FailedNonNegotiables))
	}
}

func TestScoreJob_PassingJobGetsBothScores(t *testing.T) {
	personaID := uuid.New()
	jobID := uuid.New()
	postingID := uuid.New()

	jobs := &mockPersonaJobRepo{job: posting.PersonaJob{ID: jobID, PersonaID: personaID, PostingID: postingID}}
	personas := &mockPersonaRepo{profile: persona.Profile{
		CurrentTitle: "Backend Engineer",
		Skills:       []persona.Skill{{Name: "Go", Kind: persona.SkillHard, Level: 4}},
	}}
	postings := &mockPostingRepo{
		posting:   posting.Posting{ID: postingID, Title: "Backend Engineer", WorkMode: posting.ModeRemote},
		extracted: []string{"Go"},
	}

	uc := NewScoringUsecase(jobs, personas, postings, testPolicy(), nil, nil)
	job, err := uc.ScoreJob(context.Background(), personaID, jobID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if jobs.savedScores != 1 {
		t.Fatalf("expected score saved once, got %d", jobs.savedScores)
	}
	if job.FitScore == nil || job.StretchScore == nil || job.ScoreDetails == nil {
		t.Fatalf("passing job must carry both scores")
	}
	if job.FailedNonNegotiables != nil {
		t.Fatalf("passing job must have no failed constraints")
	}
	if *job.FitScore != job.ScoreDetails.Fit.Total {
		t.Fatalf("fit total mismatch: %d vs %d", *job.FitScore, job.ScoreDetails.Fit.Total)
	}
}

func TestScoreJob_UnknownJobIsNotFound(t *testing.T) {
	jobs := &mockPersonaJobRepo{getErr: repository.ErrPersonaJobNotFound}
	uc := NewScoringUsecase(jobs, &mockPersonaRepo{}, &mockPostingRepo{}, testPolicy(), nil, nil)

	_, err := uc.ScoreJob(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRescoreAll_ContinuesPastFailures(t *testing.T) {
	personaID := uuid.New()
	goodPosting := uuid.New()

	jobs := &mockPersonaJobRepo{rows: []repository.PersonaJobListRow{
		{Job: posting.PersonaJob{ID: uuid.New(), PersonaID: personaID, PostingID: goodPosting}},
		{Job: posting.PersonaJob{ID: uuid.New(), PersonaID: personaID, PostingID: goodPosting}},
	}}
	personas := &mockPersonaRepo{profile: persona.Profile{CurrentTitle: "Engineer"}}
	postings := &mockPostingRepo{posting: posting.Posting{ID: goodPosting, Title: "Engineer"}}

	uc := NewScoringUsecase(jobs, personas, postings, testPolicy(), nil, nil)
	processed, err := uc.RescoreAll(context.Background(), personaID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if processed != 2 {
		t.Fatalf("expected 2 processed, got %d", processed)
	}
}
