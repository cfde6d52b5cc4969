package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"applyforge/internal/repository"

	"github.com/google/uuid"
)

type bulkMockRepo struct {
	mockPersonaJobRepo
	failOn map[uuid.UUID]error
}

func (m *bulkMockRepo) Dismiss(_ context.Context, _ uuid.UUID, jobID uuid.UUID, _ time.Time) error {
	return m.failOn[jobID]
}
func (m *bulkMockRepo) Archive(_ context.Context, _ uuid.UUID, jobID uuid.UUID) error {
	return m.failOn[jobID]
}
func (m *bulkMockRepo) SetFavorite(_ context.Context, _ uuid.UUID, jobID uuid.UUID, _ bool) error {
	return m.failOn[jobID]
}

func TestBulk_PartialFailureNeverAbortsBatch(t *testing.T) {
	good1 := uuid.New()
	missing := uuid.New()
	good2 := uuid.New()

	repo := &bulkMockRepo{failOn: map[uuid.UUID]error{missing: repository.ErrPersonaJobNotFound}}
	uc := NewJobUsecase(repo, nil, nil)

	result, err := uc.Bulk(context.Background(), uuid.New(), BulkActionDismiss, []uuid.UUID{good1, missing, good2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(result.Succeeded) != 2 {
		t.Fatalf("expected 2 succeeded, got %d", len(result.Succeeded))
	}
	if len(result.Failed) != 1 {
		t.Fatalf("expected 1 failed, got %d", len(result.Failed))
	}
	if result.Failed[0].JobID != missing {
		t.Fatalf("wrong failed job id")
	}
	if result.Failed[0].Reason != "not found" {
		t.Fatalf("unexpected failure reason %q", result.Failed[0].Reason)
	}
}

func TestBulk_InvalidStateReportedPerItem(t *testing.T) {
	dismissed := uuid.New()
	repo := &bulkMockRepo{failOn: map[uuid.UUID]error{dismissed: repository.ErrInvalidJobState}}
	uc := NewJobUsecase(repo, nil, nil)

	result, err := uc.Bulk(context.Background(), uuid.New(), BulkActionArchive, []uuid.UUID{dismissed})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(result.Failed) != 1 || result.Failed[0].Reason != "incompatible state" {
		t.Fatalf("expected incompatible state failure, got %+v", result.Failed)
	}
}

func TestBulk_UnknownActionRejected(t *testing.T) {
	uc := NewJobUsecase(&bulkMockRepo{}, nil, nil)
	_, err := uc.Bulk(context.Background(), uuid.New(), "promote", []uuid.UUID{uuid.New()})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBulk_EmptyBatchRejected(t *testing.T) {
	uc := NewJobUsecase(&bulkMockRepo{}, nil, nil)
	_, err := uc.Bulk(context.Background(), uuid.New(), BulkActionDismiss, nil)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestList_RejectsOversizedPage(t *testing.T) {
	uc := NewJobUsecase(&mockPersonaJobRepo{}, nil, nil)
	_, _, err := uc.List(context.Background(), uuid.New(), JobListParams{PerPage: 500})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDismiss_MapsRepositoryErrors(t *testing.T) {
	missing := uuid.New()
	repo := &bulkMockRepo{failOn: map[uuid.UUID]error{missing: repository.ErrPersonaJobNotFound}}
	uc := NewJobUsecase(repo, nil, nil)

	if err := uc.Dismiss(context.Background(), uuid.New(), missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	stuck := uuid.New()
	repo.failOn[stuck] = repository.ErrInvalidJobState
	if err := uc.Dismiss(context.Background(), uuid.New(), stuck); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}
