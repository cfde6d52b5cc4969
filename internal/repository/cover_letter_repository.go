package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"applyforge/internal/database"
	"applyforge/internal/domain/guardrail"
	"applyforge/internal/domain/lifecycle"
	"applyforge/internal/domain/resume"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CoverLetterRepository interface {
	CreateDraft(ctx context.Context, l resume.CoverLetter) (resume.CoverLetter, error)
	GetByID(ctx context.Context, personaID, letterID uuid.UUID) (resume.CoverLetter, error)
	SaveValidationResult(ctx context.Context, personaID, letterID uuid.UUID, result guardrail.Result) error
	Approve(ctx context.Context, personaID, letterID uuid.UUID, result guardrail.Result, at time.Time) (resume.CoverLetter, error)
	Archive(ctx context.Context, personaID, letterID uuid.UUID) (resume.CoverLetter, error)
}

type PostgresCoverLetterRepository struct {
	db database.DB
}

func NewPostgresCoverLetterRepository(db database.DB) *PostgresCoverLetterRepository {
	return &PostgresCoverLetterRepository{db: db}
}

const coverLetterColumns = `id, persona_id, posting_id, variant_id, COALESCE(draft_text,''),
	COALESCE(final_text,''), COALESCE(story_ids,'{}'), validation_result,
	status, approved_at, created_at, updated_at`

func scanCoverLetter(scan func(dest ...any) error) (resume.CoverLetter, error) {
	var l resume.CoverLetter
	var status string
	var resultRaw []byte
	err := scan(&l.ID, &l.PersonaID, &l.PostingID, &l.VariantID, &l.DraftText,
		&l.FinalText, &l.StoryIDs, &resultRaw,
		&status, &l.ApprovedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return resume.CoverLetter{}, err
	}
	l.Status = lifecycle.Status(status)
	if len(resultRaw) > 0 {
		var res guardrail.Result
		if err := json.Unmarshal(resultRaw, &res); err != nil {
			return resume.CoverLetter{}, err
		}
		l.ValidationResult = &res
	}
	return l, nil
}

func (r *PostgresCoverLetterRepository) CreateDraft(ctx context.Context, l resume.CoverLetter) (resume.CoverLetter, error) {
	var resultRaw []byte
	var err error
	if l.ValidationResult != nil {
		resultRaw, err = json.Marshal(l.ValidationResult)
		if err != nil {
			return resume.CoverLetter{}, err
		}
	}
	now := time.Now().UTC()
	row := r.db.QueryRow(ctx,
		`INSERT INTO cover_letters
		     (id, persona_id, posting_id, variant_id, draft_text, story_ids,
		      validation_result, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,'Draft',$8,$8)
		 RETURNING `+coverLetterColumns,
		l.ID, l.PersonaID, l.PostingID, l.VariantID, l.DraftText, l.StoryIDs, resultRaw, now,
	)
	return scanCoverLetter(row.Scan)
}

func (r *PostgresCoverLetterRepository) GetByID(ctx context.Context, personaID, letterID uuid.UUID) (resume.CoverLetter, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+coverLetterColumns+` FROM cover_letters WHERE id = $1 AND persona_id = $2`,
		letterID, personaID,
	)
	l, err := scanCoverLetter(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.CoverLetter{}, ErrLetterNotFound
		}
		return resume.CoverLetter{}, err
	}
	return l, nil
}

func (r *PostgresCoverLetterRepository) SaveValidationResult(ctx context.Context, personaID, letterID uuid.UUID, result guardrail.Result) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx,
		`UPDATE cover_letters SET validation_result = $3, updated_at = $4
		 WHERE id = $1 AND persona_id = $2`,
		letterID, personaID, b, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLetterNotFound
	}
	return nil
}

func (r *PostgresCoverLetterRepository) Approve(ctx context.Context, personaID, letterID uuid.UUID, result guardrail.Result, at time.Time) (resume.CoverLetter, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return resume.CoverLetter{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := approveLetterInTx(ctx, tx, personaID, letterID, result, at); err != nil {
		return resume.CoverLetter{}, err
	}
	l, err := scanCoverLetter(tx.QueryRow(ctx,
		`SELECT `+coverLetterColumns+` FROM cover_letters WHERE id = $1`, letterID).Scan)
	if err != nil {
		return resume.CoverLetter{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return resume.CoverLetter{}, err
	}
	return l, nil
}

func approveLetterInTx(ctx context.Context, tx database.Tx, personaID, letterID uuid.UUID, result guardrail.Result, at time.Time) error {
	var status string
	row := tx.QueryRow(ctx,
		`SELECT status FROM cover_letters WHERE id = $1 AND persona_id = $2 FOR UPDATE`,
		letterID, personaID,
	)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrLetterNotFound
		}
		return err
	}
	if !lifecycle.IsTransitionAllowed(lifecycle.Status(status), lifecycle.StatusApproved) {
		return ErrInvalidTransition
	}

	resRaw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	n, err := tx.Exec(ctx,
		`UPDATE cover_letters
		 SET status = 'Approved', approved_at = $3, final_text = COALESCE(NULLIF(final_text,''), draft_text),
		     validation_result = $4, updated_at = $3
		 WHERE id = $1 AND persona_id = $2 AND status = 'Draft'`,
		letterID, personaID, at, resRaw,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApprovalConflict
	}
	return nil
}

func (r *PostgresCoverLetterRepository) Archive(ctx context.Context, personaID, letterID uuid.UUID) (resume.CoverLetter, error) {
	_, err := r.db.Exec(ctx,
		`UPDATE cover_letters SET status = 'Archived', updated_at = $3
		 WHERE id = $1 AND persona_id = $2 AND status <> 'Archived'`,
		letterID, personaID, time.Now().UTC(),
	)
	if err != nil {
		return resume.CoverLetter{}, err
	}
	return r.GetByID(ctx, personaID, letterID)
}

var _ CoverLetterRepository = (*PostgresCoverLetterRepository)(nil)
