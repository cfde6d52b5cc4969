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

var (
	ErrVariantNotFound   = errors.New("variant not found")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrApprovalConflict  = errors.New("concurrent approval conflict")
	ErrLetterNotFound    = errors.New("cover letter not found")
)

type VariantRepository interface {
	CreateDraft(ctx context.Context, v resume.JobVariant) (resume.JobVariant, error)
	GetByID(ctx context.Context, personaID, variantID uuid.UUID) (resume.JobVariant, error)
	SaveGuardrailResult(ctx context.Context, personaID, variantID uuid.UUID, result guardrail.Result) error
	// Approve performs the Draft→Approved transition as one transaction:
	// it archives any other live approved variant for the same
	// (base resume, posting) pair, freezes the snapshot, and promotes the
	// target with a status precondition so two racers cannot both win.
	Approve(ctx context.Context, personaID, variantID uuid.UUID, snap resume.Snapshot, result guardrail.Result, at time.Time) (resume.JobVariant, error)
	// ApproveWithLetter additionally promotes a cover letter inside the
	// same transaction; if either side cannot transition, neither does.
	ApproveWithLetter(ctx context.Context, personaID, variantID, letterID uuid.UUID, snap resume.Snapshot, vres, lres guardrail.Result, at time.Time) (resume.JobVariant, resume.CoverLetter, error)
	Archive(ctx context.Context, personaID, variantID uuid.UUID) (resume.JobVariant, error)
}

type PostgresVariantRepository struct {
	db database.DB
}

func NewPostgresVariantRepository(db database.DB) *PostgresVariantRepository {
	return &PostgresVariantRepository{db: db}
}

const variantColumns = `id, persona_id, base_resume_id, posting_id, COALESCE(summary_override,''),
	COALESCE(bullets,'[]'), COALESCE(skills,'{}'), COALESCE(bullet_order,'{}'),
	COALESCE(snapshot,'{}'), COALESCE(agent_reasoning,''), guardrail_result,
	status, approved_at, created_at, updated_at`

func scanVariant(scan func(dest ...any) error) (resume.JobVariant, error) {
	var v resume.JobVariant
	var status string
	var bulletsRaw, snapshotRaw, resultRaw []byte
	err := scan(&v.ID, &v.PersonaID, &v.BaseResumeID, &v.PostingID, &v.SummaryOverride,
		&bulletsRaw, &v.Skills, &v.BulletOrder,
		&snapshotRaw, &v.AgentReasoning, &resultRaw,
		&status, &v.ApprovedAt, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return resume.JobVariant{}, err
	}
	v.Status = lifecycle.Status(status)
	if len(bulletsRaw) > 0 {
		if err := json.Unmarshal(bulletsRaw, &v.Bullets); err != nil {
			return resume.JobVariant{}, err
		}
	}
	if len(snapshotRaw) > 0 && string(snapshotRaw) != "{}" {
		if err := json.Unmarshal(snapshotRaw, &v.Snapshot); err != nil {
			return resume.JobVariant{}, err
		}
	}
	if len(resultRaw) > 0 {
		var res guardrail.Result
		if err := json.Unmarshal(resultRaw, &res); err != nil {
			return resume.JobVariant{}, err
		}
		v.GuardrailResult = &res
	}
	return v, nil
}

func (r *PostgresVariantRepository) CreateDraft(ctx context.Context, v resume.JobVariant) (resume.JobVariant, error) {
	bulletsRaw, err := json.Marshal(v.Bullets)
	if err != nil {
		return resume.JobVariant{}, err
	}
	var resultRaw []byte
	if v.GuardrailResult != nil {
		resultRaw, err = json.Marshal(v.GuardrailResult)
		if err != nil {
			return resume.JobVariant{}, err
		}
	}
	now := time.Now().UTC()
	row := r.db.QueryRow(ctx,
		`INSERT INTO job_variants
		     (id, persona_id, base_resume_id, posting_id, summary_override, bullets, skills,
		      bullet_order, agent_reasoning, guardrail_result, status, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,'Draft',$11,$11)
		 RETURNING `+variantColumns,
		v.ID, v.PersonaID, v.BaseResumeID, v.PostingID, v.SummaryOverride, bulletsRaw,
		v.Skills, v.BulletOrder, v.AgentReasoning, resultRaw, now,
	)
	return scanVariant(row.Scan)
}

func (r *PostgresVariantRepository) GetByID(ctx context.Context, personaID, variantID uuid.UUID) (resume.JobVariant, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+variantColumns+` FROM job_variants WHERE id = $1 AND persona_id = $2`,
		variantID, personaID,
	)
	v, err := scanVariant(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.JobVariant{}, ErrVariantNotFound
		}
		return resume.JobVariant{}, err
	}
	return v, nil
}

func (r *PostgresVariantRepository) SaveGuardrailResult(ctx context.Context, personaID, variantID uuid.UUID, result guardrail.Result) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx,
		`UPDATE job_variants SET guardrail_result = $3, updated_at = $4
		 WHERE id = $1 AND persona_id = $2`,
		variantID, personaID, b, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVariantNotFound
	}
	return nil
}

func (r *PostgresVariantRepository) Approve(ctx context.Context, personaID, variantID uuid.UUID, snap resume.Snapshot, result guardrail.Result, at time.Time) (resume.JobVariant, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return resume.JobVariant{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := approveVariantInTx(ctx, tx, personaID, variantID, snap, result, at); err != nil {
		return resume.JobVariant{}, err
	}

	v, err := scanVariant(tx.QueryRow(ctx,
		`SELECT `+variantColumns+` FROM job_variants WHERE id = $1`, variantID).Scan)
	if err != nil {
		return resume.JobVariant{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return resume.JobVariant{}, err
	}
	return v, nil
}

func (r *PostgresVariantRepository) ApproveWithLetter(ctx context.Context, personaID, variantID, letterID uuid.UUID, snap resume.Snapshot, vres, lres guardrail.Result, at time.Time) (resume.JobVariant, resume.CoverLetter, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := approveVariantInTx(ctx, tx, personaID, variantID, snap, vres, at); err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, err
	}
	if err := approveLetterInTx(ctx, tx, personaID, letterID, lres, at); err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, err
	}

	v, err := scanVariant(tx.QueryRow(ctx,
		`SELECT `+variantColumns+` FROM job_variants WHERE id = $1`, variantID).Scan)
	if err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, err
	}
	l, err := scanCoverLetter(tx.QueryRow(ctx,
		`SELECT `+coverLetterColumns+` FROM cover_letters WHERE id = $1`, letterID).Scan)
	if err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return resume.JobVariant{}, resume.CoverLetter{}, err
	}
	return v, l, nil
}

// approveVariantInTx holds the row lock for the whole check-and-set so the
// one-live-approved invariant survives concurrent callers.
func approveVariantInTx(ctx context.Context, tx database.Tx, personaID, variantID uuid.UUID, snap resume.Snapshot, result guardrail.Result, at time.Time) error {
	var status string
	var baseResumeID, postingID uuid.UUID
	row := tx.QueryRow(ctx,
		`SELECT status, base_resume_id, posting_id FROM job_variants
		 WHERE id = $1 AND persona_id = $2 FOR UPDATE`,
		variantID, personaID,
	)
	if err := row.Scan(&status, &baseResumeID, &postingID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrVariantNotFound
		}
		return err
	}
	if !lifecycle.IsTransitionAllowed(lifecycle.Status(status), lifecycle.StatusApproved) {
		return ErrInvalidTransition
	}

	// A new approval displaces the prior live one for the same pair.
	_, err := tx.Exec(ctx,
		`UPDATE job_variants SET status = 'Archived', updated_at = $4
		 WHERE base_resume_id = $1 AND posting_id = $2 AND status = 'Approved' AND id <> $3`,
		baseResumeID, postingID, variantID, at,
	)
	if err != nil {
		return err
	}

	snapRaw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	resRaw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	n, err := tx.Exec(ctx,
		`UPDATE job_variants
		 SET status = 'Approved', approved_at = $3, snapshot = $4, guardrail_result = $5, updated_at = $3
		 WHERE id = $1 AND persona_id = $2 AND status = 'Draft'`,
		variantID, personaID, at, snapRaw, resRaw,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrApprovalConflict
	}
	return nil
}

func (r *PostgresVariantRepository) Archive(ctx context.Context, personaID, variantID uuid.UUID) (resume.JobVariant, error) {
	// Archiving an archived artifact is a no-op, not an error.
	_, err := r.db.Exec(ctx,
		`UPDATE job_variants SET status = 'Archived', updated_at = $3
		 WHERE id = $1 AND persona_id = $2 AND status <> 'Archived'`,
		variantID, personaID, time.Now().UTC(),
	)
	if err != nil {
		return resume.JobVariant{}, err
	}
	return r.GetByID(ctx, personaID, variantID)
}

var _ VariantRepository = (*PostgresVariantRepository)(nil)
