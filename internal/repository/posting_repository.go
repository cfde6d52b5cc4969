package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"applyforge/internal/database"
	"applyforge/internal/domain/posting"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrPostingNotFound = errors.New("posting not found")

type PostingRepository interface {
	GetByID(ctx context.Context, postingID uuid.UUID) (posting.Posting, error)
	GetExtractedSkills(ctx context.Context, postingID uuid.UUID) ([]string, error)
	ListActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
	// SaveGhostSignals writes the computed signals back onto the posting
	// row; everything else on the row belongs to the ingestion pipeline.
	SaveGhostSignals(ctx context.Context, postingID uuid.UUID, signals posting.GhostSignals, checkedAt time.Time) error
}

type PostgresPostingRepository struct {
	db database.DB
}

func NewPostgresPostingRepository(db database.DB) *PostgresPostingRepository {
	return &PostgresPostingRepository{db: db}
}

func (r *PostgresPostingRepository) GetByID(ctx context.Context, postingID uuid.UUID) (posting.Posting, error) {
	var p posting.Posting
	var workMode string
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(title,''), COALESCE(company,''), COALESCE(location,''),
		        COALESCE(work_mode,'onsite'), COALESCE(industry,''), salary_min, salary_max,
		        COALESCE(description,''), COALESCE(requirements,'{}'), COALESCE(content_hash,''),
		        COALESCE(repost_count,0), first_seen_at, last_seen_at, verified_at, active
		 FROM job_postings WHERE id = $1`,
		postingID,
	)
	err := row.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &workMode, &p.Industry,
		&p.SalaryMin, &p.SalaryMax, &p.Description, &p.Requirements, &p.ContentHash,
		&p.RepostCount, &p.FirstSeenAt, &p.LastSeenAt, &p.VerifiedAt, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return posting.Posting{}, ErrPostingNotFound
		}
		return posting.Posting{}, err
	}
	p.WorkMode = posting.WorkMode(workMode)
	return p, nil
}

func (r *PostgresPostingRepository) GetExtractedSkills(ctx context.Context, postingID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT skill_name FROM posting_skills WHERE posting_id = $1 ORDER BY skill_name`,
		postingID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PostgresPostingRepository) ListActiveIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.db.Query(ctx,
		`SELECT id FROM job_postings WHERE active = TRUE ORDER BY last_seen_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *PostgresPostingRepository) SaveGhostSignals(ctx context.Context, postingID uuid.UUID, signals posting.GhostSignals, checkedAt time.Time) error {
	b, err := json.Marshal(signals)
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx,
		`UPDATE job_postings SET ghost_signals = $2, ghost_score = $3, ghost_checked_at = $4 WHERE id = $1`,
		postingID, b, signals.GhostScore, checkedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPostingNotFound
	}
	return nil
}

var _ PostingRepository = (*PostgresPostingRepository)(nil)
