package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"applyforge/internal/database"
	"applyforge/internal/domain/posting"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrPersonaJobNotFound = errors.New("persona job not found")
	ErrInvalidJobState    = errors.New("persona job in incompatible state")
)

type PersonaJobListFilter struct {
	PersonaID    uuid.UUID
	ShowFiltered bool
	Limit        int
	Offset       int
}

type PersonaJobListRow struct {
	Job     posting.PersonaJob
	Title   string
	Company string
}

type PersonaJobRepository interface {
	GetByID(ctx context.Context, personaID, jobID uuid.UUID) (posting.PersonaJob, error)
	List(ctx context.Context, f PersonaJobListFilter) ([]PersonaJobListRow, int, error)
	// SaveScore applies score_details, both totals and scored_at in one
	// UPDATE so a concurrent read never observes a torn score. It also
	// clears failed_non_negotiables: a scored job passed the filter.
	SaveScore(ctx context.Context, personaID, jobID uuid.UUID, details posting.ScoreDetails, scoredAt time.Time) error
	// SaveFilterFailures stores the failed constraints and nulls both
	// scores in the same statement — filtering precedes scoring.
	SaveFilterFailures(ctx context.Context, personaID, jobID uuid.UUID, failures []posting.FailedNonNegotiable) error
	Dismiss(ctx context.Context, personaID, jobID uuid.UUID, at time.Time) error
	Archive(ctx context.Context, personaID, jobID uuid.UUID) error
	SetFavorite(ctx context.Context, personaID, jobID uuid.UUID, favorite bool) error
}

type PostgresPersonaJobRepository struct {
	db database.DB
}

func NewPostgresPersonaJobRepository(db database.DB) *PostgresPersonaJobRepository {
	return &PostgresPersonaJobRepository{db: db}
}

const personaJobColumns = `id, persona_id, posting_id, COALESCE(discovery_method,''), favorite,
	status, fit_score, stretch_score, score_details, COALESCE(failed_non_negotiables,'[]'),
	scored_at, dismissed_at, created_at`

const personaJobColumnsQualified = `pj.id, pj.persona_id, pj.posting_id, COALESCE(pj.discovery_method,''), pj.favorite,
	pj.status, pj.fit_score, pj.stretch_score, pj.score_details, COALESCE(pj.failed_non_negotiables,'[]'),
	pj.scored_at, pj.dismissed_at, pj.created_at`

func scanPersonaJob(row database.Row) (posting.PersonaJob, error) {
	var pj posting.PersonaJob
	var status string
	var detailsRaw, failuresRaw []byte
	err := row.Scan(&pj.ID, &pj.PersonaID, &pj.PostingID, &pj.DiscoveryMethod, &pj.Favorite,
		&status, &pj.FitScore, &pj.StretchScore, &detailsRaw, &failuresRaw,
		&pj.ScoredAt, &pj.DismissedAt, &pj.CreatedAt)
	if err != nil {
		return posting.PersonaJob{}, err
	}
	st, ok := posting.ParseStatus(status)
	if !ok {
		return posting.PersonaJob{}, fmt.Errorf("persona job %s has unknown status %q", pj.ID, status)
	}
	pj.Status = st
	if len(detailsRaw) > 0 {
		var d posting.ScoreDetails
		if err := json.Unmarshal(detailsRaw, &d); err != nil {
			return posting.PersonaJob{}, err
		}
		pj.ScoreDetails = &d
	}
	if len(failuresRaw) > 0 {
		if err := json.Unmarshal(failuresRaw, &pj.FailedNonNegotiables); err != nil {
			return posting.PersonaJob{}, err
		}
	}
	return pj, nil
}

func (r *PostgresPersonaJobRepository) GetByID(ctx context.Context, personaID, jobID uuid.UUID) (posting.PersonaJob, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+personaJobColumns+` FROM persona_jobs WHERE id = $1 AND persona_id = $2`,
		jobID, personaID,
	)
	pj, err := scanPersonaJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return posting.PersonaJob{}, ErrPersonaJobNotFound
		}
		return posting.PersonaJob{}, err
	}
	return pj, nil
}

func (r *PostgresPersonaJobRepository) List(ctx context.Context, f PersonaJobListFilter) ([]PersonaJobListRow, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	// Filtered postings stay queryable, they are just hidden by default.
	filterClause := ` AND COALESCE(jsonb_array_length(pj.failed_non_negotiables),0) = 0`
	if f.ShowFiltered {
		filterClause = ``
	}

	var total int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM persona_jobs pj
		 WHERE pj.persona_id = $1 AND pj.status <> 'Dismissed'`+filterClause,
		f.PersonaID,
	)
	if err := row.Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+personaJobColumnsQualified+`, COALESCE(p.title,''), COALESCE(p.company,'')
		 FROM persona_jobs pj
		 JOIN job_postings p ON p.id = pj.posting_id
		 WHERE pj.persona_id = $1 AND pj.status <> 'Dismissed'`+filterClause+`
		 ORDER BY pj.fit_score DESC NULLS LAST, pj.created_at DESC
		 LIMIT $2 OFFSET $3`,
		f.PersonaID, f.Limit, f.Offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PersonaJobListRow, 0, f.Limit)
	for rows.Next() {
		var pj posting.PersonaJob
		var status string
		var detailsRaw, failuresRaw []byte
		var title, company string
		err := rows.Scan(&pj.ID, &pj.PersonaID, &pj.PostingID, &pj.DiscoveryMethod, &pj.Favorite,
			&status, &pj.FitScore, &pj.StretchScore, &detailsRaw, &failuresRaw,
			&pj.ScoredAt, &pj.DismissedAt, &pj.CreatedAt, &title, &company)
		if err != nil {
			return nil, 0, err
		}
		st, ok := posting.ParseStatus(status)
		if !ok {
			return nil, 0, fmt.Errorf("persona job %s has unknown status %q", pj.ID, status)
		}
		pj.Status = st
		if len(detailsRaw) > 0 {
			var d posting.ScoreDetails
			if err := json.Unmarshal(detailsRaw, &d); err != nil {
				return nil, 0, err
			}
			pj.ScoreDetails = &d
		}
		if len(failuresRaw) > 0 {
			if err := json.Unmarshal(failuresRaw, &pj.FailedNonNegotiables); err != nil {
				return nil, 0, err
			}
		}
		out = append(out, PersonaJobListRow{Job: pj, Title: title, Company: company})
	}
	return out, total, rows.Err()
}

func (r *PostgresPersonaJobRepository) SaveScore(ctx context.Context, personaID, jobID uuid.UUID, details posting.ScoreDetails, scoredAt time.Time) error {
	b, err := json.Marshal(details)
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx,
		`UPDATE persona_jobs
		 SET score_details = $3, fit_score = $4, stretch_score = $5, scored_at = $6,
		     failed_non_negotiables = '[]'
		 WHERE id = $1 AND persona_id = $2`,
		jobID, personaID, b, details.Fit.Total, details.Stretch.Total, scoredAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPersonaJobNotFound
	}
	return nil
}

func (r *PostgresPersonaJobRepository) SaveFilterFailures(ctx context.Context, personaID, jobID uuid.UUID, failures []posting.FailedNonNegotiable) error {
	b, err := json.Marshal(failures)
	if err != nil {
		return err
	}
	n, err := r.db.Exec(ctx,
		`UPDATE persona_jobs
		 SET failed_non_negotiables = $3, score_details = NULL, fit_score = NULL,
		     stretch_score = NULL, scored_at = NULL
		 WHERE id = $1 AND persona_id = $2`,
		jobID, personaID, b,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPersonaJobNotFound
	}
	return nil
}

func (r *PostgresPersonaJobRepository) Dismiss(ctx context.Context, personaID, jobID uuid.UUID, at time.Time) error {
	n, err := r.db.Exec(ctx,
		`UPDATE persona_jobs SET status = 'Dismissed', dismissed_at = $3
		 WHERE id = $1 AND persona_id = $2 AND status <> 'Dismissed'`,
		jobID, personaID, at,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return r.stateOrNotFound(ctx, personaID, jobID)
	}
	return nil
}

func (r *PostgresPersonaJobRepository) Archive(ctx context.Context, personaID, jobID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE persona_jobs SET status = 'Archived'
		 WHERE id = $1 AND persona_id = $2 AND status <> 'Archived'`,
		jobID, personaID,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return r.stateOrNotFound(ctx, personaID, jobID)
	}
	return nil
}

func (r *PostgresPersonaJobRepository) SetFavorite(ctx context.Context, personaID, jobID uuid.UUID, favorite bool) error {
	n, err := r.db.Exec(ctx,
		`UPDATE persona_jobs SET favorite = $3 WHERE id = $1 AND persona_id = $2`,
		jobID, personaID, favorite,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPersonaJobNotFound
	}
	return nil
}

// stateOrNotFound distinguishes "row missing" from "precondition failed" so
// bulk actions can report an accurate per-item reason.
func (r *PostgresPersonaJobRepository) stateOrNotFound(ctx context.Context, personaID, jobID uuid.UUID) error {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM persona_jobs WHERE id = $1 AND persona_id = $2)`,
		jobID, personaID,
	)
	if err := row.Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrPersonaJobNotFound
	}
	return ErrInvalidJobState
}

var _ PersonaJobRepository = (*PostgresPersonaJobRepository)(nil)
