package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"applyforge/internal/database"
	"applyforge/internal/domain/resume"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrBaseResumeNotFound = errors.New("base resume not found")

type BaseResumeRepository interface {
	GetByID(ctx context.Context, personaID, resumeID uuid.UUID) (resume.BaseResume, error)
	ListActive(ctx context.Context, personaID uuid.UUID) ([]resume.BaseResume, error)
	// AddSkillEmphasis appends the skill only when it is not already
	// present, so flag-resolution replay cannot double-insert.
	AddSkillEmphasis(ctx context.Context, personaID, resumeID uuid.UUID, skill string) error
	AddIncludedWorkHistory(ctx context.Context, personaID, resumeID, itemID uuid.UUID) error
	AddIncludedCertification(ctx context.Context, personaID, resumeID, itemID uuid.UUID) error
	AddIncludedEducation(ctx context.Context, personaID, resumeID, itemID uuid.UUID) error
}

type PostgresBaseResumeRepository struct {
	db database.DB
}

func NewPostgresBaseResumeRepository(db database.DB) *PostgresBaseResumeRepository {
	return &PostgresBaseResumeRepository{db: db}
}

const baseResumeColumns = `id, persona_id, COALESCE(name,''), COALESCE(included_work_history,'{}'),
	COALESCE(included_education,'{}'), COALESCE(included_certifications,'{}'),
	COALESCE(bullet_selection,'{}'), COALESCE(skills_emphasis,'{}'),
	rendered, is_primary, archived, created_at, updated_at`

func scanBaseResume(scan func(dest ...any) error) (resume.BaseResume, error) {
	var b resume.BaseResume
	var selectionRaw []byte
	err := scan(&b.ID, &b.PersonaID, &b.Name, &b.IncludedWorkHistoryIDs,
		&b.IncludedEducationIDs, &b.IncludedCertificationIDs,
		&selectionRaw, &b.SkillsEmphasis,
		&b.Rendered, &b.Primary, &b.Archived, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return resume.BaseResume{}, err
	}
	if len(selectionRaw) > 0 && string(selectionRaw) != "{}" {
		if err := json.Unmarshal(selectionRaw, &b.BulletSelection); err != nil {
			return resume.BaseResume{}, err
		}
	}
	return b, nil
}

func (r *PostgresBaseResumeRepository) GetByID(ctx context.Context, personaID, resumeID uuid.UUID) (resume.BaseResume, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+baseResumeColumns+` FROM base_resumes WHERE id = $1 AND persona_id = $2`,
		resumeID, personaID,
	)
	b, err := scanBaseResume(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.BaseResume{}, ErrBaseResumeNotFound
		}
		return resume.BaseResume{}, err
	}
	return b, nil
}

func (r *PostgresBaseResumeRepository) ListActive(ctx context.Context, personaID uuid.UUID) ([]resume.BaseResume, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+baseResumeColumns+` FROM base_resumes
		 WHERE persona_id = $1 AND archived = FALSE
		 ORDER BY is_primary DESC, created_at`,
		personaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]resume.BaseResume, 0)
	for rows.Next() {
		b, err := scanBaseResume(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresBaseResumeRepository) AddSkillEmphasis(ctx context.Context, personaID, resumeID uuid.UUID, skill string) error {
	n, err := r.db.Exec(ctx,
		`UPDATE base_resumes
		 SET skills_emphasis = array_append(skills_emphasis, $3), updated_at = $4
		 WHERE id = $1 AND persona_id = $2 AND NOT ($3 = ANY(COALESCE(skills_emphasis,'{}')))`,
		resumeID, personaID, skill, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		// Either the resume is unknown or the skill is already emphasised;
		// both are fine for an idempotent apply, but an unknown resume is
		// the caller's bug.
		var exists bool
		row := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM base_resumes WHERE id = $1 AND persona_id = $2)`,
			resumeID, personaID,
		)
		if err := row.Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrBaseResumeNotFound
		}
	}
	return nil
}

func (r *PostgresBaseResumeRepository) AddIncludedWorkHistory(ctx context.Context, personaID, resumeID, itemID uuid.UUID) error {
	return r.addIncluded(ctx, "included_work_history", personaID, resumeID, itemID)
}

func (r *PostgresBaseResumeRepository) AddIncludedCertification(ctx context.Context, personaID, resumeID, itemID uuid.UUID) error {
	return r.addIncluded(ctx, "included_certifications", personaID, resumeID, itemID)
}

func (r *PostgresBaseResumeRepository) AddIncludedEducation(ctx context.Context, personaID, resumeID, itemID uuid.UUID) error {
	return r.addIncluded(ctx, "included_education", personaID, resumeID, itemID)
}

func (r *PostgresBaseResumeRepository) addIncluded(ctx context.Context, column string, personaID, resumeID, itemID uuid.UUID) error {
	n, err := r.db.Exec(ctx,
		`UPDATE base_resumes
		 SET `+column+` = array_append(`+column+`, $3), updated_at = $4
		 WHERE id = $1 AND persona_id = $2 AND NOT ($3 = ANY(COALESCE(`+column+`,'{}')))`,
		resumeID, personaID, itemID, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		row := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM base_resumes WHERE id = $1 AND persona_id = $2)`,
			resumeID, personaID,
		)
		if err := row.Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrBaseResumeNotFound
		}
	}
	return nil
}

var _ BaseResumeRepository = (*PostgresBaseResumeRepository)(nil)
