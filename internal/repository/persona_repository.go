package repository

import (
	"context"
	"encoding/json"
	"errors"

	"applyforge/internal/database"
	"applyforge/internal/domain/persona"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrPersonaNotFound = errors.New("persona not found")

type PersonaRepository interface {
	GetProfile(ctx context.Context, personaID uuid.UUID) (persona.Profile, error)
	GetConstraints(ctx context.Context, personaID uuid.UUID) (persona.Constraints, error)
}

type PostgresPersonaRepository struct {
	db database.DB
}

func NewPostgresPersonaRepository(db database.DB) *PostgresPersonaRepository {
	return &PostgresPersonaRepository{db: db}
}

// GetProfile loads the full source-of-truth profile. Work history, skills
// and stories are stored as jsonb documents on the persona row; they are
// edited as a unit and always read as a unit, so one row read is cheaper
// than five joins.
func (r *PostgresPersonaRepository) GetProfile(ctx context.Context, personaID uuid.UUID) (persona.Profile, error) {
	var p persona.Profile
	var skillsRaw, historyRaw, educationRaw, certsRaw, storiesRaw []byte
	var targetRoles, targetSkills []string

	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(current_title,''), COALESCE(location,''), COALESCE(years_experience,0),
		        COALESCE(skills,'[]'), COALESCE(target_roles,'{}'), COALESCE(target_skills,'{}'),
		        COALESCE(work_history,'[]'), COALESCE(education,'[]'),
		        COALESCE(certifications,'[]'), COALESCE(stories,'[]')
		 FROM personas WHERE id = $1`,
		personaID,
	)
	err := row.Scan(&p.PersonaID, &p.CurrentTitle, &p.Location, &p.YearsExperience,
		&skillsRaw, &targetRoles, &targetSkills,
		&historyRaw, &educationRaw, &certsRaw, &storiesRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return persona.Profile{}, ErrPersonaNotFound
		}
		return persona.Profile{}, err
	}

	p.TargetRoles = targetRoles
	p.TargetSkills = targetSkills
	docs := []struct {
		raw  []byte
		dest any
	}{
		{skillsRaw, &p.Skills},
		{historyRaw, &p.WorkHistory},
		{educationRaw, &p.Education},
		{certsRaw, &p.Certifications},
		{storiesRaw, &p.Stories},
	}
	for _, d := range docs {
		if len(d.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(d.raw, d.dest); err != nil {
			return persona.Profile{}, err
		}
	}
	return p, nil
}

func (r *PostgresPersonaRepository) GetConstraints(ctx context.Context, personaID uuid.UUID) (persona.Constraints, error) {
	var c persona.Constraints
	var remotePolicy string
	var customRaw []byte

	row := r.db.QueryRow(ctx,
		`SELECT minimum_base_salary, COALESCE(remote_policy,'any'), commute_radius_km,
		        COALESCE(home_location,''), COALESCE(excluded_industries,'{}'), COALESCE(custom_filters,'[]')
		 FROM personas WHERE id = $1`,
		personaID,
	)
	err := row.Scan(&c.MinimumBaseSalary, &remotePolicy, &c.CommuteRadiusKm,
		&c.HomeLocation, &c.ExcludedIndustries, &customRaw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return persona.Constraints{}, ErrPersonaNotFound
		}
		return persona.Constraints{}, err
	}

	c.RemotePolicy = persona.RemotePolicy(remotePolicy)
	if len(customRaw) > 0 {
		if err := json.Unmarshal(customRaw, &c.CustomFilters); err != nil {
			return persona.Constraints{}, err
		}
	}
	return c, nil
}

var _ PersonaRepository = (*PostgresPersonaRepository)(nil)
