package seeder

import (
	"context"
	"fmt"

	"applyforge/internal/database"
)

// Fixed IDs keep reruns idempotent.
const (
	demoPersonaID    = "11111111-1111-1111-1111-111111111111"
	demoBaseResumeID = "22222222-2222-2222-2222-222222222222"
)

type DemoPersonaSeeder struct{}

func (DemoPersonaSeeder) Name() string { return "demo_persona" }

func (DemoPersonaSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "personas",
		"id", "current_title", "location", "years_experience", "skills",
		"target_roles", "target_skills", "minimum_base_salary", "remote_policy"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "base_resumes",
		"id", "persona_id", "name", "skills_emphasis", "is_primary"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO personas (id, current_title, location, years_experience, skills,
		                       target_roles, target_skills, minimum_base_salary, remote_policy)
		 VALUES ($1, 'Backend Engineer', 'Jakarta', 5,
		         '[{"name":"Go","years":4},{"name":"PostgreSQL","years":5},{"name":"Redis","years":3}]',
		         ARRAY['Senior Backend Engineer','Staff Engineer'],
		         ARRAY['Kubernetes','gRPC'],
		         90000, 'any')
		 ON CONFLICT (id) DO NOTHING`,
		demoPersonaID,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO base_resumes (id, persona_id, name, skills_emphasis, is_primary)
		 VALUES ($1, $2, 'General Backend', ARRAY['Go','PostgreSQL'], TRUE)
		 ON CONFLICT (id) DO NOTHING`,
		demoBaseResumeID, demoPersonaID,
	)
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
