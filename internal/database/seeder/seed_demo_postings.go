package seeder

import (
	"context"
	"fmt"

	"applyforge/internal/database"
)

type DemoPostingsSeeder struct{}

func (DemoPostingsSeeder) Name() string { return "demo_postings" }

func (DemoPostingsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := EnsureTableColumns(ctx, db, "job_postings",
		"id", "title", "company", "location", "work_mode", "salary_min", "salary_max",
		"description", "active"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "posting_skills", "posting_id", "skill_name"); err != nil {
		return err
	}
	if err := EnsureTableColumns(ctx, db, "persona_jobs",
		"id", "persona_id", "posting_id", "discovery_method", "status"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	postings := []struct {
		ID        string
		Title     string
		Company   string
		Location  string
		WorkMode  string
		SalaryMin int
		SalaryMax int
		Skills    []string
	}{
		{
			ID: "33333333-3333-3333-3333-333333333331", Title: "Senior Backend Engineer",
			Company: "Acme Cloud", Location: "Jakarta", WorkMode: "remote",
			SalaryMin: 95000, SalaryMax: 130000,
			Skills: []string{"Go", "PostgreSQL", "Kubernetes"},
		},
		{
			ID: "33333333-3333-3333-3333-333333333332", Title: "Platform Engineer",
			Company: "Nimbus Labs", Location: "Singapore", WorkMode: "hybrid",
			SalaryMin: 80000, SalaryMax: 110000,
			Skills: []string{"Go", "Redis", "gRPC", "Terraform"},
		},
	}

	for _, p := range postings {
		_, err := tx.Exec(ctx,
			`INSERT INTO job_postings (id, title, company, location, work_mode, salary_min, salary_max, description, active)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, 'Seeded demo posting.', TRUE)
			 ON CONFLICT (id) DO NOTHING`,
			p.ID, p.Title, p.Company, p.Location, p.WorkMode, p.SalaryMin, p.SalaryMax,
		)
		if err != nil {
			return err
		}
		for _, s := range p.Skills {
			if _, err := tx.Exec(ctx,
				`INSERT INTO posting_skills (posting_id, skill_name) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				p.ID, s,
			); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO persona_jobs (id, persona_id, posting_id, discovery_method, status)
			 VALUES (gen_random_uuid(), $1, $2, 'seed', 'Discovered')
			 ON CONFLICT (persona_id, posting_id) DO NOTHING`,
			demoPersonaID, p.ID,
		); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
