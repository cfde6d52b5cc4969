package main

import (
	"context"
	"flag"
	"log"
	"time"

	"applyforge/internal/app"
	"applyforge/internal/config"
	"applyforge/internal/database/migration"
	"applyforge/internal/database/seeder"
)

func main() {
	migrationsDir := flag.String("migrations", "migrations", "migrations directory")
	skipSeed := flag.Bool("skip-seed", false, "run migrations only")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	r := migration.Runner{Dir: *migrationsDir}
	if err := r.Run(migCtx, c.DB.SQLDB()); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("migrations applied")

	if *skipSeed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s := seeder.Runner{Seeders: seeder.Defaults()}
	if err := s.Run(ctx, c.DB); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	log.Printf("seed complete")
}
