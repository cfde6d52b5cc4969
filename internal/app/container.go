package app

import (
	"context"
	"log"
	"time"

	"applyforge/internal/config"
	"applyforge/internal/database"
	dbpostgres "applyforge/internal/database/postgres"
	"applyforge/internal/delivery/http/handler"
	"applyforge/internal/delivery/http/middleware"
	v1 "applyforge/internal/delivery/http/routes/v1"
	"applyforge/internal/infrastructure/cache"
	"applyforge/internal/infrastructure/generator"
	"applyforge/internal/pkg/jwt"
	"applyforge/internal/repository"
	"applyforge/internal/scheduler"
	"applyforge/internal/usecase"
	"applyforge/internal/usecase/rescore"
	"applyforge/internal/ws"
)

// Container owns every long-lived dependency. Construction order runs
// infrastructure, repositories, usecases, then delivery.
type Container struct {
	Config config.Config
	Logger *log.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub

	Scoring   *usecase.Scoring
	Ghost     *usecase.Ghost
	Scheduler *scheduler.Scheduler

	Health *handler.HealthHandler
	V1Deps v1.Deps
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.Default()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	redisCache := cache.NewRedis(cfg.Redis, logger)
	hub := ws.NewHub(logger)
	notifier := ws.NewNotifier(hub, logger)
	gen := generator.NewClient(cfg.Generator.BaseURL, cfg.Generator.Timeout, logger)

	personaRepo := repository.NewPostgresPersonaRepository(db)
	postingRepo := repository.NewPostgresPostingRepository(db)
	personaJobRepo := repository.NewPostgresPersonaJobRepository(db)
	baseResumeRepo := repository.NewPostgresBaseResumeRepository(db)
	variantRepo := repository.NewPostgresVariantRepository(db)
	letterRepo := repository.NewPostgresCoverLetterRepository(db)
	flagRepo := repository.NewPostgresChangeFlagRepository(db)

	scoringUC := usecase.NewScoringUsecase(personaJobRepo, personaRepo, postingRepo, cfg.Policy, redisCache, logger)
	ghostUC := usecase.NewGhostUsecase(postingRepo, cfg.Policy, logger)
	jobUC := usecase.NewJobUsecase(personaJobRepo, redisCache, logger)
	tailoringUC := usecase.NewTailoringUsecase(variantRepo, letterRepo, baseResumeRepo, personaRepo, postingRepo, gen, cfg.Policy, logger)
	flagUC := usecase.NewChangeFlagUsecase(flagRepo, baseResumeRepo, notifier, logger)
	dispatcher := rescore.NewDispatcher(scoringUC, redisCache, notifier, logger)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	return &Container{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Cache:     redisCache,
		Hub:       hub,
		Scoring:   scoringUC,
		Ghost:     ghostUC,
		Scheduler: scheduler.New(ghostUC, cfg.Policy.GhostReverifyHours, logger),
		Health:    handler.NewHealthHandler(db, redisCache),
		V1Deps: v1.Deps{
			Auth:        middleware.NewAuthMiddleware(jwtSvc),
			Jobs:        handler.NewJobsHandler(jobUC, scoringUC, dispatcher),
			Ghost:       handler.NewGhostHandler(ghostUC),
			Tailoring:   handler.NewTailoringHandler(tailoringUC),
			ChangeFlags: handler.NewChangeFlagHandler(flagUC),
			WS:          ws.NewHandler(hub, logger),
		},
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
