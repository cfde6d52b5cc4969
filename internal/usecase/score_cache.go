package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ScoreCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	InvalidatePersonaScores(ctx context.Context, personaID string) error
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
}

func ScoreCacheKey(personaID, jobID uuid.UUID) string {
	return fmt.Sprintf("scores:%s:%s", personaID, jobID)
}

func JobListCacheKey(personaID uuid.UUID, showFiltered bool, limit, offset int) string {
	return fmt.Sprintf("jobs:list:%s:%t:%d:%d", personaID, showFiltered, limit, offset)
}

func RescoreLockKey(personaID uuid.UUID) string {
	return "rescore:lock:" + personaID.String()
}
