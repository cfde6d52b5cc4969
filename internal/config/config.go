package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Generator GeneratorConfig
	Policy    PolicyConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

type JWTConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type GeneratorConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PolicyConfig carries every tunable scoring and validation constant.
// Weights within one score must sum to 1.0; Load rejects configs where
// they do not.
type PolicyConfig struct {
	FitWeights     FitWeights
	StretchWeights StretchWeights
	GhostWeights   GhostWeights

	// Components at or above StrengthThreshold are reported as strengths,
	// components below GapThreshold as gaps.
	StrengthThreshold float64
	GapThreshold      float64

	// Ghost tier cutoffs: score < MediumCutoff is Low, < HighCutoff is
	// Medium, anything else High.
	GhostMediumCutoff int
	GhostHighCutoff   int

	CoverLetterMinWords int
	CoverLetterMaxWords int
	BlacklistPhrases    []string

	GhostReverifyHours int
}

type FitWeights struct {
	HardSkills      float64
	SoftSkills      float64
	ExperienceLevel float64
	TitleSimilarity float64
	Logistics       float64
}

type StretchWeights struct {
	TargetRole   float64
	TargetSkills float64
	Growth       float64
}

type GhostWeights struct {
	Staleness     float64
	Repost        float64
	Vagueness     float64
	MissingFields float64
	ReqMismatch   float64
}

const weightEpsilon = 1e-6

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errWeightsSum         = errors.New("score weights must sum to 1.0")
)

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:     opt("DB_HOST", ""),
		DBPort:     opt("DB_PORT", ""),
		DBName:     opt("DB_NAME", ""),
		DBUser:     opt("DB_USER", ""),
		DBPassword: opt("DB_PASSWORD", ""),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        optDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
		PoolMaxConns:          int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:          int32(optInt("DB_POOL_MIN_CONNS", 2)),
		PoolMaxConnLifetime:   optDuration("DB_POOL_MAX_CONN_LIFETIME", time.Hour),
		PoolMaxConnIdleTime:   optDuration("DB_POOL_MAX_CONN_IDLE_TIME", 30*time.Minute),
		PoolHealthCheckPeriod: optDuration("DB_POOL_HEALTH_CHECK_PERIOD", time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: opt("REDIS_PASSWORD", ""),
	}

	cfg.JWT = JWTConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
		RefreshExpiresIn: optDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
	}

	cfg.Generator = GeneratorConfig{
		BaseURL: opt("GENERATOR_BASE_URL", ""),
		Timeout: optDuration("GENERATOR_TIMEOUT", 30*time.Second),
	}

	cfg.Policy = loadPolicy()

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	if err := cfg.Policy.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadPolicy() PolicyConfig {
	return PolicyConfig{
		FitWeights: FitWeights{
			HardSkills:      optFloat("FIT_WEIGHT_HARD_SKILLS", 0.35),
			SoftSkills:      optFloat("FIT_WEIGHT_SOFT_SKILLS", 0.15),
			ExperienceLevel: optFloat("FIT_WEIGHT_EXPERIENCE", 0.20),
			TitleSimilarity: optFloat("FIT_WEIGHT_TITLE", 0.15),
			Logistics:       optFloat("FIT_WEIGHT_LOGISTICS", 0.15),
		},
		StretchWeights: StretchWeights{
			TargetRole:   optFloat("STRETCH_WEIGHT_TARGET_ROLE", 0.40),
			TargetSkills: optFloat("STRETCH_WEIGHT_TARGET_SKILLS", 0.35),
			Growth:       optFloat("STRETCH_WEIGHT_GROWTH", 0.25),
		},
		GhostWeights: GhostWeights{
			Staleness:     optFloat("GHOST_WEIGHT_STALENESS", 0.30),
			Repost:        optFloat("GHOST_WEIGHT_REPOST", 0.25),
			Vagueness:     optFloat("GHOST_WEIGHT_VAGUENESS", 0.20),
			MissingFields: optFloat("GHOST_WEIGHT_MISSING_FIELDS", 0.15),
			ReqMismatch:   optFloat("GHOST_WEIGHT_REQ_MISMATCH", 0.10),
		},

		StrengthThreshold: optFloat("SCORE_STRENGTH_THRESHOLD", 75),
		GapThreshold:      optFloat("SCORE_GAP_THRESHOLD", 40),

		GhostMediumCutoff: optInt("GHOST_MEDIUM_CUTOFF", 40),
		GhostHighCutoff:   optInt("GHOST_HIGH_CUTOFF", 70),

		CoverLetterMinWords: optInt("COVER_LETTER_MIN_WORDS", 250),
		CoverLetterMaxWords: optInt("COVER_LETTER_MAX_WORDS", 350),
		BlacklistPhrases:    optList("COVER_LETTER_BLACKLIST", "to whom it may concern;i am writing to apply;dear sir or madam"),

		GhostReverifyHours: optInt("GHOST_REVERIFY_HOURS", 12),
	}
}

func (p PolicyConfig) Validate() error {
	sums := []struct {
		name string
		sum  float64
	}{
		{"fit", p.FitWeights.HardSkills + p.FitWeights.SoftSkills + p.FitWeights.ExperienceLevel + p.FitWeights.TitleSimilarity + p.FitWeights.Logistics},
		{"stretch", p.StretchWeights.TargetRole + p.StretchWeights.TargetSkills + p.StretchWeights.Growth},
		{"ghost", p.GhostWeights.Staleness + p.GhostWeights.Repost + p.GhostWeights.Vagueness + p.GhostWeights.MissingFields + p.GhostWeights.ReqMismatch},
	}
	for _, s := range sums {
		if s.sum < 1.0-weightEpsilon || s.sum > 1.0+weightEpsilon {
			return fmt.Errorf("%w: %s weights sum to %v", errWeightsSum, s.name, s.sum)
		}
	}
	if p.GhostMediumCutoff <= 0 || p.GhostHighCutoff <= p.GhostMediumCutoff {
		return fmt.Errorf("invalid ghost tier cutoffs: medium=%d high=%d", p.GhostMediumCutoff, p.GhostHighCutoff)
	}
	if p.CoverLetterMinWords <= 0 || p.CoverLetterMaxWords <= p.CoverLetterMinWords {
		return fmt.Errorf("invalid cover letter word band: [%d,%d]", p.CoverLetterMinWords, p.CoverLetterMaxWords)
	}
	return nil
}

func optFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func optInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func optDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return v
}

func optList(key, def string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		raw = def
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
