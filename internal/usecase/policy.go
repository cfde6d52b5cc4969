package usecase

import (
	"applyforge/internal/config"
	"applyforge/internal/domain/ghost"
	"applyforge/internal/domain/scoring"
)

func scoringWeights(p config.PolicyConfig) scoring.Weights {
	return scoring.Weights{
		Fit: scoring.FitWeights{
			HardSkills:      p.FitWeights.HardSkills,
			SoftSkills:      p.FitWeights.SoftSkills,
			ExperienceLevel: p.FitWeights.ExperienceLevel,
			TitleSimilarity: p.FitWeights.TitleSimilarity,
			Logistics:       p.FitWeights.Logistics,
		},
		Stretch: scoring.StretchWeights{
			TargetRole:   p.StretchWeights.TargetRole,
			TargetSkills: p.StretchWeights.TargetSkills,
			Growth:       p.StretchWeights.Growth,
		},
	}
}

func scoringThresholds(p config.PolicyConfig) scoring.Thresholds {
	return scoring.Thresholds{
		Strength: p.StrengthThreshold,
		Gap:      p.GapThreshold,
	}
}

func ghostWeights(p config.PolicyConfig) ghost.Weights {
	return ghost.Weights{
		Staleness:     p.GhostWeights.Staleness,
		Repost:        p.GhostWeights.Repost,
		Vagueness:     p.GhostWeights.Vagueness,
		MissingFields: p.GhostWeights.MissingFields,
		ReqMismatch:   p.GhostWeights.ReqMismatch,
	}
}

func ghostTiers(p config.PolicyConfig) ghost.Tiers {
	return ghost.Tiers{
		Medium: p.GhostMediumCutoff,
		High:   p.GhostHighCutoff,
	}
}
