// Package ghost scores how likely a posting is to be stale, fake, or not
// actively hiring. Detection is idempotent: unchanged inputs reproduce the
// exact same GhostSignals, and the aggregate never decreases when days open
// or repost count grow with everything else fixed.
package ghost

import (
	"math"
	"strings"

	"applyforge/internal/domain/posting"
)

type Weights struct {
	Staleness     float64
	Repost        float64
	Vagueness     float64
	MissingFields float64
	ReqMismatch   float64
}

// Tiers holds the display cutoffs: score < Medium is Low, < High is Medium.
type Tiers struct {
	Medium int
	High   int
}

type Input struct {
	Posting         posting.Posting
	DaysOpen        int
	ExtractedSkills []string
}

// vagueBuzzwords are phrases that pad a description without saying anything
// about the actual work.
var vagueBuzzwords = []string{
	"fast-paced", "rockstar", "ninja", "guru", "wear many hats",
	"self-starter", "dynamic environment", "competitive salary",
	"unlimited potential", "work hard play hard", "family culture",
}

// Detect computes all five sub-scores and the weighted aggregate.
func Detect(in Input, w Weights, tiers Tiers) posting.GhostSignals {
	staleness := stalenessScore(in.DaysOpen)
	repost := repostScore(in.Posting.RepostCount)
	vagueness := vaguenessScore(in.Posting.Description)
	missing := missingFieldsScore(in.Posting)
	mismatch := requirementMismatchScore(in.Posting, in.ExtractedSkills)

	total := w.Staleness*float64(staleness) +
		w.Repost*float64(repost) +
		w.Vagueness*float64(vagueness) +
		w.MissingFields*float64(missing) +
		w.ReqMismatch*float64(mismatch)

	score := int(math.Round(total))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return posting.GhostSignals{
		DaysOpen:      in.DaysOpen,
		RepostCount:   in.Posting.RepostCount,
		Staleness:     staleness,
		Repost:        repost,
		Vagueness:     vagueness,
		MissingFields: missing,
		ReqMismatch:   mismatch,
		GhostScore:    score,
		Tier:          Tier(score, tiers),
	}
}

// Tier maps a ghost score onto its display band.
func Tier(score int, t Tiers) posting.GhostTier {
	switch {
	case score < t.Medium:
		return posting.TierLow
	case score < t.High:
		return posting.TierMedium
	default:
		return posting.TierHigh
	}
}

// stalenessScore ramps linearly: fresh under a week, saturated at 90 days.
func stalenessScore(daysOpen int) int {
	if daysOpen <= 7 {
		return 0
	}
	if daysOpen >= 90 {
		return 100
	}
	return int(math.Round(100 * float64(daysOpen-7) / float64(90-7)))
}

// repostScore climbs 30 points per repost, saturating at three.
func repostScore(reposts int) int {
	if reposts <= 0 {
		return 0
	}
	score := reposts * 30
	if score > 100 {
		score = 100
	}
	return score
}

func vaguenessScore(description string) int {
	desc := strings.ToLower(strings.TrimSpace(description))
	if desc == "" {
		return 100
	}

	score := 0
	words := len(strings.Fields(desc))
	switch {
	case words < 50:
		score += 50
	case words < 120:
		score += 25
	}

	hits := 0
	for _, b := range vagueBuzzwords {
		if strings.Contains(desc, b) {
			hits++
		}
	}
	score += hits * 15

	// A description that never states a concrete requirement is a signal in
	// itself.
	if !strings.Contains(desc, "experience") && !strings.Contains(desc, "require") && !strings.Contains(desc, "must") {
		score += 20
	}

	if score > 100 {
		score = 100
	}
	return score
}

func missingFieldsScore(p posting.Posting) int {
	missing := 0
	if p.SalaryMin == nil && p.SalaryMax == nil {
		missing++
	}
	if strings.TrimSpace(p.Location) == "" {
		missing++
	}
	if strings.TrimSpace(p.Industry) == "" {
		missing++
	}
	if strings.TrimSpace(p.Description) == "" {
		missing++
	}
	if len(p.Requirements) == 0 {
		missing++
	}
	return missing * 20
}

// requirementMismatchScore flags postings whose structured requirements and
// extracted skills barely overlap — a sign of a template ad.
func requirementMismatchScore(p posting.Posting, extracted []string) int {
	if len(p.Requirements) == 0 || len(extracted) == 0 {
		return 0
	}
	skills := make(map[string]bool, len(extracted))
	for _, s := range extracted {
		skills[strings.ToLower(strings.TrimSpace(s))] = true
	}
	matched := 0
	for _, r := range p.Requirements {
		req := strings.ToLower(r)
		for s := range skills {
			if s != "" && strings.Contains(req, s) {
				matched++
				break
			}
		}
	}
	unmatched := len(p.Requirements) - matched
	if unmatched <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(unmatched) / float64(len(p.Requirements))))
}
