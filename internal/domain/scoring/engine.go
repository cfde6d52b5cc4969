// Package scoring computes the fit and stretch scores for a persona job.
// Everything in here is a pure function of its inputs: identical inputs
// always produce identical ScoreDetails, which is what makes re-score
// no-change detection and reproducible tests possible.
package scoring

import (
	"fmt"
	"math"
	"strings"

	"applyforge/internal/domain/persona"
	"applyforge/internal/domain/posting"
)

const (
	ComponentHardSkills      = "hard_skills"
	ComponentSoftSkills      = "soft_skills"
	ComponentExperienceLevel = "experience_level"
	ComponentTitleSimilarity = "title_similarity"
	ComponentLogistics       = "logistics"

	ComponentTargetRole   = "target_role"
	ComponentTargetSkills = "target_skills"
	ComponentGrowth       = "growth"
)

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

type Weights struct {
	Fit     FitWeights
	Stretch StretchWeights
}

type Thresholds struct {
	Strength float64
	Gap      float64
}

type Input struct {
	Posting posting.Posting
	Profile persona.Profile
	// ExtractedSkills are the skills the ingestion pipeline pulled out of
	// the posting description.
	ExtractedSkills []string
}

// Score computes both weighted sums plus the structured explanation.
func Score(in Input, w Weights, th Thresholds) posting.ScoreDetails {
	warnings := dataQualityWarnings(in)

	fitComponents := []posting.Component{
		{Name: ComponentHardSkills, Score: skillMatch(in, persona.SkillHard), Weight: w.Fit.HardSkills},
		{Name: ComponentSoftSkills, Score: skillMatch(in, persona.SkillSoft), Weight: w.Fit.SoftSkills},
		{Name: ComponentExperienceLevel, Score: experienceMatch(in), Weight: w.Fit.ExperienceLevel},
		{Name: ComponentTitleSimilarity, Score: titleSimilarity(in.Posting.Title, in.Profile.CurrentTitle), Weight: w.Fit.TitleSimilarity},
		{Name: ComponentLogistics, Score: logistics(in), Weight: w.Fit.Logistics},
	}

	stretchComponents := []posting.Component{
		{Name: ComponentTargetRole, Score: targetRoleAlignment(in), Weight: w.Stretch.TargetRole},
		{Name: ComponentTargetSkills, Score: targetSkillAlignment(in), Weight: w.Stretch.TargetSkills},
		{Name: ComponentGrowth, Score: growthTrajectory(in), Weight: w.Stretch.Growth},
	}

	fit := posting.ScoreBreakdown{Total: weightedTotal(fitComponents), Components: fitComponents}
	stretch := posting.ScoreBreakdown{Total: weightedTotal(stretchComponents), Components: stretchComponents}

	return posting.ScoreDetails{
		Fit:         fit,
		Stretch:     stretch,
		Explanation: explain(in, fit, stretch, th, warnings),
	}
}

func weightedTotal(components []posting.Component) int {
	var sum float64
	for _, c := range components {
		sum += c.Weight * c.Score
	}
	total := int(math.Round(sum))
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return total
}

// skillMatch gives partial credit on proficiency: a matched skill at level 3
// or above counts fully, below that proportionally. With no extracted skills
// the component is neutral; the explanation carries the warning.
func skillMatch(in Input, kind persona.SkillKind) float64 {
	if len(in.ExtractedSkills) == 0 {
		return 50
	}

	held := make(map[string]int, len(in.Profile.Skills))
	for _, s := range in.Profile.Skills {
		if s.Kind != kind {
			continue
		}
		held[strings.ToLower(strings.TrimSpace(s.Name))] = s.Level
	}
	if len(held) == 0 {
		return 0
	}

	var credit float64
	var considered int
	for _, raw := range in.ExtractedSkills {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		considered++
		lvl, ok := held[name]
		if !ok {
			continue
		}
		if lvl >= 3 || lvl <= 0 {
			credit++
			continue
		}
		credit += float64(lvl) / 3.0
	}
	if considered == 0 {
		return 50
	}
	return clamp(100 * credit / float64(considered))
}

// seniorityYears infers required experience from title keywords.
func seniorityYears(title string) float64 {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "intern"):
		return 0
	case strings.Contains(t, "junior") || strings.Contains(t, "entry"):
		return 1
	case strings.Contains(t, "staff") || strings.Contains(t, "principal") || strings.Contains(t, "lead") || strings.Contains(t, "head"):
		return 8
	case strings.Contains(t, "senior") || strings.Contains(t, "sr."):
		return 5
	default:
		return 3
	}
}

func experienceMatch(in Input) float64 {
	required := seniorityYears(in.Posting.Title)
	if required <= 0 {
		return 100
	}
	have := in.Profile.YearsExperience
	if have >= required {
		return 100
	}
	if have <= 0 {
		return 0
	}
	return clamp(100 * have / required)
}

// titleSimilarity is token overlap relative to the posting title.
func titleSimilarity(jobTitle, personaTitle string) float64 {
	jobTokens := tokenize(jobTitle)
	if len(jobTokens) == 0 {
		return 0
	}
	personaTokens := tokenize(personaTitle)
	if len(personaTokens) == 0 {
		return 0
	}
	matched := 0
	for tok := range jobTokens {
		if personaTokens[tok] {
			matched++
		}
	}
	return clamp(100 * float64(matched) / float64(len(jobTokens)))
}

func logistics(in Input) float64 {
	if in.Posting.WorkMode == posting.ModeRemote {
		return 100
	}
	home := strings.ToLower(strings.TrimSpace(in.Profile.Location))
	loc := strings.ToLower(strings.TrimSpace(in.Posting.Location))
	if home == "" || loc == "" {
		return 50
	}
	if strings.Contains(loc, home) || strings.Contains(home, loc) {
		if in.Posting.WorkMode == posting.ModeHybrid {
			return 90
		}
		return 85
	}
	if in.Posting.WorkMode == posting.ModeHybrid {
		return 30
	}
	return 20
}

func targetRoleAlignment(in Input) float64 {
	if len(in.Profile.TargetRoles) == 0 {
		return 0
	}
	best := 0.0
	for _, role := range in.Profile.TargetRoles {
		if sim := titleSimilarity(in.Posting.Title, role); sim > best {
			best = sim
		}
	}
	return best
}

func targetSkillAlignment(in Input) float64 {
	if len(in.Profile.TargetSkills) == 0 || len(in.ExtractedSkills) == 0 {
		return 0
	}
	offered := make(map[string]bool, len(in.ExtractedSkills))
	for _, s := range in.ExtractedSkills {
		offered[strings.ToLower(strings.TrimSpace(s))] = true
	}
	matched := 0
	for _, t := range in.Profile.TargetSkills {
		if offered[strings.ToLower(strings.TrimSpace(t))] {
			matched++
		}
	}
	return clamp(100 * float64(matched) / float64(len(in.Profile.TargetSkills)))
}

// growthTrajectory rewards postings that teach skills the persona lacks and
// sit one seniority step up.
func growthTrajectory(in Input) float64 {
	var newSkillRatio float64
	if len(in.ExtractedSkills) > 0 {
		held := make(map[string]bool, len(in.Profile.Skills))
		for _, s := range in.Profile.Skills {
			held[strings.ToLower(strings.TrimSpace(s.Name))] = true
		}
		newCount := 0
		for _, s := range in.ExtractedSkills {
			if !held[strings.ToLower(strings.TrimSpace(s))] {
				newCount++
			}
		}
		newSkillRatio = float64(newCount) / float64(len(in.ExtractedSkills))
	}

	score := 70 * newSkillRatio
	required := seniorityYears(in.Posting.Title)
	if required > in.Profile.YearsExperience && required-in.Profile.YearsExperience <= 3 {
		score += 30
	}
	return clamp(score)
}

func dataQualityWarnings(in Input) []string {
	warnings := make([]string, 0)
	if in.Posting.SalaryMin == nil && in.Posting.SalaryMax == nil {
		warnings = append(warnings, "salary range not disclosed")
	}
	if strings.TrimSpace(in.Posting.Description) == "" {
		warnings = append(warnings, "posting has no description")
	}
	if len(in.ExtractedSkills) == 0 {
		warnings = append(warnings, "no skills extracted from posting")
	}
	if strings.TrimSpace(in.Posting.Location) == "" && in.Posting.WorkMode != posting.ModeRemote {
		warnings = append(warnings, "posting location unknown")
	}
	return warnings
}

func explain(in Input, fit, stretch posting.ScoreBreakdown, th Thresholds, warnings []string) posting.Explanation {
	strengths := make([]string, 0)
	gaps := make([]string, 0)
	for _, c := range fit.Components {
		if c.Score >= th.Strength {
			strengths = append(strengths, c.Name)
		} else if c.Score < th.Gap {
			gaps = append(gaps, c.Name)
		}
	}

	opportunities := make([]string, 0)
	for _, c := range stretch.Components {
		if c.Score >= th.Strength {
			opportunities = append(opportunities, c.Name)
		}
	}

	return posting.Explanation{
		Summary:              fmt.Sprintf("%s at %s: fit %d/100, stretch %d/100", in.Posting.Title, in.Posting.Company, fit.Total, stretch.Total),
		Strengths:            strengths,
		Gaps:                 gaps,
		StretchOpportunities: opportunities,
		Warnings:             warnings,
	}
}

func tokenize(s string) map[string]bool {
	out := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, ".,()/-")
		if len(f) < 2 {
			continue
		}
		if f == "of" || f == "and" || f == "the" || f == "at" || f == "in" {
			continue
		}
		out[f] = true
	}
	return out
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
