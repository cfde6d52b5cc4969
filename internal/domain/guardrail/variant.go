package guardrail

import (
	"fmt"
	"regexp"
	"strings"

	"applyforge/internal/domain/persona"

	"github.com/google/uuid"
)

const (
	RuleUnknownSourceBullet   = "unknown_source_bullet"
	RuleFabricatedBullet      = "fabricated_bullet"
	RuleFabricatedSkill       = "fabricated_skill"
	RuleFabricatedMetric      = "fabricated_metric"
	RuleMissingRequestedSkill = "missing_requested_skill"
)

// BulletClaim is one line of tailored resume content to be traced back to
// the persona's records.
type BulletClaim struct {
	SourceBulletID *uuid.UUID
	Text           string
}

// VariantCheck validates tailored resume content against the persona's
// source of truth. Any claim that cannot be traced to work history, skills
// or stories is a fabrication and blocks approval.
type VariantCheck struct {
	Summary string
	Bullets []BulletClaim
	Skills  []string
	// RequestedSkills come from the posting; a requested skill absent from
	// the tailored content is a coverage warning, never a blocker.
	RequestedSkills []string
	Profile         persona.Profile
}

var _ Validatable = VariantCheck{}

func (v VariantCheck) Validate() Result {
	violations := make([]Violation, 0)

	sourceBullets := make(map[uuid.UUID]string)
	var sourceTexts []string
	for _, wh := range v.Profile.WorkHistory {
		for _, b := range wh.Bullets {
			sourceBullets[b.ID] = b.Text
			sourceTexts = append(sourceTexts, b.Text)
		}
	}
	for _, s := range v.Profile.Stories {
		sourceTexts = append(sourceTexts, s.Title, s.Text)
	}

	for i, claim := range v.Bullets {
		if claim.SourceBulletID != nil {
			src, ok := sourceBullets[*claim.SourceBulletID]
			if !ok {
				violations = append(violations, Violation{
					Severity: SeverityError,
					Rule:     RuleUnknownSourceBullet,
					Message:  fmt.Sprintf("bullet %d references source bullet %s which does not exist", i+1, claim.SourceBulletID),
				})
				continue
			}
			violations = append(violations, metricViolations(claim.Text, []string{src})...)
			continue
		}

		if !textTraces(claim.Text, sourceTexts) {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Rule:     RuleFabricatedBullet,
				Message:  fmt.Sprintf("bullet %d does not trace to any work history or story: %q", i+1, truncate(claim.Text, 80)),
			})
			continue
		}
		violations = append(violations, metricViolations(claim.Text, sourceTexts)...)
	}

	if v.Summary != "" {
		violations = append(violations, metricViolations(v.Summary, sourceTexts)...)
	}

	held := make(map[string]bool, len(v.Profile.Skills))
	for _, s := range v.Profile.Skills {
		held[normalize(s.Name)] = true
	}
	for _, skill := range v.Skills {
		if !held[normalize(skill)] {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Rule:     RuleFabricatedSkill,
				Message:  fmt.Sprintf("skill %q is not in the persona's skill records", skill),
			})
		}
	}

	claimed := make(map[string]bool, len(v.Skills))
	for _, s := range v.Skills {
		claimed[normalize(s)] = true
	}
	for _, req := range v.RequestedSkills {
		if held[normalize(req)] && !claimed[normalize(req)] {
			violations = append(violations, Violation{
				Severity: SeverityWarning,
				Rule:     RuleMissingRequestedSkill,
				Message:  fmt.Sprintf("posting asks for %q, which the persona has but the variant omits", req),
			})
		}
	}

	return newResult(violations)
}

var metricPattern = regexp.MustCompile(`\d+(?:\.\d+)?%?`)

// metricViolations checks that every number claimed in text appears in at
// least one source text. Inflated or invented metrics are the most damaging
// fabrication class, so they are checked even on traced bullets.
func metricViolations(text string, sources []string) []Violation {
	metrics := metricPattern.FindAllString(text, -1)
	if len(metrics) == 0 {
		return nil
	}

	var out []Violation
	for _, m := range metrics {
		found := false
		for _, src := range sources {
			if strings.Contains(src, m) {
				found = true
				break
			}
		}
		if !found {
			out = append(out, Violation{
				Severity: SeverityError,
				Rule:     RuleFabricatedMetric,
				Message:  fmt.Sprintf("metric %q does not appear in any source record", m),
			})
		}
	}
	return out
}

// textTraces reports whether at least 60% of the claim's significant tokens
// appear in a single source text.
func textTraces(claim string, sources []string) bool {
	claimTokens := significantTokens(claim)
	if len(claimTokens) == 0 {
		return true
	}
	for _, src := range sources {
		srcTokens := significantTokens(src)
		matched := 0
		for tok := range claimTokens {
			if srcTokens[tok] {
				matched++
			}
		}
		if float64(matched) >= 0.6*float64(len(claimTokens)) {
			return true
		}
	}
	return false
}

func significantTokens(s string) map[string]bool {
	out := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(s)) {
		f = strings.Trim(f, ".,;:()\"'")
		if len(f) < 4 {
			continue
		}
		out[f] = true
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
