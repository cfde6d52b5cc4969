package guardrail

import (
	"fmt"
	"strings"
)

const (
	RuleLengthMin         = "length_min"
	RuleLengthMax         = "length_max"
	RuleBlacklistedPhrase = "blacklisted_phrase"
	RuleCompanyMention    = "company_mention"
)

// CoverLetterCheck validates one cover letter against the configured style
// constraints. Word-band and blacklist breaches are errors; failing to name
// the target company is only a warning.
type CoverLetterCheck struct {
	Text        string
	CompanyName string
	MinWords    int
	MaxWords    int
	Blacklist   []string
}

var _ Validatable = CoverLetterCheck{}

func (c CoverLetterCheck) Validate() Result {
	violations := make([]Violation, 0)

	words := len(strings.Fields(c.Text))
	if words < c.MinWords {
		violations = append(violations, Violation{
			Severity: SeverityError,
			Rule:     RuleLengthMin,
			Message:  fmt.Sprintf("cover letter has %d words, minimum is %d", words, c.MinWords),
		})
	} else if c.MaxWords > 0 && words > c.MaxWords {
		violations = append(violations, Violation{
			Severity: SeverityError,
			Rule:     RuleLengthMax,
			Message:  fmt.Sprintf("cover letter has %d words, maximum is %d", words, c.MaxWords),
		})
	}

	lower := strings.ToLower(c.Text)
	for _, phrase := range c.Blacklist {
		p := strings.ToLower(strings.TrimSpace(phrase))
		if p == "" {
			continue
		}
		if strings.Contains(lower, p) {
			violations = append(violations, Violation{
				Severity: SeverityError,
				Rule:     RuleBlacklistedPhrase,
				Message:  fmt.Sprintf("cover letter contains blacklisted phrase %q", phrase),
			})
		}
	}

	if company := strings.TrimSpace(c.CompanyName); company != "" {
		if !strings.Contains(lower, strings.ToLower(company)) {
			violations = append(violations, Violation{
				Severity: SeverityWarning,
				Rule:     RuleCompanyMention,
				Message:  fmt.Sprintf("cover letter never mentions %s by name", company),
			})
		}
	}

	return newResult(violations)
}
