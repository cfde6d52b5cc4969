// Package filter implements the non-negotiable gate that runs before any
// scoring. A posting failing at least one constraint is excluded from
// default result sets but never deleted — constraints may relax later.
package filter

import (
	"strings"

	"applyforge/internal/domain/persona"
	"applyforge/internal/domain/posting"
)

const (
	FilterMinimumBaseSalary  = "minimum_base_salary"
	FilterRemotePolicy       = "remote_policy"
	FilterCommuteRadius      = "commute_radius"
	FilterExcludedIndustry   = "excluded_industry"
	FilterCustomPrefix       = "custom:"
)

// Evaluate returns one entry per constraint the posting fails; an empty
// slice means the posting passes. Pure function.
func Evaluate(p posting.Posting, c persona.Constraints) []posting.FailedNonNegotiable {
	failed := make([]posting.FailedNonNegotiable, 0)

	if c.MinimumBaseSalary != nil {
		// A posting with no salary information passes the gate; the scorer
		// degrades the explanation with a warning instead.
		if p.SalaryMax != nil && *p.SalaryMax < *c.MinimumBaseSalary {
			failed = append(failed, posting.FailedNonNegotiable{
				Filter:       FilterMinimumBaseSalary,
				JobValue:     *p.SalaryMax,
				PersonaValue: *c.MinimumBaseSalary,
			})
		}
	}

	if c.RemotePolicy == persona.RemoteOnly && p.WorkMode == posting.ModeOnsite {
		failed = append(failed, posting.FailedNonNegotiable{
			Filter:       FilterRemotePolicy,
			JobValue:     string(p.WorkMode),
			PersonaValue: string(c.RemotePolicy),
		})
	}

	// Commute radius only binds on-site and hybrid roles. Without geo data
	// a posting in a different city than the persona's home location is
	// treated as outside any radius.
	if c.CommuteRadiusKm != nil && c.HomeLocation != "" && p.WorkMode != posting.ModeRemote {
		home := strings.ToLower(strings.TrimSpace(c.HomeLocation))
		loc := strings.ToLower(strings.TrimSpace(p.Location))
		if loc != "" && !strings.Contains(loc, home) {
			failed = append(failed, posting.FailedNonNegotiable{
				Filter:       FilterCommuteRadius,
				JobValue:     p.Location,
				PersonaValue: c.HomeLocation,
			})
		}
	}

	if p.Industry != "" {
		ind := strings.ToLower(strings.TrimSpace(p.Industry))
		for _, excl := range c.ExcludedIndustries {
			if strings.ToLower(strings.TrimSpace(excl)) == ind {
				failed = append(failed, posting.FailedNonNegotiable{
					Filter:       FilterExcludedIndustry,
					JobValue:     p.Industry,
					PersonaValue: excl,
				})
				break
			}
		}
	}

	if len(c.CustomFilters) > 0 {
		combined := strings.ToLower(p.Title + " " + p.Company + " " + p.Description)
		for _, cf := range c.CustomFilters {
			term := strings.ToLower(strings.TrimSpace(cf.Term))
			if term == "" {
				continue
			}
			if strings.Contains(combined, term) {
				failed = append(failed, posting.FailedNonNegotiable{
					Filter:       FilterCustomPrefix + cf.Name,
					JobValue:     cf.Term,
					PersonaValue: cf.Name,
				})
			}
		}
	}

	return failed
}
