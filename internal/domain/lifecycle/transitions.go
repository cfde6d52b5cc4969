// Package lifecycle defines the approval state machine shared by tailored
// artifacts (resume variants and cover letters).
//
// Valid status graph:
//
//	Draft ──► Approved ──► Archived
//	  │                        ▲
//	  └────────────────────────┘
//
// Archived is terminal: there is no edge back out of it.
package lifecycle

import "fmt"

type Status string

const (
	StatusDraft    Status = "Draft"
	StatusApproved Status = "Approved"
	StatusArchived Status = "Archived"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusDraft:    {StatusApproved, StatusArchived},
	StatusApproved: {StatusArchived},
	// Archived is terminal — no outgoing transitions
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusDraft, StatusApproved, StatusArchived:
		return st, nil
	}
	return "", fmt.Errorf("unknown artifact status %q", s)
}

// IsTransitionAllowed returns true when moving from → to is permitted by the
// state machine.
func IsTransitionAllowed(from, to Status) bool {
	allowed, ok := validTransitions[from]
	if !ok {
		return false // terminal state
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition can ever leave the status.
func IsTerminal(s Status) bool {
	return len(validTransitions[s]) == 0
}
