package changeflag

import (
	"time"

	"applyforge/internal/domain/persona"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending Status = "Pending"
	// StatusResolving marks a flag claimed by an in-flight resolution.
	// The claim happens before any resume is touched, so a concurrent
	// resolver is rejected without leaving side effects behind.
	StatusResolving Status = "Resolving"
	StatusResolved  Status = "Resolved"
)

type Resolution string

const (
	ResolutionAddedToAll  Resolution = "added_to_all"
	ResolutionAddedToSome Resolution = "added_to_some"
	ResolutionSkipped     Resolution = "skipped"
)

func ParseResolution(s string) (Resolution, bool) {
	r := Resolution(s)
	switch r {
	case ResolutionAddedToAll, ResolutionAddedToSome, ResolutionSkipped:
		return r, true
	}
	return "", false
}

// Flag is one pending notification that a persona edit may need to be
// propagated into existing base resumes. At most one Pending flag exists per
// (change_type, item_id); resolution is one-shot.
type Flag struct {
	ID              uuid.UUID
	PersonaID       uuid.UUID
	ChangeType      persona.ChangeType
	ItemID          uuid.UUID
	ItemDescription string
	ItemValue       string
	Status          Status
	Resolution      *Resolution
	CreatedAt       time.Time
	ResolvedAt      *time.Time
}
