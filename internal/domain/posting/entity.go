package posting

import (
	"time"

	"github.com/google/uuid"
)

type WorkMode string

const (
	ModeRemote WorkMode = "remote"
	ModeHybrid WorkMode = "hybrid"
	ModeOnsite WorkMode = "onsite"
)

// Posting is the shared, deduplicated job ad. Owned by the ingestion
// pipeline; this core reads it and writes back ghost-signal fields only.
type Posting struct {
	ID           uuid.UUID
	Title        string
	Company      string
	Location     string
	WorkMode     WorkMode
	Industry     string
	SalaryMin    *int
	SalaryMax    *int
	Description  string
	Requirements []string
	ContentHash  string
	RepostCount  int
	FirstSeenAt  time.Time
	LastSeenAt   time.Time
	VerifiedAt   *time.Time
	Active       bool
}

// DaysOpen is measured from first sighting to the given reference time.
func (p Posting) DaysOpen(now time.Time) int {
	if p.FirstSeenAt.IsZero() || now.Before(p.FirstSeenAt) {
		return 0
	}
	return int(now.Sub(p.FirstSeenAt).Hours() / 24)
}

type Status string

const (
	StatusDiscovered Status = "Discovered"
	StatusDismissed  Status = "Dismissed"
	StatusArchived   Status = "Archived"
)

func ParseStatus(s string) (Status, bool) {
	st := Status(s)
	switch st {
	case StatusDiscovered, StatusDismissed, StatusArchived:
		return st, true
	}
	return "", false
}

// PersonaJob is one persona's relationship to a posting. Exactly one row
// exists per (persona, posting) pair; dismissal is a status change, never a
// delete.
type PersonaJob struct {
	ID                   uuid.UUID
	PersonaID            uuid.UUID
	PostingID            uuid.UUID
	DiscoveryMethod      string
	Favorite             bool
	Status               Status
	FitScore             *int
	StretchScore         *int
	ScoreDetails         *ScoreDetails
	FailedNonNegotiables []FailedNonNegotiable
	ScoredAt             *time.Time
	DismissedAt          *time.Time
	CreatedAt            time.Time
}

// FailedNonNegotiable records one hard constraint the posting fails.
// A persona job with at least one entry never carries scores.
type FailedNonNegotiable struct {
	Filter       string `json:"filter"`
	JobValue     any    `json:"job_value"`
	PersonaValue any    `json:"persona_value"`
}

type Component struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

type ScoreBreakdown struct {
	Total      int         `json:"total"`
	Components []Component `json:"components"`
}

type Explanation struct {
	Summary              string   `json:"summary"`
	Strengths            []string `json:"strengths"`
	Gaps                 []string `json:"gaps"`
	StretchOpportunities []string `json:"stretch_opportunities"`
	Warnings             []string `json:"warnings"`
}

type ScoreDetails struct {
	Fit         ScoreBreakdown `json:"fit"`
	Stretch     ScoreBreakdown `json:"stretch"`
	Explanation Explanation    `json:"explanation"`
}

type GhostTier string

const (
	TierLow    GhostTier = "Low"
	TierMedium GhostTier = "Medium"
	TierHigh   GhostTier = "High"
)

// GhostSignals is the per-posting risk breakdown. It carries no timestamp:
// recomputing on unchanged inputs must reproduce it byte for byte.
type GhostSignals struct {
	DaysOpen      int       `json:"days_open"`
	RepostCount   int       `json:"repost_count"`
	Staleness     int       `json:"staleness"`
	Repost        int       `json:"repost"`
	Vagueness     int       `json:"vagueness"`
	MissingFields int       `json:"missing_fields"`
	ReqMismatch   int       `json:"requirement_mismatch"`
	GhostScore    int       `json:"ghost_score"`
	Tier          GhostTier `json:"tier"`
}
