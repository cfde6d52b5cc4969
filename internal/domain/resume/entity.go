package resume

import (
	"time"

	"applyforge/internal/domain/guardrail"
	"applyforge/internal/domain/lifecycle"

	"github.com/google/uuid"
)

// BaseResume is a named, user-curated template. Mutated by the user and by
// change-flag resolution; tailored variants snapshot it rather than
// referencing it live.
type BaseResume struct {
	ID                       uuid.UUID
	PersonaID                uuid.UUID
	Name                     string
	IncludedWorkHistoryIDs   []uuid.UUID
	IncludedEducationIDs     []uuid.UUID
	IncludedCertificationIDs []uuid.UUID
	// BulletSelection maps a work-history entry to its selected bullets in
	// display order.
	BulletSelection map[uuid.UUID][]uuid.UUID
	SkillsEmphasis  []string
	Rendered        bool
	Primary         bool
	Archived        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HasSkillEmphasis does a case-sensitive exact lookup; resolution relies on
// it to keep added_to_* application idempotent.
func (b BaseResume) HasSkillEmphasis(skill string) bool {
	for _, s := range b.SkillsEmphasis {
		if s == skill {
			return true
		}
	}
	return false
}

// Snapshot freezes the parts of a BaseResume a variant was generated from,
// so later template edits never change the meaning of an approved variant.
type Snapshot struct {
	IncludedWorkHistoryIDs   []uuid.UUID               `json:"included_work_history_ids"`
	IncludedEducationIDs     []uuid.UUID               `json:"included_education_ids"`
	IncludedCertificationIDs []uuid.UUID               `json:"included_certification_ids"`
	BulletSelection          map[uuid.UUID][]uuid.UUID `json:"bullet_selection"`
	SkillsEmphasis           []string                  `json:"skills_emphasis"`
	TakenAt                  time.Time                 `json:"taken_at"`
}

// SnapshotOf copies the template's current selections at the given instant.
func SnapshotOf(b BaseResume, at time.Time) Snapshot {
	sel := make(map[uuid.UUID][]uuid.UUID, len(b.BulletSelection))
	for k, v := range b.BulletSelection {
		sel[k] = append([]uuid.UUID(nil), v...)
	}
	return Snapshot{
		IncludedWorkHistoryIDs:   append([]uuid.UUID(nil), b.IncludedWorkHistoryIDs...),
		IncludedEducationIDs:     append([]uuid.UUID(nil), b.IncludedEducationIDs...),
		IncludedCertificationIDs: append([]uuid.UUID(nil), b.IncludedCertificationIDs...),
		BulletSelection:          sel,
		SkillsEmphasis:           append([]string(nil), b.SkillsEmphasis...),
		TakenAt:                  at,
	}
}

// TailoredBullet is one line of generated resume content. SourceBulletID is
// nil when the generator produced text with no backing work-history bullet —
// the guardrail treats that as fabrication unless the text itself traces.
type TailoredBullet struct {
	SourceBulletID *uuid.UUID `json:"source_bullet_id,omitempty"`
	Text           string     `json:"text"`
}

// JobVariant is a BaseResume tailored to one posting.
type JobVariant struct {
	ID              uuid.UUID
	PersonaID       uuid.UUID
	BaseResumeID    uuid.UUID
	PostingID       uuid.UUID
	SummaryOverride string
	Bullets         []TailoredBullet
	Skills          []string
	BulletOrder     []uuid.UUID
	Snapshot        Snapshot
	AgentReasoning  string
	GuardrailResult *guardrail.Result
	Status          lifecycle.Status
	ApprovedAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CoverLetter is the second tailored artifact kind sharing the variant's
// lifecycle.
type CoverLetter struct {
	ID               uuid.UUID
	PersonaID        uuid.UUID
	PostingID        uuid.UUID
	VariantID        *uuid.UUID
	DraftText        string
	FinalText        string
	StoryIDs         []uuid.UUID
	ValidationResult *guardrail.Result
	Status           lifecycle.Status
	ApprovedAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Text returns the content that validation and approval operate on: the
// final text when present, the draft otherwise.
func (c CoverLetter) Text() string {
	if c.FinalText != "" {
		return c.FinalText
	}
	return c.DraftText
}
