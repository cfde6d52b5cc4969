package persona

import (
	"time"

	"github.com/google/uuid"
)

type Persona struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Headline  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type SkillKind string

const (
	SkillHard SkillKind = "hard"
	SkillSoft SkillKind = "soft"
)

type Skill struct {
	ID    uuid.UUID
	Name  string
	Kind  SkillKind
	Level int
	Years int
}

type Bullet struct {
	ID   uuid.UUID
	Text string
}

type WorkExperience struct {
	ID      uuid.UUID
	Title   string
	Company string
	Years   float64
	Bullets []Bullet
}

type Education struct {
	ID     uuid.UUID
	School string
	Degree string
}

type Certification struct {
	ID   uuid.UUID
	Name string
}

type Story struct {
	ID    uuid.UUID
	Title string
	Text  string
}

// Profile is the source of truth for scoring and guardrail tracing: every
// claim in a tailored artifact must be backed by something in here.
type Profile struct {
	PersonaID       uuid.UUID
	CurrentTitle    string
	Location        string
	YearsExperience float64
	Skills          []Skill
	TargetRoles     []string
	TargetSkills    []string
	WorkHistory     []WorkExperience
	Education       []Education
	Certifications  []Certification
	Stories         []Story
}

type RemotePolicy string

const (
	RemoteAny      RemotePolicy = "any"
	RemoteOnly     RemotePolicy = "remote_only"
	RemotePreferOn RemotePolicy = "onsite_ok"
)

type CustomFilter struct {
	Name string
	Term string
}

// Constraints are the persona's non-negotiables. A nil pointer field means
// the constraint is not set.
type Constraints struct {
	MinimumBaseSalary  *int
	RemotePolicy       RemotePolicy
	CommuteRadiusKm    *int
	HomeLocation       string
	ExcludedIndustries []string
	CustomFilters      []CustomFilter
}

type ChangeType string

const (
	ChangeSkillAdded         ChangeType = "skill_added"
	ChangeJobAdded           ChangeType = "job_added"
	ChangeCertificationAdded ChangeType = "certification_added"
	ChangeEducationAdded     ChangeType = "education_added"
	ChangeSummaryUpdated     ChangeType = "summary_updated"
)

func ParseChangeType(s string) (ChangeType, bool) {
	ct := ChangeType(s)
	switch ct {
	case ChangeSkillAdded, ChangeJobAdded, ChangeCertificationAdded, ChangeEducationAdded, ChangeSummaryUpdated:
		return ct, true
	}
	return "", false
}

// ChangeEvent describes one persona edit that may need propagating into
// existing base resumes.
type ChangeEvent struct {
	PersonaID   uuid.UUID
	Type        ChangeType
	ItemID      uuid.UUID
	Description string
	ItemValue   string
}
