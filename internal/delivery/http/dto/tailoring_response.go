package dto

import (
	"time"

	"applyforge/internal/domain/guardrail"
	"applyforge/internal/domain/resume"

	"github.com/google/uuid"
)

type VariantResponse struct {
	ID              uuid.UUID               `json:"id"`
	BaseResumeID    uuid.UUID               `json:"base_resume_id"`
	PostingID       uuid.UUID               `json:"posting_id"`
	Status          string                  `json:"status"`
	SummaryOverride string                  `json:"summary_override,omitempty"`
	Bullets         []resume.TailoredBullet `json:"bullets"`
	Skills          []string                `json:"skills"`
	BulletOrder     []uuid.UUID             `json:"bullet_order"`
	AgentReasoning  string                  `json:"agent_reasoning,omitempty"`
	GuardrailResult *guardrail.Result       `json:"guardrail_result,omitempty"`
	Snapshot        *resume.Snapshot        `json:"snapshot,omitempty"`
	ApprovedAt      *time.Time              `json:"approved_at,omitempty"`
}

func NewVariantResponse(v resume.JobVariant) VariantResponse {
	out := VariantResponse{
		ID:              v.ID,
		BaseResumeID:    v.BaseResumeID,
		PostingID:       v.PostingID,
		Status:          string(v.Status),
		SummaryOverride: v.SummaryOverride,
		Bullets:         v.Bullets,
		Skills:          v.Skills,
		BulletOrder:     v.BulletOrder,
		AgentReasoning:  v.AgentReasoning,
		GuardrailResult: v.GuardrailResult,
		ApprovedAt:      v.ApprovedAt,
	}
	if !v.Snapshot.TakenAt.IsZero() {
		snap := v.Snapshot
		out.Snapshot = &snap
	}
	if out.Bullets == nil {
		out.Bullets = []resume.TailoredBullet{}
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	return out
}

type CoverLetterResponse struct {
	ID               uuid.UUID         `json:"id"`
	PostingID        uuid.UUID         `json:"posting_id"`
	VariantID        *uuid.UUID        `json:"variant_id,omitempty"`
	Status           string            `json:"status"`
	DraftText        string            `json:"draft_text,omitempty"`
	FinalText        string            `json:"final_text,omitempty"`
	StoryIDs         []uuid.UUID       `json:"story_ids"`
	ValidationResult *guardrail.Result `json:"validation_result,omitempty"`
	ApprovedAt       *time.Time        `json:"approved_at,omitempty"`
}

func NewCoverLetterResponse(l resume.CoverLetter) CoverLetterResponse {
	stories := l.StoryIDs
	if stories == nil {
		stories = []uuid.UUID{}
	}
	return CoverLetterResponse{
		ID:               l.ID,
		PostingID:        l.PostingID,
		VariantID:        l.VariantID,
		Status:           string(l.Status),
		DraftText:        l.DraftText,
		FinalText:        l.FinalText,
		StoryIDs:         stories,
		ValidationResult: l.ValidationResult,
		ApprovedAt:       l.ApprovedAt,
	}
}

type ApprovedPackageResponse struct {
	Variant     VariantResponse     `json:"variant"`
	CoverLetter CoverLetterResponse `json:"cover_letter"`
}
