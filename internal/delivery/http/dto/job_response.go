package dto

import (
	"time"

	"applyforge/internal/domain/posting"
	"applyforge/internal/repository"

	"github.com/google/uuid"
)

type PersonaJobResponse struct {
	ID                   uuid.UUID                     `json:"id"`
	PostingID            uuid.UUID                     `json:"posting_id"`
	Title                string                        `json:"title,omitempty"`
	Company              string                        `json:"company,omitempty"`
	Status               string                        `json:"status"`
	Favorite             bool                          `json:"favorite"`
	FitScore             *int                          `json:"fit_score"`
	StretchScore         *int                          `json:"stretch_score"`
	ScoreDetails         *posting.ScoreDetails         `json:"score_details,omitempty"`
	FailedNonNegotiables []posting.FailedNonNegotiable `json:"failed_non_negotiables"`
	ScoredAt             *time.Time                    `json:"scored_at"`
	DismissedAt          *time.Time                    `json:"dismissed_at,omitempty"`
}

func NewPersonaJobResponse(job posting.PersonaJob) PersonaJobResponse {
	failures := job.FailedNonNegotiables
	if failures == nil {
		failures = []posting.FailedNonNegotiable{}
	}
	return PersonaJobResponse{
		ID:                   job.ID,
		PostingID:            job.PostingID,
		Status:               string(job.Status),
		Favorite:             job.Favorite,
		FitScore:             job.FitScore,
		StretchScore:         job.StretchScore,
		ScoreDetails:         job.ScoreDetails,
		FailedNonNegotiables: failures,
		ScoredAt:             job.ScoredAt,
		DismissedAt:          job.DismissedAt,
	}
}

func NewPersonaJobListResponse(rows []repository.PersonaJobListRow) []PersonaJobResponse {
	out := make([]PersonaJobResponse, 0, len(rows))
	for _, row := range rows {
		item := NewPersonaJobResponse(row.Job)
		item.Title = row.Title
		item.Company = row.Company
		out = append(out, item)
	}
	return out
}
