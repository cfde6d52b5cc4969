package dto

import (
	"time"

	"applyforge/internal/domain/changeflag"

	"github.com/google/uuid"
)

type ChangeFlagResponse struct {
	ID              uuid.UUID  `json:"id"`
	ChangeType      string     `json:"change_type"`
	ItemID          uuid.UUID  `json:"item_id"`
	ItemDescription string     `json:"item_description,omitempty"`
	ItemValue       string     `json:"item_value,omitempty"`
	Status          string     `json:"status"`
	Resolution      *string    `json:"resolution,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
}

func NewChangeFlagResponse(f changeflag.Flag) ChangeFlagResponse {
	out := ChangeFlagResponse{
		ID:              f.ID,
		ChangeType:      string(f.ChangeType),
		ItemID:          f.ItemID,
		ItemDescription: f.ItemDescription,
		ItemValue:       f.ItemValue,
		Status:          string(f.Status),
		CreatedAt:       f.CreatedAt,
		ResolvedAt:      f.ResolvedAt,
	}
	if f.Resolution != nil {
		res := string(*f.Resolution)
		out.Resolution = &res
	}
	return out
}

func NewChangeFlagListResponse(flags []changeflag.Flag) []ChangeFlagResponse {
	out := make([]ChangeFlagResponse, 0, len(flags))
	for _, f := range flags {
		out = append(out, NewChangeFlagResponse(f))
	}
	return out
}
