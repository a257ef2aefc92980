package dto

import (
	"time"

	"github.com/google/uuid"
)

type StartCurationRequest struct {
	PlaylistId uuid.UUID `json:"playlist_id" validate:"required"`
}

// ResumeCurationRequest carries exactly one answer: a direction after the
// analysis suspension, or known artists after the familiarity probe.
type ResumeCurationRequest struct {
	SelectedDirection *string  `json:"selected_direction" validate:"omitempty,oneof=similar chill energy surprise"`
	KnownGroupIds     []string `json:"known_group_ids" validate:"omitempty,dive,required,max=255"`
}

type CurationOptionResponse struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type CurationCardResponse struct {
	TrackId   string `json:"track_id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Rationale string `json:"rationale"`
}

type CurationSessionResponse struct {
	SessionId  string                   `json:"session_id"`
	PlaylistId string                   `json:"playlist_id"`
	Status     string                   `json:"status"`
	Suspended  bool                     `json:"suspended"`
	Direction  string                   `json:"direction,omitempty"`
	Message    string                   `json:"message"`
	Options    []CurationOptionResponse `json:"options"`
	Cards      []CurationCardResponse   `json:"cards"`
	Iterations int                      `json:"iterations"`
	Error      string                   `json:"error,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}
