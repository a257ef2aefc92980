package entity

import (
	"time"

	"github.com/google/uuid"
)

type Track struct {
	Id        uuid.UUID
	Title     string
	Artist    string
	Album     string
	Genres    []string
	Tempo     *float64 // BPM
	Energy    *float64 // 0..1
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// ScoredTrack pairs a track with its cosine distance to a reference vector.
type ScoredTrack struct {
	Track    *Track
	Distance float64 // 0 = identical
}
