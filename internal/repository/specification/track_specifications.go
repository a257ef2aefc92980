package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TempoRange bounds tracks.tempo; nil ends are open. Tracks without a tempo
// never match a bounded range.
type TempoRange struct {
	Min *float64
	Max *float64
}

func (s TempoRange) Apply(db *gorm.DB) *gorm.DB {
	if s.Min != nil {
		db = db.Where("tracks.tempo >= ?", *s.Min)
	}
	if s.Max != nil {
		db = db.Where("tracks.tempo <= ?", *s.Max)
	}
	return db
}

// EnergyRange bounds tracks.energy; nil ends are open.
type EnergyRange struct {
	Min *float64
	Max *float64
}

func (s EnergyRange) Apply(db *gorm.DB) *gorm.DB {
	if s.Min != nil {
		db = db.Where("tracks.energy >= ?", *s.Min)
	}
	if s.Max != nil {
		db = db.Where("tracks.energy <= ?", *s.Max)
	}
	return db
}

type ArtistNotIn struct {
	Artists []string
}

func (s ArtistNotIn) Apply(db *gorm.DB) *gorm.DB {
	if len(s.Artists) == 0 {
		return db
	}
	return db.Where("tracks.artist NOT IN ?", s.Artists)
}

type TrackIDNotIn struct {
	IDs []uuid.UUID
}

func (s TrackIDNotIn) Apply(db *gorm.DB) *gorm.DB {
	if len(s.IDs) == 0 {
		return db
	}
	return db.Where("tracks.id NOT IN ?", s.IDs)
}

type HasEmbedding struct{}

func (s HasEmbedding) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tracks.embedding IS NOT NULL")
}

// InPlaylist restricts tracks to members of a playlist, in playlist order.
type InPlaylist struct {
	PlaylistID uuid.UUID
}

func (s InPlaylist) Apply(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN playlist_tracks ON playlist_tracks.track_id = tracks.id").
		Where("playlist_tracks.playlist_id = ?", s.PlaylistID).
		Order("playlist_tracks.position ASC")
}
