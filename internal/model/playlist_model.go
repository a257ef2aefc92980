package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Playlist struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string         `gorm:"type:varchar(255);not null"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistTrack is the ordered membership join between playlists and tracks.
type PlaylistTrack struct {
	PlaylistId uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackId    uuid.UUID `gorm:"type:uuid;primaryKey;index"`
	Position   int       `gorm:"not null;default:0"`
	AddedAt    time.Time `gorm:"autoCreateTime"`
}

func (PlaylistTrack) TableName() string {
	return "playlist_tracks"
}
