package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EmbeddingDimensions is the width of the precomputed audio feature vector.
const EmbeddingDimensions = 512

type Track struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string                      `gorm:"type:varchar(255);not null"`
	Artist    string                      `gorm:"type:varchar(255);not null;index"`
	Album     string                      `gorm:"type:varchar(255)"`
	Genres    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Tempo     *float64                    `gorm:"type:double precision"`
	Energy    *float64                    `gorm:"type:double precision"`
	Embedding pgvector.Vector             `gorm:"type:vector(512)"`
	CreatedAt time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt              `gorm:"index"`
}

func (Track) TableName() string {
	return "tracks"
}
