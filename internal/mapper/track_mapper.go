package mapper

import (
	"time"

	"gem-curator-be/internal/entity"
	"gem-curator-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TrackMapper struct{}

func NewTrackMapper() *TrackMapper {
	return &TrackMapper{}
}

func (m *TrackMapper) ToEntity(t *model.Track) *entity.Track {
	if t == nil {
		return nil
	}

	var deletedAt *time.Time
	if t.DeletedAt.Valid {
		v := t.DeletedAt.Time
		deletedAt = &v
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		v := t.UpdatedAt
		updatedAt = &v
	}

	genres := make([]string, len(t.Genres))
	copy(genres, t.Genres)

	return &entity.Track{
		Id:        t.Id,
		Title:     t.Title,
		Artist:    t.Artist,
		Album:     t.Album,
		Genres:    genres,
		Tempo:     t.Tempo,
		Energy:    t.Energy,
		Embedding: t.Embedding.Slice(),
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: t.DeletedAt.Valid,
	}
}

func (m *TrackMapper) ToModel(t *entity.Track) *model.Track {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *t.DeletedAt, Valid: true}
	} else if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.Track{
		Id:        t.Id,
		Title:     t.Title,
		Artist:    t.Artist,
		Album:     t.Album,
		Genres:    datatypes.JSONSlice[string](t.Genres),
		Tempo:     t.Tempo,
		Energy:    t.Energy,
		Embedding: pgvector.NewVector(t.Embedding),
		CreatedAt: t.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *TrackMapper) ToEntities(tracks []*model.Track) []*entity.Track {
	entities := make([]*entity.Track, len(tracks))
	for i, t := range tracks {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
