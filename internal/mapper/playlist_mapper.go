package mapper

import (
	"time"

	"gem-curator-be/internal/entity"
	"gem-curator-be/internal/model"

	"gorm.io/gorm"
)

type PlaylistMapper struct{}

func NewPlaylistMapper() *PlaylistMapper {
	return &PlaylistMapper{}
}

func (m *PlaylistMapper) ToEntity(p *model.Playlist) *entity.Playlist {
	if p == nil {
		return nil
	}

	var deletedAt *time.Time
	if p.DeletedAt.Valid {
		v := p.DeletedAt.Time
		deletedAt = &v
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		v := p.UpdatedAt
		updatedAt = &v
	}

	return &entity.Playlist{
		Id:        p.Id,
		Name:      p.Name,
		UserId:    p.UserId,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: p.DeletedAt.Valid,
	}
}

func (m *PlaylistMapper) ToModel(p *entity.Playlist) *model.Playlist {
	if p == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if p.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.Playlist{
		Id:        p.Id,
		Name:      p.Name,
		UserId:    p.UserId,
		CreatedAt: p.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}
