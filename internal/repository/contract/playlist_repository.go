package contract

import (
	"context"

	"gem-curator-be/internal/entity"
	"gem-curator-be/internal/repository/specification"

	"github.com/google/uuid"
)

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *entity.Playlist) error
	AddTracks(ctx context.Context, playlistId uuid.UUID, trackIds []uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Playlist, error)
	FindTracks(ctx context.Context, playlistId uuid.UUID) ([]*entity.Track, error)
}
