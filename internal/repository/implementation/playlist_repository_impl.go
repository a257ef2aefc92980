package implementation

import (
	"context"
	"errors"

	"gem-curator-be/internal/entity"
	"gem-curator-be/internal/mapper"
	"gem-curator-be/internal/model"
	"gem-curator-be/internal/repository/contract"
	"gem-curator-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistRepositoryImpl struct {
	db          *gorm.DB
	mapper      *mapper.PlaylistMapper
	trackMapper *mapper.TrackMapper
}

func NewPlaylistRepository(db *gorm.DB) contract.PlaylistRepository {
	return &PlaylistRepositoryImpl{
		db:          db,
		mapper:      mapper.NewPlaylistMapper(),
		trackMapper: mapper.NewTrackMapper(),
	}
}

func (r *PlaylistRepositoryImpl) Create(ctx context.Context, playlist *entity.Playlist) error {
	m := r.mapper.ToModel(playlist)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*playlist = *r.mapper.ToEntity(m)
	return nil
}

// AddTracks appends tracks after the playlist's current last position.
// Tracks already in the playlist are skipped.
func (r *PlaylistRepositoryImpl) AddTracks(ctx context.Context, playlistId uuid.UUID, trackIds []uuid.UUID) error {
	if len(trackIds) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&model.PlaylistTrack{}).
			Where("playlist_id = ?", playlistId).
			Select("COALESCE(MAX(position), -1)").
			Scan(&last).Error; err != nil {
			return err
		}

		rows := make([]model.PlaylistTrack, len(trackIds))
		for i, id := range trackIds {
			rows[i] = model.PlaylistTrack{PlaylistId: playlistId, TrackId: id, Position: last + 1 + i}
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
	})
}

func (r *PlaylistRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Playlist, error) {
	var m model.Playlist
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PlaylistRepositoryImpl) FindTracks(ctx context.Context, playlistId uuid.UUID) ([]*entity.Track, error) {
	var models []*model.Track
	query := specification.InPlaylist{PlaylistID: playlistId}.Apply(r.db.WithContext(ctx).Model(&model.Track{}))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.trackMapper.ToEntities(models), nil
}
