package implementation

import (
	"context"
	"errors"

	"gem-curator-be/internal/entity"
	"gem-curator-be/internal/mapper"
	"gem-curator-be/internal/model"
	"gem-curator-be/internal/repository/contract"
	"gem-curator-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type TrackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.TrackMapper
}

func NewTrackRepository(db *gorm.DB) contract.TrackRepository {
	return &TrackRepositoryImpl{
		db:     db,
		mapper: mapper.NewTrackMapper(),
	}
}

func (r *TrackRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TrackRepositoryImpl) Create(ctx context.Context, track *entity.Track) error {
	m := r.mapper.ToModel(track)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*track = *r.mapper.ToEntity(m)
	return nil
}

func (r *TrackRepositoryImpl) CreateBulk(ctx context.Context, tracks []*entity.Track) error {
	if len(tracks) == 0 {
		return nil
	}
	models := make([]*model.Track, len(tracks))
	for i, t := range tracks {
		models[i] = r.mapper.ToModel(t)
	}

	if err := r.db.WithContext(ctx).CreateInBatches(models, 100).Error; err != nil {
		return err
	}

	for i, m := range models {
		*tracks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *TrackRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Track, error) {
	var m model.Track
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Track{}), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TrackRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Track{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *TrackRepositoryImpl) SearchSimilar(ctx context.Context, reference []float32, limit int, specs ...specification.Specification) ([]*entity.ScoredTrack, error) {
	if limit <= 0 {
		limit = 50
	}

	type result struct {
		model.Track
		Distance float64
	}
	var results []result

	queryVector := pgvector.NewVector(reference)

	// pgvector <=> is cosine distance (1 - cosine similarity)
	query := r.db.WithContext(ctx).
		Table("tracks").
		Select("tracks.*, (tracks.embedding <=> ?) AS distance", queryVector).
		Where("tracks.deleted_at IS NULL")
	query = r.applySpecifications(query, specs...)

	err := query.
		Order("distance ASC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*entity.ScoredTrack, len(results))
	for i := range results {
		scored[i] = &entity.ScoredTrack{
			Track:    r.mapper.ToEntity(&results[i].Track),
			Distance: results[i].Distance,
		}
	}
	return scored, nil
}
