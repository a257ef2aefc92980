package contract

import (
	"context"

	"gem-curator-be/internal/entity"
	"gem-curator-be/internal/repository/specification"
)

type TrackRepository interface {
	Create(ctx context.Context, track *entity.Track) error
	CreateBulk(ctx context.Context, tracks []*entity.Track) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Track, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar orders by cosine distance to the reference vector, nearest first.
	SearchSimilar(ctx context.Context, reference []float32, limit int, specs ...specification.Specification) ([]*entity.ScoredTrack, error)
}
