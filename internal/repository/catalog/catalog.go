// Package catalog adapts the track and playlist repositories to the
// collaborator interfaces the curation engine consumes.
package catalog

import (
	"context"
	"fmt"

	"gem-curator-be/internal/entity"
	"gem-curator-be/internal/repository/specification"
	"gem-curator-be/internal/repository/unitofwork"
	"gem-curator-be/pkg/curator"

	"github.com/google/uuid"
)

type Catalog struct {
	uowFactory unitofwork.RepositoryFactory
}

var (
	_ curator.SeedSource       = (*Catalog)(nil)
	_ curator.SimilaritySearch = (*Catalog)(nil)
)

func NewCatalog(uowFactory unitofwork.RepositoryFactory) *Catalog {
	return &Catalog{uowFactory: uowFactory}
}

// LoadSeed returns the playlist's tracks in playlist order.
func (c *Catalog) LoadSeed(ctx context.Context, collectionID string) ([]curator.SeedItem, error) {
	playlistId, err := uuid.Parse(collectionID)
	if err != nil {
		return nil, fmt.Errorf("invalid playlist id %q: %w", collectionID, err)
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	tracks, err := uow.PlaylistRepository().FindTracks(ctx, playlistId)
	if err != nil {
		return nil, fmt.Errorf("load playlist tracks: %w", err)
	}

	items := make([]curator.SeedItem, 0, len(tracks))
	for _, t := range tracks {
		items = append(items, ToSeedItem(t))
	}
	return items, nil
}

func (c *Catalog) Search(ctx context.Context, q curator.SearchQuery) ([]curator.Candidate, error) {
	specs := []specification.Specification{
		specification.HasEmbedding{},
		specification.TempoRange{Min: q.Constraints.MinTempo, Max: q.Constraints.MaxTempo},
		specification.EnergyRange{Min: q.Constraints.MinEnergy, Max: q.Constraints.MaxEnergy},
		specification.ArtistNotIn{Artists: q.ExcludeGroups},
		specification.TrackIDNotIn{IDs: parseIDs(q.ExcludeItems)},
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.TrackRepository().SearchSimilar(ctx, q.Reference, q.Limit, specs...)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	candidates := make([]curator.Candidate, 0, len(scored))
	for _, s := range scored {
		candidates = append(candidates, ToCandidate(s))
	}
	return candidates, nil
}

func ToSeedItem(t *entity.Track) curator.SeedItem {
	return curator.SeedItem{
		ID:         t.Id.String(),
		Title:      t.Title,
		Group:      t.Artist,
		Vector:     t.Embedding,
		Tempo:      t.Tempo,
		Energy:     t.Energy,
		Categories: append([]string(nil), t.Genres...),
	}
}

func ToCandidate(s *entity.ScoredTrack) curator.Candidate {
	return curator.Candidate{
		ID:         s.Track.Id.String(),
		Title:      s.Track.Title,
		Group:      s.Track.Artist,
		Distance:   s.Distance,
		Tempo:      s.Track.Tempo,
		Energy:     s.Track.Energy,
		Categories: append([]string(nil), s.Track.Genres...),
	}
}

func parseIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		if id, err := uuid.Parse(r); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
