package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"gem-curator-be/pkg/curator"
)

// Catalog is an in-process track catalog with brute-force cosine search.
// It backs the offline simulation and tests.
type Catalog struct {
	mu        sync.RWMutex
	tracks    map[string]curator.SeedItem
	order     []string
	playlists map[string][]string
}

var (
	_ curator.SeedSource       = (*Catalog)(nil)
	_ curator.SimilaritySearch = (*Catalog)(nil)
)

func NewCatalog() *Catalog {
	return &Catalog{
		tracks:    map[string]curator.SeedItem{},
		playlists: map[string][]string{},
	}
}

func (c *Catalog) AddTracks(items ...curator.SeedItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range items {
		if _, exists := c.tracks[it.ID]; !exists {
			c.order = append(c.order, it.ID)
		}
		c.tracks[it.ID] = it
	}
}

func (c *Catalog) AddPlaylist(id string, trackIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playlists[id] = append([]string(nil), trackIDs...)
}

func (c *Catalog) LoadSeed(_ context.Context, collectionID string) ([]curator.SeedItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids, ok := c.playlists[collectionID]
	if !ok {
		return nil, fmt.Errorf("playlist %s not found", collectionID)
	}
	items := make([]curator.SeedItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := c.tracks[id]; ok {
			items = append(items, it)
		}
	}
	return items, nil
}

func (c *Catalog) Search(_ context.Context, q curator.SearchQuery) ([]curator.Candidate, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	excludedGroups := toSet(q.ExcludeGroups)
	excludedItems := toSet(q.ExcludeItems)

	out := make([]curator.Candidate, 0)
	for _, id := range c.order {
		it := c.tracks[id]
		if len(it.Vector) == 0 || excludedGroups[it.Group] || excludedItems[it.ID] {
			continue
		}
		if !within(it.Tempo, q.Constraints.MinTempo, q.Constraints.MaxTempo) ||
			!within(it.Energy, q.Constraints.MinEnergy, q.Constraints.MaxEnergy) {
			continue
		}
		out = append(out, curator.Candidate{
			ID:         it.ID,
			Title:      it.Title,
			Group:      it.Group,
			Distance:   CosineDistance(q.Reference, it.Vector),
			Tempo:      it.Tempo,
			Energy:     it.Energy,
			Categories: append([]string(nil), it.Categories...),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// CosineDistance matches pgvector's <=> operator: 1 - cosine similarity.
func CosineDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

// within rejects a missing feature whenever either bound is set, like SQL NULL comparison.
func within(v, min, max *float64) bool {
	if min == nil && max == nil {
		return true
	}
	if v == nil {
		return false
	}
	if min != nil && *v < *min {
		return false
	}
	if max != nil && *v > *max {
		return false
	}
	return true
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
