package curator

import "context"

// SeedItem is one member of the seed collection with its precomputed features.
type SeedItem struct {
	ID         string
	Title      string
	Group      string
	Vector     []float32
	Tempo      *float64
	Energy     *float64
	Categories []string
}

// SeedSource loads the seed collection a session was started from.
type SeedSource interface {
	LoadSeed(ctx context.Context, collectionID string) ([]SeedItem, error)
}

// Constraints bound the numeric features of retrieved candidates. Nil bounds are open.
type Constraints struct {
	MinTempo  *float64 `json:"min_tempo,omitempty"`
	MaxTempo  *float64 `json:"max_tempo,omitempty"`
	MinEnergy *float64 `json:"min_energy,omitempty"`
	MaxEnergy *float64 `json:"max_energy,omitempty"`
}

// Empty reports whether no bound is set.
func (c Constraints) Empty() bool {
	return c.MinTempo == nil && c.MaxTempo == nil && c.MinEnergy == nil && c.MaxEnergy == nil
}

// SearchQuery is one nearest-neighbour request.
type SearchQuery struct {
	Reference     []float32
	Constraints   Constraints
	ExcludeGroups []string
	ExcludeItems  []string
	Limit         int
}

// SimilaritySearch is the nearest-neighbour collaborator. Results come back
// ordered by ascending distance to the reference vector.
type SimilaritySearch interface {
	Search(ctx context.Context, query SearchQuery) ([]Candidate, error)
}

// SessionStore persists session snapshots between resumptions.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (State, error)
	Save(ctx context.Context, state State) error
}
