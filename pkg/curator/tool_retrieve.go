package curator

import (
	"context"
	"sort"

	"gem-curator-be/internal/pkg/logger"
)

const (
	tempoMargin  = 10.0
	energyMargin = 0.1
	tempoBand    = 20.0

	// widenFactor is how far the second attempt relaxes each offset.
	widenFactor = 0.2
)

var attemptLimits = []int{50, 100, 200}

// ResultLimit is the requested result-set size for a 1-based attempt.
func ResultLimit(attempt int) int {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > len(attemptLimits) {
		return attemptLimits[len(attemptLimits)-1]
	}
	return attemptLimits[attempt-1]
}

// DeriveConstraints maps a direction onto feature bounds around the profile means.
// Attempt 1 is tight, attempt 2 relaxes the offsets from the mean, attempt 3
// and later drop them. Relaxed chill and energy bounds never cross the mean.
func DeriveConstraints(direction string, profile *Profile, attempt int) Constraints {
	if attempt >= 3 || profile == nil {
		return Constraints{}
	}

	// margins move toward the mean, the similar band grows
	margin, band := 1.0, 1.0
	if attempt == 2 {
		margin, band = 1-widenFactor, 1+widenFactor
	}

	var c Constraints
	tempo, energy := profile.MeanTempo, profile.MeanEnergy

	switch direction {
	case DirectionSoften:
		if tempo != nil {
			c.MaxTempo = ptr(*tempo - tempoMargin*margin)
		}
		if energy != nil {
			c.MaxEnergy = ptr(clampUnit(*energy - energyMargin*margin))
		}
	case DirectionIntensify:
		if tempo != nil {
			c.MinTempo = ptr(*tempo + tempoMargin*margin)
		}
		if energy != nil {
			c.MinEnergy = ptr(clampUnit(*energy + energyMargin*margin))
		}
	case DirectionSurprise:
		return Constraints{}
	default:
		if tempo != nil {
			c.MinTempo = ptr(maxFloat(0, *tempo-tempoBand*band))
			c.MaxTempo = ptr(*tempo + tempoBand*band)
		}
	}
	return c
}

type retrieveCandidatesTool struct {
	seeds  SeedSource
	search SimilaritySearch
	logger logger.ILogger
}

func (t *retrieveCandidatesTool) Name() Action { return ActionRetrieveCandidates }

func (t *retrieveCandidatesTool) Description() string {
	return "Search for tracks near the playlist centroid, excluding known artists; constraints relax on every retry"
}

func (t *retrieveCandidatesTool) Interrupting() bool { return false }

func (t *retrieveCandidatesTool) Invoke(ctx context.Context, st State, params map[string]any) Patch {
	attempt := st.RetrievalAttempt + 1
	patch := Patch{RetrievalAttempt: ptr(attempt), Candidates: []Candidate{}}

	direction := st.Direction
	if override, ok := params["direction"].(string); ok && ValidDirection(override) {
		direction = override
	}
	if direction == "" {
		direction = DirectionSimilar
	}

	items, err := t.seeds.LoadSeed(ctx, st.CollectionID)
	if err != nil {
		t.logger.Error("TOOL", "Failed to load seed collection for retrieval", map[string]interface{}{
			"collection_id": st.CollectionID,
			"attempt":       attempt,
			"error":         err.Error(),
		})
		return patch
	}

	reference := Centroid(items)
	if len(reference) == 0 {
		t.logger.Warn("TOOL", "Seed collection has no vectors", map[string]interface{}{"collection_id": st.CollectionID})
		return patch
	}

	exclude := make([]string, 0, len(items))
	for _, it := range items {
		exclude = append(exclude, it.ID)
	}

	query := SearchQuery{
		Reference:     reference,
		Constraints:   DeriveConstraints(direction, st.Profile, attempt),
		ExcludeGroups: st.KnownList(),
		ExcludeItems:  exclude,
		Limit:         ResultLimit(attempt),
	}

	results, err := t.search.Search(ctx, query)
	if err != nil {
		t.logger.Error("TOOL", "Similarity search failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
		return patch
	}

	candidates := append([]Candidate{}, results...)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})
	patch.Candidates = candidates

	if len(candidates) == 0 {
		t.logger.Warn("TOOL", ErrNoCandidatesFound.Error(), map[string]interface{}{
			"attempt":   attempt,
			"direction": direction,
		})
	}

	t.logger.Info("TOOL", "Candidates retrieved", map[string]interface{}{
		"attempt":     attempt,
		"direction":   direction,
		"limit":       query.Limit,
		"constrained": !query.Constraints.Empty(),
		"excluded":    len(query.ExcludeGroups),
		"candidates":  len(candidates),
	})
	return patch
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
