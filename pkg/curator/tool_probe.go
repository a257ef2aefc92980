package curator

import (
	"context"
	"fmt"
	"sort"

	"gem-curator-be/internal/pkg/logger"
)

// ProbeDepth is how many top-ranked candidates the familiarity probe draws groups from.
const ProbeDepth = 20

// ProbeGroups returns the distinct groups among the best-ranked candidates, best first.
func ProbeGroups(candidates []Candidate) []string {
	ranked := rankByDistance(candidates)
	if len(ranked) > ProbeDepth {
		ranked = ranked[:ProbeDepth]
	}

	seen := map[string]bool{}
	groups := make([]string, 0, len(ranked))
	for _, c := range ranked {
		if seen[c.Group] {
			continue
		}
		seen[c.Group] = true
		groups = append(groups, c.Group)
	}
	return groups
}

type probeFamiliarityTool struct {
	logger logger.ILogger
}

func (t *probeFamiliarityTool) Name() Action { return ActionProbeFamiliarity }

func (t *probeFamiliarityTool) Description() string {
	return "Ask which of the top candidate artists the listener already knows (INTERRUPTS THE LISTENER)"
}

func (t *probeFamiliarityTool) Interrupting() bool { return true }

func (t *probeFamiliarityTool) Invoke(_ context.Context, st State, _ map[string]any) Patch {
	groups := ProbeGroups(st.Candidates)

	options := make([]Option, 0, len(groups)+2)
	for _, g := range groups {
		options = append(options, Option{Label: g, Value: g})
	}
	options = append(options,
		Option{Label: "None of them", Value: KnownNone},
		Option{Label: "All of them", Value: KnownAll},
	)

	t.logger.Info("TOOL", "Probing familiarity", map[string]interface{}{"groups": len(groups)})

	return Patch{
		KnowledgeChecked: ptr(true),
		ProbedGroups:     groups,
		Status:           ptr(StatusAwaitingFamiliarity),
		Presentation: &Presentation{
			Message: fmt.Sprintf("Which of these %d artists do you already know? (Select all that apply)", len(groups)),
			Options: options,
		},
	}
}

func rankByDistance(candidates []Candidate) []Candidate {
	ranked := append([]Candidate(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})
	return ranked
}
