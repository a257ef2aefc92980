package curator

import (
	"context"

	"gem-curator-be/internal/pkg/logger"
	"gem-curator-be/pkg/llm"
)

// Tool is one side-effecting operation the supervisor can run.
// Invoke never fails: problems are reported through the returned patch.
type Tool interface {
	Name() Action
	Description() string
	// Interrupting tools suspend the session until the user answers.
	Interrupting() bool
	Invoke(ctx context.Context, st State, params map[string]any) Patch
}

// Registry is the fixed set of tools available to a policy.
type Registry struct {
	tools map[Action]Tool
	order []Action
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[Action]Tool, len(tools))}
	for _, t := range tools {
		if _, dup := r.tools[t.Name()]; !dup {
			r.order = append(r.order, t.Name())
		}
		r.tools[t.Name()] = t
	}
	return r
}

// Dependencies are the collaborators the built-in tools call.
type Dependencies struct {
	Seeds  SeedSource
	Search SimilaritySearch
	Writer llm.LLMProvider
	Logger logger.ILogger
}

// DefaultRegistry wires the five curation tools.
func DefaultRegistry(deps Dependencies) *Registry {
	if deps.Logger == nil {
		deps.Logger = logger.NewNopLogger()
	}
	return NewRegistry(
		&analyzeSourceTool{seeds: deps.Seeds, writer: deps.Writer, logger: deps.Logger},
		&retrieveCandidatesTool{seeds: deps.Seeds, search: deps.Search, logger: deps.Logger},
		&scoreCandidatesTool{logger: deps.Logger},
		&probeFamiliarityTool{logger: deps.Logger},
		&finalizeSelectionTool{writer: deps.Writer, logger: deps.Logger},
	)
}

func (r *Registry) Lookup(name Action) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names lists registered actions in registration order.
func (r *Registry) Names() []Action {
	return append([]Action(nil), r.order...)
}
