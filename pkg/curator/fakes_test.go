package curator

import (
	"context"
	"fmt"
	"sync"

	"gem-curator-be/internal/pkg/logger"
	"gem-curator-be/pkg/llm"
)

func nopLogger() logger.ILogger { return logger.NewNopLogger() }

type fakeSeeds struct {
	items []SeedItem
	err   error
}

func (f *fakeSeeds) LoadSeed(_ context.Context, _ string) ([]SeedItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

// fakeSearch returns pool minus excluded groups and items, truncated to the limit.
// With ignoreExclusions set it returns pool as is, like an index that cannot filter.
type fakeSearch struct {
	mu               sync.Mutex
	pool             []Candidate
	err              error
	ignoreExclusions bool
	queries          []SearchQuery
}

func (f *fakeSearch) Search(_ context.Context, q SearchQuery) ([]Candidate, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	excludedGroups := map[string]bool{}
	for _, g := range q.ExcludeGroups {
		excludedGroups[g] = true
	}
	excludedItems := map[string]bool{}
	for _, id := range q.ExcludeItems {
		excludedItems[id] = true
	}

	out := []Candidate{}
	for _, c := range f.pool {
		if !f.ignoreExclusions && (excludedGroups[c.Group] || excludedItems[c.ID]) {
			continue
		}
		out = append(out, c)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

type fakeWriter struct {
	response string
	err      error
	prompts  []string
	options  []llm.Options
}

func (f *fakeWriter) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (f *fakeWriter) Generate(_ context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	f.options = append(f.options, llm.Apply(llm.Options{}, opts...))
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

// scriptedPolicy replays decisions in order and fails once exhausted.
type scriptedPolicy struct {
	actions []Action
	calls   int
}

func (p *scriptedPolicy) Decide(_ context.Context, _ Summary) (Decision, error) {
	if p.calls >= len(p.actions) {
		return Decision{}, fmt.Errorf("script exhausted after %d calls", p.calls)
	}
	a := p.actions[p.calls]
	p.calls++
	return Decision{Action: a, Reasoning: "scripted"}, nil
}

func seedItems(n int) []SeedItem {
	items := make([]SeedItem, n)
	for i := range items {
		tempo := 100.0 + float64(i)
		energy := 0.5
		items[i] = SeedItem{
			ID:         fmt.Sprintf("seed-%d", i),
			Title:      fmt.Sprintf("Seed %d", i),
			Group:      fmt.Sprintf("Seed Artist %d", i%2),
			Vector:     []float32{1, float32(i), 0},
			Tempo:      &tempo,
			Energy:     &energy,
			Categories: []string{"indie", "folk"},
		}
	}
	return items
}

// candidates builds n candidates spread round-robin over the given number of
// groups, each at the same distance, ranked by index.
func candidates(n, groups int, distance float64) []Candidate {
	out := make([]Candidate, n)
	for i := range out {
		tempo := 105.0
		energy := 0.55
		out[i] = Candidate{
			ID:       fmt.Sprintf("cand-%03d", i),
			Title:    fmt.Sprintf("Track %d", i),
			Group:    fmt.Sprintf("Artist %02d", i%groups),
			Distance: distance + float64(i)*1e-6,
			Tempo:    &tempo,
			Energy:   &energy,
		}
	}
	return out
}

func newTestSupervisor(seeds SeedSource, search SimilaritySearch, writer llm.LLMProvider, policy Policy) *Supervisor {
	registry := DefaultRegistry(Dependencies{Seeds: seeds, Search: search, Writer: writer})
	return NewSupervisor(registry, policy, nil)
}

func strPtr(s string) *string { return &s }
