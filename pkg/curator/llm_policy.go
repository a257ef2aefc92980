package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gem-curator-be/pkg/llm"
)

// decisionMaxTokens bounds the decision reply; a decision object is a few dozen tokens.
const decisionMaxTokens = 256

// LLMPolicy asks a language model for the next action.
type LLMPolicy struct {
	provider llm.LLMProvider
	registry *Registry
}

func NewLLMPolicy(provider llm.LLMProvider, registry *Registry) *LLMPolicy {
	return &LLMPolicy{provider: provider, registry: registry}
}

func (p *LLMPolicy) Decide(ctx context.Context, s Summary) (Decision, error) {
	prompt := p.renderPrompt(s)

	response, err := p.provider.Generate(ctx, prompt, llm.WithTemperature(0), llm.WithJSONMode(), llm.WithMaxTokens(decisionMaxTokens))
	if err != nil {
		return Decision{}, fmt.Errorf("llm generation failed: %w", err)
	}

	decision, err := extractDecision(response)
	if err != nil {
		return Decision{}, fmt.Errorf("decision extraction failed: %w", err)
	}
	return decision, nil
}

func (p *LLMPolicy) renderPrompt(s Summary) string {
	var b strings.Builder

	b.WriteString("You are the supervisor of a music curation session. Your mission: pick 5 tracks that match ")
	b.WriteString("the seed playlist and come from artists the listener does not know yet.\n\n")

	b.WriteString("Current state:\n")
	fmt.Fprintf(&b, "- Playlist analyzed: %t\n", s.SourceAnalyzed)
	fmt.Fprintf(&b, "- Direction selected: %s\n", orDefault(s.Direction, "not yet"))
	fmt.Fprintf(&b, "- Search attempt: %d\n", s.RetrievalAttempt)
	fmt.Fprintf(&b, "- Candidates found: %d (%d distinct artists, %d unknown to the listener)\n", s.CandidateCount, s.DistinctGroups, s.UnknownCount)
	if s.Quality != nil && s.Scored {
		fmt.Fprintf(&b, "- Quality score: %.2f (sufficient: %t)\n", s.Quality.Overall, s.Quality.Sufficient)
	} else {
		b.WriteString("- Quality score: not evaluated\n")
	}
	fmt.Fprintf(&b, "- Knowledge checked: %t\n", s.KnowledgeChecked)
	fmt.Fprintf(&b, "- Known artists: %d (%s)\n", s.KnownCount, strings.Join(s.KnownSample, ", "))
	fmt.Fprintf(&b, "- Iteration: %d/%d\n", s.IterationCount, MaxIterations)
	fmt.Fprintf(&b, "- Recent actions: %s\n\n", joinActions(s.History))

	b.WriteString("Available tools:\n")
	for _, name := range p.registry.Names() {
		tool, _ := p.registry.Lookup(name)
		fmt.Fprintf(&b, "- %s: %s\n", name, tool.Description())
	}

	b.WriteString(`
Decision rules:
- You may interrupt the listener at most twice in total (analyze_source and probe_familiarity).
- If the playlist is not analyzed, call analyze_source.
- If a direction is selected but there are no candidates, call retrieve_candidates.
- If candidates exist but are not evaluated, call score_candidates.
- If quality is insufficient and the search attempt is below 3, call retrieve_candidates.
- If quality is sufficient and knowledge is not checked, call probe_familiarity.
- If knowledge is checked and 5 or more candidates are unknown, call finalize_selection.
- If the listener knows every candidate artist and the search attempt is 1, call retrieve_candidates.
- If the listener knows every candidate artist and the search attempt is above 1, call finalize_selection.
- If stuck, call finalize_selection.

Respond with a single JSON object and nothing else:
{"next_action": "<tool name>", "reasoning": "<one sentence>", "parameters": {}}`)

	return b.String()
}

func extractDecision(response string) (Decision, error) {
	content := extractJSON(response)

	var decision Decision
	if err := json.Unmarshal([]byte(content), &decision); err != nil {
		return Decision{}, fmt.Errorf("json unmarshal failed: %w", err)
	}
	decision.Action = Action(strings.TrimSpace(string(decision.Action)))
	if decision.Action == "" {
		return Decision{}, fmt.Errorf("empty next_action in %q", truncate(response, 120))
	}
	return decision, nil
}

// extractJSON isolates the outermost object from a model response.
func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return response
	}
	return response[startIdx : endIdx+1]
}

func joinActions(actions []Action) string {
	if len(actions) == 0 {
		return "none"
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, " -> ")
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
