package curator

import "context"

// Decision is a policy's proposal for the next pass.
type Decision struct {
	Action     Action         `json:"next_action"`
	Reasoning  string         `json:"reasoning"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Summary is the view of a session a policy decides on.
type Summary struct {
	SourceAnalyzed     bool
	KnowledgeChecked   bool
	SelectionFinalized bool
	Exhausted          bool
	Direction          string

	RetrievalAttempt int
	CandidateCount   int
	UnknownCount     int
	DistinctGroups   int
	Scored           bool
	Quality          *Assessment

	KnownCount  int
	KnownSample []string

	IterationCount int
	History        []Action
}

// AllKnown reports whether candidates exist and every one belongs to a known group.
func (s Summary) AllKnown() bool {
	return s.CandidateCount > 0 && s.UnknownCount == 0
}

// Summarize builds the policy view of a state.
func Summarize(st State) Summary {
	groups := map[string]bool{}
	for _, c := range st.Candidates {
		groups[c.Group] = true
	}

	known := st.KnownList()
	sample := known
	if len(sample) > 3 {
		sample = sample[:3]
	}

	var quality *Assessment
	if st.Quality != nil {
		q := *st.Quality
		quality = &q
	}

	return Summary{
		SourceAnalyzed:     st.SourceAnalyzed,
		KnowledgeChecked:   st.KnowledgeChecked,
		SelectionFinalized: st.SelectionFinalized,
		Exhausted:          st.Exhausted,
		Direction:          st.Direction,
		RetrievalAttempt:   st.RetrievalAttempt,
		CandidateCount:     len(st.Candidates),
		UnknownCount:       st.UnknownCount(),
		DistinctGroups:     len(groups),
		Scored:             st.Scored(),
		Quality:            quality,
		KnownCount:         len(known),
		KnownSample:        sample,
		IterationCount:     st.IterationCount,
		History:            st.ActionHistory.Slice(),
	}
}

// Policy picks the next action. Implementations may be LLM-backed or rule-based.
type Policy interface {
	Decide(ctx context.Context, summary Summary) (Decision, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(ctx context.Context, summary Summary) (Decision, error)

func (f PolicyFunc) Decide(ctx context.Context, summary Summary) (Decision, error) {
	return f(ctx, summary)
}
