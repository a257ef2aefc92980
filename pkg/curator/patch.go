package curator

import "sort"

// Patch is the set of changes a tool asks the supervisor to apply.
// Nil fields are left untouched.
type Patch struct {
	Status             *Status
	SourceAnalyzed     *bool
	KnowledgeChecked   *bool
	SelectionFinalized *bool
	RetrievalAttempt   *int
	Exhausted          *bool

	Profile *Profile

	// Candidates replaces the whole list when non-nil.
	Candidates []Candidate
	Quality    *Assessment

	// AddKnown is unioned into KnownItems.
	AddKnown     []string
	ProbedGroups []string

	Presentation *Presentation
	Error        *string
}

// Apply returns a new snapshot with the patch applied. The receiver is not modified.
func (s State) Apply(p Patch) State {
	next := s

	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.SourceAnalyzed != nil {
		next.SourceAnalyzed = *p.SourceAnalyzed
	}
	if p.KnowledgeChecked != nil {
		next.KnowledgeChecked = *p.KnowledgeChecked
	}
	if p.SelectionFinalized != nil {
		next.SelectionFinalized = *p.SelectionFinalized
	}
	if p.RetrievalAttempt != nil {
		next.RetrievalAttempt = *p.RetrievalAttempt
	}
	if p.Exhausted != nil {
		next.Exhausted = *p.Exhausted
	}
	if p.Profile != nil {
		profile := *p.Profile
		profile.TopCategories = append([]string(nil), p.Profile.TopCategories...)
		next.Profile = &profile
	}
	if p.Candidates != nil {
		next.Candidates = append([]Candidate{}, p.Candidates...)
	}
	if p.Quality != nil {
		q := *p.Quality
		next.Quality = &q
	}
	if len(p.AddKnown) > 0 {
		known := make(map[string]bool, len(s.KnownItems)+len(p.AddKnown))
		for k := range s.KnownItems {
			known[k] = true
		}
		for _, k := range p.AddKnown {
			known[k] = true
		}
		next.KnownItems = known
	}
	if p.ProbedGroups != nil {
		next.ProbedGroups = append([]string{}, p.ProbedGroups...)
	}
	if p.Presentation != nil {
		pres := Presentation{
			Message: p.Presentation.Message,
			Options: append([]Option{}, p.Presentation.Options...),
			Cards:   append([]Card{}, p.Presentation.Cards...),
		}
		next.Presentation = &pres
	}
	if p.Error != nil {
		next.Error = *p.Error
	}
	return next
}

// record stores the supervisor's bookkeeping for one pass.
func (s State) record(action Action, reasoning string, params map[string]any) State {
	next := s
	next.IterationCount = s.IterationCount + 1
	next.ActionHistory = s.ActionHistory.Push(action)
	next.LastAction = action
	next.LastReasoning = reasoning
	next.ToolParameters = params
	return next
}

func ptr[T any](v T) *T {
	return &v
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k, ok := range set {
		if ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
