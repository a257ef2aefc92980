package curator

import (
	"time"
)

// Action names a registered tool (or the terminal sentinel).
type Action string

const (
	ActionAnalyzeSource      Action = "analyze_source"
	ActionRetrieveCandidates Action = "retrieve_candidates"
	ActionScoreCandidates    Action = "score_candidates"
	ActionProbeFamiliarity   Action = "probe_familiarity"
	ActionFinalizeSelection  Action = "finalize_selection"

	// ActionEnd is the terminal sentinel a policy may return instead of naming the terminal tool.
	ActionEnd Action = "END"
)

// Status of a session between supervisor passes
type Status string

const (
	StatusActive              Status = "ACTIVE"
	StatusAwaitingDirection   Status = "AWAITING_DIRECTION"
	StatusAwaitingFamiliarity Status = "AWAITING_FAMILIARITY"
	StatusCompleted           Status = "COMPLETED"
	StatusFailed              Status = "FAILED"
)

// Retrieval directions offered after the seed collection is analyzed.
const (
	DirectionSimilar   = "similar"
	DirectionSoften    = "chill"
	DirectionIntensify = "energy"
	DirectionSurprise  = "surprise"
)

// Familiarity sentinels offered next to the surfaced groups.
const (
	KnownNone = "none"
	KnownAll  = "all"
)

// Candidate is one retrieved item. Distance is the cosine distance to the seed centroid.
type Candidate struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Group      string   `json:"group"`
	Distance   float64  `json:"distance"`
	Tempo      *float64 `json:"tempo,omitempty"`
	Energy     *float64 `json:"energy,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Rationale  string   `json:"rationale,omitempty"`
}

// Profile summarizes the seed collection.
type Profile struct {
	ItemCount     int      `json:"item_count"`
	MeanTempo     *float64 `json:"mean_tempo,omitempty"`
	MeanEnergy    *float64 `json:"mean_energy,omitempty"`
	TopCategories []string `json:"top_categories"`
	Description   string   `json:"description"`
}

// Assessment is the output of score_candidates for one retrieval attempt.
type Assessment struct {
	Attempt        int     `json:"attempt"`
	Coverage       float64 `json:"coverage"`
	Fidelity       float64 `json:"fidelity"`
	Variety        float64 `json:"variety"`
	Overall        float64 `json:"overall"`
	Sufficient     bool    `json:"sufficient"`
	Recommendation string  `json:"recommendation"` // "proceed" | "retry"
}

const (
	RecommendProceed = "proceed"
	RecommendRetry   = "retry"
)

type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Card struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Group     string `json:"group"`
	Rationale string `json:"rationale"`
}

// Presentation is what the caller renders at a suspension or at termination.
type Presentation struct {
	Message string   `json:"message"`
	Options []Option `json:"options"`
	Cards   []Card   `json:"cards"`
}

// State is the session snapshot. Tools never mutate it; they return a Patch.
type State struct {
	SessionID    string `json:"session_id"`
	CollectionID string `json:"collection_id"`
	UserID       string `json:"user_id"`

	Status             Status `json:"status"`
	SourceAnalyzed     bool   `json:"source_analyzed"`
	KnowledgeChecked   bool   `json:"knowledge_checked"`
	SelectionFinalized bool   `json:"selection_finalized"`
	RetrievalAttempt   int    `json:"retrieval_attempt"`
	Exhausted          bool   `json:"exhausted"`

	Direction    string          `json:"direction,omitempty"`
	Profile      *Profile        `json:"profile,omitempty"`
	Candidates   []Candidate     `json:"candidates"`
	Quality      *Assessment     `json:"quality,omitempty"`
	KnownItems   map[string]bool `json:"known_items"`
	ProbedGroups []string        `json:"probed_groups,omitempty"`

	LastAction     Action         `json:"last_action,omitempty"`
	LastReasoning  string         `json:"last_reasoning,omitempty"`
	ToolParameters map[string]any `json:"tool_parameters,omitempty"`
	ActionHistory  ActionHistory  `json:"action_history"`
	IterationCount int            `json:"iteration_count"`

	Presentation *Presentation `json:"presentation,omitempty"`
	Error        string        `json:"error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a session with all flags cleared.
func NewState(sessionID, collectionID, userID string) State {
	now := time.Now()
	return State{
		SessionID:    sessionID,
		CollectionID: collectionID,
		UserID:       userID,
		Status:       StatusActive,
		Candidates:   []Candidate{},
		KnownItems:   map[string]bool{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Finished reports whether the session reached a terminal outcome.
func (s State) Finished() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// Awaiting reports whether the session is suspended on user input.
func (s State) Awaiting() bool {
	return s.Status == StatusAwaitingDirection || s.Status == StatusAwaitingFamiliarity
}

// Scored reports whether the current candidate list has been assessed.
func (s State) Scored() bool {
	return s.Quality != nil && s.Quality.Attempt == s.RetrievalAttempt
}

// Known reports whether the user declared the group familiar.
func (s State) Known(group string) bool {
	return s.KnownItems[group]
}

// KnownList returns the known groups in a stable order.
func (s State) KnownList() []string {
	return sortedKeys(s.KnownItems)
}

// UnknownCount is the number of candidates whose group is not known.
func (s State) UnknownCount() int {
	n := 0
	for _, c := range s.Candidates {
		if !s.Known(c.Group) {
			n++
		}
	}
	return n
}
