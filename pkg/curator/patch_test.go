package curator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply_LeavesReceiverIntact(t *testing.T) {
	st := NewState("s", "c", "u")
	st.KnownItems["Old"] = true

	cands := candidates(3, 3, 0.2)
	next := st.Apply(Patch{
		Status:           ptr(StatusAwaitingFamiliarity),
		KnowledgeChecked: ptr(true),
		Candidates:       cands,
		AddKnown:         []string{"New"},
		ProbedGroups:     []string{"Artist 00"},
		Quality:          &Assessment{Attempt: 1, Overall: 0.7},
	})

	assert.Equal(t, StatusActive, st.Status)
	assert.False(t, st.KnowledgeChecked)
	assert.Empty(t, st.Candidates)
	assert.Equal(t, []string{"Old"}, st.KnownList())
	assert.Nil(t, st.Quality)

	assert.Equal(t, StatusAwaitingFamiliarity, next.Status)
	assert.True(t, next.KnowledgeChecked)
	assert.Len(t, next.Candidates, 3)
	assert.Equal(t, []string{"New", "Old"}, next.KnownList())

	cands[0].ID = "mutated"
	assert.Equal(t, "cand-000", next.Candidates[0].ID, "patch slices are copied")
}

func TestApply_NilFieldsUntouched(t *testing.T) {
	st := NewState("s", "c", "u")
	st.Direction = DirectionSurprise
	st.RetrievalAttempt = 2
	st.Candidates = candidates(4, 2, 0.1)

	next := st.Apply(Patch{})

	assert.Equal(t, st.Direction, next.Direction)
	assert.Equal(t, 2, next.RetrievalAttempt)
	assert.Len(t, next.Candidates, 4)
}

func TestApply_EmptyCandidatesReplaces(t *testing.T) {
	st := NewState("s", "c", "u")
	st.Candidates = candidates(4, 2, 0.1)

	next := st.Apply(Patch{Candidates: []Candidate{}})

	assert.Empty(t, next.Candidates)
	assert.Len(t, st.Candidates, 4)
}

func TestRecord(t *testing.T) {
	st := NewState("s", "c", "u")

	next := st.record(ActionScoreCandidates, "because", map[string]any{"k": "v"})

	assert.Equal(t, 0, st.IterationCount)
	assert.Equal(t, 1, next.IterationCount)
	assert.Equal(t, ActionScoreCandidates, next.LastAction)
	assert.Equal(t, "because", next.LastReasoning)
	assert.Equal(t, []Action{ActionScoreCandidates}, next.ActionHistory.Slice())
	assert.Zero(t, st.ActionHistory.Len())
}
