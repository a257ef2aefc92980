package curator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulePolicy_Table(t *testing.T) {
	sufficient := &Assessment{Attempt: 1, Overall: 0.9, Sufficient: true}
	insufficient := &Assessment{Attempt: 1, Overall: 0.3}

	tests := []struct {
		name    string
		summary Summary
		want    Action
	}{
		{"not analyzed", Summary{}, ActionAnalyzeSource},
		{"exhausted seed", Summary{SourceAnalyzed: true, Exhausted: true}, ActionFinalizeSelection},
		{"no retrieval yet", Summary{SourceAnalyzed: true, Direction: DirectionSimilar}, ActionRetrieveCandidates},
		{"unscored candidates", Summary{SourceAnalyzed: true, RetrievalAttempt: 1, CandidateCount: 40}, ActionScoreCandidates},
		{
			"insufficient, retries left",
			Summary{SourceAnalyzed: true, RetrievalAttempt: 1, CandidateCount: 4, Scored: true, Quality: insufficient},
			ActionRetrieveCandidates,
		},
		{
			"sufficient, knowledge unchecked",
			Summary{SourceAnalyzed: true, RetrievalAttempt: 1, CandidateCount: 50, Scored: true, Quality: sufficient},
			ActionProbeFamiliarity,
		},
		{
			"insufficient after three attempts with candidates",
			Summary{SourceAnalyzed: true, RetrievalAttempt: 3, CandidateCount: 4, Scored: true, Quality: insufficient},
			ActionProbeFamiliarity,
		},
		{
			"insufficient after three attempts without candidates",
			Summary{SourceAnalyzed: true, RetrievalAttempt: 3, Scored: true, Quality: insufficient},
			ActionFinalizeSelection,
		},
		{
			"enough unknown candidates",
			Summary{SourceAnalyzed: true, KnowledgeChecked: true, RetrievalAttempt: 1, CandidateCount: 50, UnknownCount: 30, Scored: true, Quality: sufficient},
			ActionFinalizeSelection,
		},
		{
			"all known on first attempt",
			Summary{SourceAnalyzed: true, KnowledgeChecked: true, RetrievalAttempt: 1, CandidateCount: 50, UnknownCount: 0, Scored: true, Quality: sufficient},
			ActionRetrieveCandidates,
		},
		{
			"all known on second attempt",
			Summary{SourceAnalyzed: true, KnowledgeChecked: true, RetrievalAttempt: 2, CandidateCount: 50, UnknownCount: 0, Scored: true, Quality: sufficient},
			ActionFinalizeSelection,
		},
		{
			"few unknown after probe",
			Summary{SourceAnalyzed: true, KnowledgeChecked: true, RetrievalAttempt: 1, CandidateCount: 50, UnknownCount: 3, Scored: true, Quality: sufficient},
			ActionFinalizeSelection,
		},
		{
			"knowledge checked, fresh retrieval unscored",
			Summary{SourceAnalyzed: true, KnowledgeChecked: true, RetrievalAttempt: 2, CandidateCount: 10},
			ActionScoreCandidates,
		},
	}

	policy := NewRulePolicy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := policy.Decide(context.Background(), tt.summary)

			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Action)
			assert.NotEmpty(t, d.Reasoning)
		})
	}
}

func TestSummarize(t *testing.T) {
	st := NewState("s", "c", "u")
	st.SourceAnalyzed = true
	st.RetrievalAttempt = 2
	st.Candidates = candidates(10, 5, 0.1)
	st.Quality = &Assessment{Attempt: 1}
	st = st.Apply(Patch{AddKnown: []string{"Artist 00", "Artist 01", "Zed", "Alpha"}})
	st.ActionHistory = history(ActionRetrieveCandidates, ActionScoreCandidates)

	s := Summarize(st)

	assert.Equal(t, 10, s.CandidateCount)
	assert.Equal(t, 5, s.DistinctGroups)
	assert.Equal(t, 6, s.UnknownCount)
	assert.False(t, s.Scored, "assessment belongs to an earlier attempt")
	assert.Equal(t, 4, s.KnownCount)
	assert.Equal(t, []string{"Alpha", "Artist 00", "Artist 01"}, s.KnownSample)
	assert.Equal(t, []Action{ActionRetrieveCandidates, ActionScoreCandidates}, s.History)
}
