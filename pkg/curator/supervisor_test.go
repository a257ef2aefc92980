package curator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// drive steps a session to completion, answering each suspension with answer.
// It returns the final state and the number of suspensions seen.
func drive(t *testing.T, sup *Supervisor, st State, answer func(State) ResumeInput) (State, int) {
	t.Helper()

	suspensions := 0
	for {
		var suspended bool
		st, suspended = sup.Step(context.Background(), st)
		if !suspended {
			require.True(t, st.Finished(), "step returned without suspending or finishing")
			return st, suspensions
		}
		suspensions++
		require.LessOrEqual(t, suspensions, 2, "listener interrupted more than twice")

		var err error
		st, err = Resume(st, answer(st))
		require.NoError(t, err)
	}
}

func answerWith(direction string, known ...string) func(State) ResumeInput {
	return func(st State) ResumeInput {
		if st.Status == StatusAwaitingDirection {
			return ResumeInput{SelectedDirection: strPtr(direction)}
		}
		if known == nil {
			known = []string{}
		}
		return ResumeInput{KnownGroupIDs: known}
	}
}

func cardIDs(t *testing.T, st State) []string {
	t.Helper()
	require.NotNil(t, st.Presentation)
	ids := make([]string, 0, len(st.Presentation.Cards))
	for _, c := range st.Presentation.Cards {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestSupervisor_HappyPath(t *testing.T) {
	seeds := &fakeSeeds{items: seedItems(10)}
	search := &fakeSearch{pool: candidates(60, 30, 0.1)}
	sup := newTestSupervisor(seeds, search, nil, NewRulePolicy())

	st, suspended := sup.Step(context.Background(), NewState("s1", "c1", "u1"))
	require.True(t, suspended)
	assert.Equal(t, StatusAwaitingDirection, st.Status)
	assert.Equal(t, 1, st.IterationCount)
	assert.Len(t, st.Presentation.Options, 4)

	st, err := Resume(st, ResumeInput{SelectedDirection: strPtr(DirectionSimilar)})
	require.NoError(t, err)

	st, suspended = sup.Step(context.Background(), st)
	require.True(t, suspended)
	assert.Equal(t, StatusAwaitingFamiliarity, st.Status)
	assert.Equal(t, 4, st.IterationCount)
	assert.Len(t, st.Candidates, 50)
	require.NotNil(t, st.Quality)
	assert.True(t, st.Quality.Sufficient)
	assert.Len(t, st.ProbedGroups, ProbeDepth)

	st, err = Resume(st, ResumeInput{KnownGroupIDs: []string{"Artist 00", "Artist 01"}})
	require.NoError(t, err)

	st, suspended = sup.Step(context.Background(), st)
	require.False(t, suspended)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.True(t, st.SelectionFinalized)
	assert.Empty(t, st.Error)
	assert.Equal(t, 5, st.IterationCount)
	assert.Equal(t, []Action{ActionScoreCandidates, ActionProbeFamiliarity, ActionFinalizeSelection}, st.ActionHistory.Slice())
	assert.Equal(t, []string{"cand-002", "cand-003", "cand-004", "cand-005", "cand-006"}, cardIDs(t, st))
	for _, c := range st.Presentation.Cards {
		assert.Equal(t, fallbackRationale, c.Rationale)
	}

	require.Len(t, search.queries, 1)
	assert.Equal(t, 50, search.queries[0].Limit)
	assert.Len(t, search.queries[0].ExcludeItems, 10)
}

func TestSupervisor_AllKnownTriggersExcludingRetrieval(t *testing.T) {
	pool := candidates(60, 10, 0.1)
	for i := 0; i < 10; i++ {
		tempo := 100.0
		pool = append(pool, Candidate{
			ID:       fmt.Sprintf("fresh-%d", i),
			Title:    fmt.Sprintf("Fresh %d", i),
			Group:    fmt.Sprintf("Fresh Artist %d", i),
			Distance: 0.5 + float64(i)*1e-3,
			Tempo:    &tempo,
		})
	}
	search := &fakeSearch{pool: pool}
	sup := newTestSupervisor(&fakeSeeds{items: seedItems(8)}, search, nil, NewRulePolicy())

	st, suspensions := drive(t, sup, NewState("s1", "c1", "u1"), answerWith(DirectionSimilar, KnownAll))

	assert.Equal(t, 2, suspensions)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, 2, st.RetrievalAttempt)
	assert.Equal(t, 7, st.IterationCount)
	assert.Len(t, st.KnownItems, 10)
	assert.Equal(t, []string{"fresh-0", "fresh-1", "fresh-2", "fresh-3", "fresh-4"}, cardIDs(t, st))
	assert.NotContains(t, st.Presentation.Message, "you knew all the artists")

	require.Len(t, search.queries, 2)
	assert.Equal(t, 100, search.queries[1].Limit)
	assert.Len(t, search.queries[1].ExcludeGroups, 10)
}

func TestSupervisor_AllKnownAgainFinalizesWithoutSecondProbe(t *testing.T) {
	search := &fakeSearch{pool: candidates(60, 10, 0.1), ignoreExclusions: true}
	sup := newTestSupervisor(&fakeSeeds{items: seedItems(8)}, search, nil, NewRulePolicy())

	st, suspensions := drive(t, sup, NewState("s1", "c1", "u1"), answerWith(DirectionSimilar, KnownAll))

	assert.Equal(t, 2, suspensions, "familiarity is asked only once")
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Empty(t, st.Error)
	assert.Equal(t, 2, st.RetrievalAttempt)
	assert.Equal(t, 7, st.IterationCount)
	assert.Equal(t, ActionFinalizeSelection, st.ActionHistory.Slice()[len(st.ActionHistory.Slice())-1])

	require.Len(t, st.Presentation.Cards, SelectionSize)
	for _, c := range st.Presentation.Cards {
		assert.True(t, st.Known(c.Group), "backfilled from familiar artists: %s", c.Group)
	}
	assert.Contains(t, st.Presentation.Message, "you knew all the artists")

	require.Len(t, search.queries, 2)
	assert.Len(t, search.queries[1].ExcludeGroups, 10)
}

func TestSupervisor_AllKnownNothingElse(t *testing.T) {
	search := &fakeSearch{pool: candidates(60, 10, 0.1)}
	sup := newTestSupervisor(&fakeSeeds{items: seedItems(8)}, search, nil, NewRulePolicy())

	st, _ := drive(t, sup, NewState("s1", "c1", "u1"), answerWith(DirectionSimilar, KnownAll))

	assert.Equal(t, StatusCompleted, st.Status)
	assert.Empty(t, st.Candidates)
	assert.Empty(t, st.Presentation.Cards)
	assert.Contains(t, st.Presentation.Message, "couldn't find any tracks")
}

func TestSupervisor_RelaxesOnInsufficientQuality(t *testing.T) {
	search := &fakeSearch{pool: candidates(4, 2, 0.4)}
	sup := newTestSupervisor(&fakeSeeds{items: seedItems(6)}, search, nil, NewRulePolicy())

	st, suspensions := drive(t, sup, NewState("s1", "c1", "u1"), answerWith(DirectionSoften))

	assert.Equal(t, 2, suspensions)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, 3, st.RetrievalAttempt)

	require.Len(t, search.queries, 3)
	assert.Equal(t, []int{50, 100, 200}, []int{search.queries[0].Limit, search.queries[1].Limit, search.queries[2].Limit})
	assert.False(t, search.queries[0].Constraints.Empty())
	assert.True(t, search.queries[2].Constraints.Empty())
	assert.Len(t, st.Presentation.Cards, 4)
}

func TestSupervisor_InsufficientSeed(t *testing.T) {
	sup := newTestSupervisor(&fakeSeeds{items: seedItems(3)}, &fakeSearch{}, nil, NewRulePolicy())

	st, suspended := sup.Step(context.Background(), NewState("s1", "c1", "u1"))

	assert.False(t, suspended)
	assert.Equal(t, StatusFailed, st.Status)
	assert.Contains(t, st.Error, ErrInsufficientSeedData.Error())
	assert.Equal(t, 1, st.IterationCount)
}

func TestSupervisor_PolicyFailureMidSession(t *testing.T) {
	policy := &scriptedPolicy{actions: []Action{ActionAnalyzeSource, ActionRetrieveCandidates, ActionScoreCandidates}}
	sup := newTestSupervisor(&fakeSeeds{items: seedItems(10)}, &fakeSearch{pool: candidates(30, 15, 0.2)}, nil, policy)

	st, suspensions := drive(t, sup, NewState("s1", "c1", "u1"), answerWith(DirectionSimilar))

	assert.Equal(t, 1, suspensions)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, 4, st.IterationCount)
	assert.Equal(t, ActionFinalizeSelection, st.LastAction)
	assert.Contains(t, st.Error, ErrPolicyFailure.Error())
	assert.Len(t, st.Presentation.Cards, SelectionSize)
	assert.Contains(t, st.Presentation.Message, "I ran into an issue")
}

func TestSupervisor_ActionNormalisation(t *testing.T) {
	tests := []struct {
		name      string
		action    Action
		wantError bool
	}{
		{"terminal sentinel", ActionEnd, false},
		{"unregistered action", Action("dance"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := PolicyFunc(func(context.Context, Summary) (Decision, error) {
				return Decision{Action: tt.action}, nil
			})
			sup := newTestSupervisor(&fakeSeeds{}, &fakeSearch{}, nil, policy)

			st, suspended := sup.Step(context.Background(), NewState("s1", "c1", "u1"))

			assert.False(t, suspended)
			assert.Equal(t, StatusCompleted, st.Status)
			assert.Equal(t, ActionFinalizeSelection, st.LastAction)
			assert.Equal(t, 1, st.IterationCount)
			if tt.wantError {
				assert.Contains(t, st.Error, ErrPolicyFailure.Error())
			} else {
				assert.Empty(t, st.Error)
			}
		})
	}
}

func TestSupervisor_PolicyPanic(t *testing.T) {
	policy := PolicyFunc(func(context.Context, Summary) (Decision, error) {
		panic("boom")
	})
	sup := newTestSupervisor(&fakeSeeds{}, &fakeSearch{}, nil, policy)

	st, _ := sup.Step(context.Background(), NewState("s1", "c1", "u1"))

	assert.Equal(t, StatusCompleted, st.Status)
	assert.Contains(t, st.Error, "policy panic: boom")
}

func TestSupervisor_LoopGuard(t *testing.T) {
	policy := PolicyFunc(func(context.Context, Summary) (Decision, error) {
		return Decision{Action: ActionRetrieveCandidates}, nil
	})
	sup := newTestSupervisor(&fakeSeeds{items: seedItems(5)}, &fakeSearch{pool: candidates(10, 10, 0.1)}, nil, policy)

	st := NewState("s1", "c1", "u1")
	st.SourceAnalyzed = true
	st.Direction = DirectionSurprise

	st, suspended := sup.Step(context.Background(), st)

	assert.False(t, suspended)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, 3, st.IterationCount)
	assert.Equal(t, []Action{ActionRetrieveCandidates, ActionRetrieveCandidates, ActionFinalizeSelection}, st.ActionHistory.Slice())
	assert.Contains(t, st.LastReasoning, ErrLoopDetected.Error())
}

func TestSupervisor_IterationCap(t *testing.T) {
	next := map[Action]Action{
		ActionRetrieveCandidates: ActionScoreCandidates,
		ActionScoreCandidates:    ActionRetrieveCandidates,
	}
	policy := PolicyFunc(func(_ context.Context, s Summary) (Decision, error) {
		if len(s.History) == 0 {
			return Decision{Action: ActionRetrieveCandidates}, nil
		}
		return Decision{Action: next[s.History[len(s.History)-1]]}, nil
	})
	sup := newTestSupervisor(&fakeSeeds{items: seedItems(5)}, &fakeSearch{pool: candidates(10, 10, 0.1)}, nil, policy)

	st := NewState("s1", "c1", "u1")
	st.SourceAnalyzed = true
	st.Direction = DirectionSimilar

	st, _ = sup.Step(context.Background(), st)

	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, MaxIterations, st.IterationCount)
	assert.Equal(t, ActionFinalizeSelection, st.LastAction)
	assert.Contains(t, st.LastReasoning, ErrIterationLimitExceeded.Error())
}

func TestSupervisor_InterruptBudget(t *testing.T) {
	policy := PolicyFunc(func(context.Context, Summary) (Decision, error) {
		return Decision{Action: ActionAnalyzeSource}, nil
	})
	sup := newTestSupervisor(&fakeSeeds{items: seedItems(5)}, &fakeSearch{}, nil, policy)

	st := NewState("s1", "c1", "u1")
	st.SourceAnalyzed = true
	st.Direction = DirectionSimilar

	st, suspended := sup.Step(context.Background(), st)

	assert.False(t, suspended)
	assert.Equal(t, StatusCompleted, st.Status)
	assert.Equal(t, 1, st.IterationCount)
	assert.Equal(t, ActionFinalizeSelection, st.LastAction)
}

type panickingTool struct{ name Action }

func (p panickingTool) Name() Action        { return p.name }
func (p panickingTool) Description() string { return "always panics" }
func (p panickingTool) Interrupting() bool  { return false }
func (p panickingTool) Invoke(context.Context, State, map[string]any) Patch {
	panic("tool exploded")
}

func TestSupervisor_ToolPanic(t *testing.T) {
	registry := NewRegistry(
		panickingTool{name: ActionRetrieveCandidates},
		&finalizeSelectionTool{logger: nopLogger()},
	)
	policy := PolicyFunc(func(context.Context, Summary) (Decision, error) {
		return Decision{Action: ActionRetrieveCandidates}, nil
	})
	sup := NewSupervisor(registry, policy, nil)

	st, _ := sup.Step(context.Background(), NewState("s1", "c1", "u1"))

	assert.Equal(t, StatusCompleted, st.Status)
	assert.Contains(t, st.Error, "tool retrieve_candidates failed: tool exploded")
	assert.Equal(t, 3, st.IterationCount)
}

func TestSupervisor_FinalizePanicStillCompletes(t *testing.T) {
	registry := NewRegistry(panickingTool{name: ActionFinalizeSelection})
	policy := PolicyFunc(func(context.Context, Summary) (Decision, error) {
		return Decision{Action: ActionFinalizeSelection}, nil
	})
	sup := NewSupervisor(registry, policy, nil)

	st, _ := sup.Step(context.Background(), NewState("s1", "c1", "u1"))

	assert.Equal(t, StatusCompleted, st.Status)
	assert.True(t, st.SelectionFinalized)
	assert.NotEmpty(t, st.Presentation.Message)
}

func TestSupervisor_FinishedSessionIsNoop(t *testing.T) {
	policy := &scriptedPolicy{}
	sup := newTestSupervisor(&fakeSeeds{}, &fakeSearch{}, nil, policy)
	st := NewState("s1", "c1", "u1")
	st.Status = StatusCompleted

	next, suspended := sup.Step(context.Background(), st)

	assert.False(t, suspended)
	assert.Equal(t, 0, next.IterationCount)
	assert.Zero(t, policy.calls)
}

func TestSupervisor_DeterministicReplay(t *testing.T) {
	run := func() State {
		sup := newTestSupervisor(&fakeSeeds{items: seedItems(10)}, &fakeSearch{pool: candidates(60, 30, 0.1)}, nil, NewRulePolicy())
		st, _ := drive(t, sup, NewState("s1", "c1", "u1"), answerWith(DirectionIntensify, "Artist 03"))
		return st
	}

	first, second := run(), run()

	assert.Equal(t, first.IterationCount, second.IterationCount)
	assert.Equal(t, first.ActionHistory.Slice(), second.ActionHistory.Slice())
	assert.Equal(t, first.Presentation, second.Presentation)
	assert.Equal(t, first.Candidates, second.Candidates)
}

func TestSupervisor_Properties(t *testing.T) {
	tests := []struct {
		name   string
		seed   int
		pool   []Candidate
		answer func(State) ResumeInput
	}{
		{"happy path", 10, candidates(60, 30, 0.1), answerWith(DirectionSimilar)},
		{"sparse catalog", 6, candidates(3, 3, 0.6), answerWith(DirectionSoften, KnownNone)},
		{"empty catalog", 6, nil, answerWith(DirectionSurprise)},
		{"everything known", 6, candidates(40, 5, 0.1), answerWith(DirectionIntensify, KnownAll)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sup := newTestSupervisor(&fakeSeeds{items: seedItems(tt.seed)}, &fakeSearch{pool: tt.pool}, nil, NewRulePolicy())

			st, suspensions := drive(t, sup, NewState("s1", "c1", "u1"), tt.answer)

			assert.True(t, st.Finished())
			assert.LessOrEqual(t, st.IterationCount, MaxIterations)
			assert.LessOrEqual(t, suspensions, 2)
			assert.LessOrEqual(t, len(st.Presentation.Cards), SelectionSize)
		})
	}
}
