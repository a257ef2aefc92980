package curator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func history(actions ...Action) ActionHistory {
	var h ActionHistory
	for _, a := range actions {
		h = h.Push(a)
	}
	return h
}

func TestGuard(t *testing.T) {
	tests := []struct {
		name       string
		history    ActionHistory
		iterations int
		proposed   Action
		want       Action
		reason     error
	}{
		{
			name:       "fresh proposal passes",
			history:    history(ActionAnalyzeSource),
			iterations: 1,
			proposed:   ActionRetrieveCandidates,
			want:       ActionRetrieveCandidates,
		},
		{
			name:       "second repeat passes",
			history:    history(ActionScoreCandidates, ActionRetrieveCandidates),
			iterations: 4,
			proposed:   ActionRetrieveCandidates,
			want:       ActionRetrieveCandidates,
		},
		{
			name:       "third repeat is overridden",
			history:    history(ActionScoreCandidates, ActionRetrieveCandidates, ActionRetrieveCandidates),
			iterations: 5,
			proposed:   ActionRetrieveCandidates,
			want:       ActionFinalizeSelection,
			reason:     ErrLoopDetected,
		},
		{
			name:       "last allowed pass is forced terminal",
			history:    history(ActionRetrieveCandidates, ActionScoreCandidates, ActionRetrieveCandidates),
			iterations: MaxIterations - 1,
			proposed:   ActionScoreCandidates,
			want:       ActionFinalizeSelection,
			reason:     ErrIterationLimitExceeded,
		},
		{
			name:       "terminal action always passes",
			history:    history(ActionFinalizeSelection, ActionFinalizeSelection),
			iterations: MaxIterations - 1,
			proposed:   ActionFinalizeSelection,
			want:       ActionFinalizeSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Guard(tt.history, tt.iterations, tt.proposed)

			assert.Equal(t, tt.want, v.Action)
			assert.Equal(t, tt.reason != nil, v.Overridden)
			if tt.reason != nil {
				assert.ErrorIs(t, v.Reason, tt.reason)
			} else {
				assert.NoError(t, v.Reason)
			}
		})
	}
}
