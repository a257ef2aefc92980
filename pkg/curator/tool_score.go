package curator

import (
	"context"

	"gem-curator-be/internal/pkg/logger"
)

const (
	coverageTarget       = 50.0
	varietyTarget        = 20.0
	sufficiencyThreshold = 0.6
)

// Assess scores a candidate list. Zero candidates score zero on every axis.
func Assess(candidates []Candidate, attempt int) Assessment {
	a := Assessment{Attempt: attempt, Recommendation: RecommendRetry}
	if len(candidates) == 0 {
		return a
	}

	var distanceSum float64
	groups := map[string]bool{}
	for _, c := range candidates {
		distanceSum += c.Distance
		groups[c.Group] = true
	}

	a.Coverage = minFloat(float64(len(candidates))/coverageTarget, 1)
	a.Fidelity = clampUnit(1 - distanceSum/float64(len(candidates)))
	a.Variety = minFloat(float64(len(groups))/varietyTarget, 1)
	a.Overall = (a.Coverage + a.Fidelity + a.Variety) / 3
	a.Sufficient = a.Overall > sufficiencyThreshold
	if a.Sufficient {
		a.Recommendation = RecommendProceed
	}
	return a
}

type scoreCandidatesTool struct {
	logger logger.ILogger
}

func (t *scoreCandidatesTool) Name() Action { return ActionScoreCandidates }

func (t *scoreCandidatesTool) Description() string {
	return "Assess coverage, fidelity and variety of the current candidates"
}

func (t *scoreCandidatesTool) Interrupting() bool { return false }

func (t *scoreCandidatesTool) Invoke(_ context.Context, st State, _ map[string]any) Patch {
	a := Assess(st.Candidates, st.RetrievalAttempt)

	t.logger.Info("TOOL", "Candidates scored", map[string]interface{}{
		"attempt":    a.Attempt,
		"overall":    a.Overall,
		"sufficient": a.Sufficient,
	})
	return Patch{Quality: &a}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
