package curator

import (
	"context"
	"fmt"
)

// MaxRetrievalAttempts is the attempt after which an insufficient score stops triggering retries.
const MaxRetrievalAttempts = 3

// RulePolicy is the deterministic decision table. It is the baseline the LLM policy is
// prompted with and the policy used when no model is configured.
type RulePolicy struct{}

func NewRulePolicy() *RulePolicy {
	return &RulePolicy{}
}

func (p *RulePolicy) Decide(_ context.Context, s Summary) (Decision, error) {
	switch {
	case !s.SourceAnalyzed:
		return decide(ActionAnalyzeSource, "seed collection not analyzed yet"), nil
	case s.Exhausted:
		return decide(ActionFinalizeSelection, "seed collection cannot support retrieval"), nil
	case s.RetrievalAttempt == 0:
		return decide(ActionRetrieveCandidates, "direction chosen, no candidates yet"), nil
	case !s.Scored:
		return decide(ActionScoreCandidates, fmt.Sprintf("%d candidates from attempt %d not scored", s.CandidateCount, s.RetrievalAttempt)), nil
	}

	if !s.KnowledgeChecked {
		sufficient := s.Quality != nil && s.Quality.Sufficient
		switch {
		case !sufficient && s.RetrievalAttempt < MaxRetrievalAttempts:
			return decide(ActionRetrieveCandidates, fmt.Sprintf("quality insufficient on attempt %d, relaxing", s.RetrievalAttempt)), nil
		case sufficient:
			return decide(ActionProbeFamiliarity, "quality sufficient, ask which groups are familiar"), nil
		case s.CandidateCount > 0:
			return decide(ActionProbeFamiliarity, "retries exhausted, ask about the best candidates found"), nil
		default:
			return decide(ActionFinalizeSelection, "retries exhausted with no candidates"), nil
		}
	}

	switch {
	case s.UnknownCount >= SelectionSize:
		return decide(ActionFinalizeSelection, fmt.Sprintf("%d unknown-group candidates available", s.UnknownCount)), nil
	case s.AllKnown() && s.RetrievalAttempt == 1:
		return decide(ActionRetrieveCandidates, "every candidate group is known, search again excluding them"), nil
	default:
		return decide(ActionFinalizeSelection, "best available selection"), nil
	}
}

func decide(action Action, reasoning string) Decision {
	return Decision{Action: action, Reasoning: reasoning}
}
