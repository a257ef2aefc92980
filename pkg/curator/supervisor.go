package curator

import (
	"context"
	"errors"
	"fmt"

	"gem-curator-be/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Supervisor runs the decision loop for one session at a time.
// It holds no per-session data and is safe to share across sessions.
type Supervisor struct {
	registry *Registry
	policy   Policy
	logger   logger.ILogger
	tracer   trace.Tracer
}

func NewSupervisor(registry *Registry, policy Policy, log logger.ILogger) *Supervisor {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Supervisor{
		registry: registry,
		policy:   policy,
		logger:   log,
		tracer:   otel.Tracer("gem-curator-be/pkg/curator"),
	}
}

// Step runs passes until a tool suspends the session or the session finishes.
// It reports suspended=true when the session awaits user input; a finished session
// returns false with st.Finished() true. Step never fails: every problem ends up in
// the returned state.
func (s *Supervisor) Step(ctx context.Context, st State) (State, bool) {
	for !st.Finished() {
		var suspended bool
		st, suspended = s.pass(ctx, st)
		if suspended {
			return st, true
		}
	}
	return st, false
}

func (s *Supervisor) pass(ctx context.Context, st State) (State, bool) {
	ctx, span := s.tracer.Start(ctx, "curator.pass")
	defer span.End()

	action, reasoning, params, policyErr := s.choose(ctx, st)

	st = st.record(action, reasoning, params)
	if policyErr != nil {
		st = st.Apply(Patch{Error: ptr(policyErr.Error())})
	}

	span.SetAttributes(
		attribute.String("curator.session_id", st.SessionID),
		attribute.String("curator.action", string(action)),
		attribute.Int("curator.iteration", st.IterationCount),
	)

	s.logger.Info("SUPERVISOR", "Action chosen", map[string]interface{}{
		"session_id": st.SessionID,
		"iteration":  st.IterationCount,
		"action":     action,
		"reasoning":  reasoning,
	})

	tool, _ := s.registry.Lookup(action)
	st = st.Apply(s.invoke(ctx, tool, st, params))

	if st.Finished() {
		return st, false
	}
	if tool.Interrupting() && st.Awaiting() {
		return st, true
	}
	return st, false
}

// choose asks the policy and applies validation, the loop guard and the interrupt budget.
// The returned action is always registered.
func (s *Supervisor) choose(ctx context.Context, st State) (Action, string, map[string]any, error) {
	decision, err := s.decide(ctx, st)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrPolicyFailure, err)
		s.logger.Error("SUPERVISOR", "Policy failed, forcing finalization", map[string]interface{}{
			"session_id": st.SessionID,
			"error":      err.Error(),
		})
		return ActionFinalizeSelection, err.Error(), nil, err
	}

	action := decision.Action
	if action == ActionEnd {
		action = ActionFinalizeSelection
	}
	if _, ok := s.registry.Lookup(action); !ok {
		err := fmt.Errorf("%w: unregistered action %q", ErrPolicyFailure, decision.Action)
		s.logger.Warn("SUPERVISOR", "Invalid action proposed", map[string]interface{}{
			"session_id": st.SessionID,
			"proposed":   decision.Action,
		})
		if _, ok := s.registry.Lookup(ActionFinalizeSelection); !ok {
			panic("curator: registry has no finalize_selection tool")
		}
		return ActionFinalizeSelection, err.Error(), nil, err
	}

	verdict := Guard(st.ActionHistory, st.IterationCount, action)
	if verdict.Overridden {
		s.logger.Warn("SUPERVISOR", "Loop guard override", map[string]interface{}{
			"session_id": st.SessionID,
			"proposed":   action,
			"reason":     verdict.Reason.Error(),
		})
		return verdict.Action, verdict.Reason.Error(), nil, nil
	}

	if s.alreadyAsked(action, st) {
		reason := fmt.Sprintf("%s already asked the listener, not interrupting again", action)
		s.logger.Warn("SUPERVISOR", "Interrupt budget exhausted", map[string]interface{}{
			"session_id": st.SessionID,
			"proposed":   action,
		})
		return ActionFinalizeSelection, reason, nil, nil
	}

	return action, decision.Reasoning, decision.Parameters, nil
}

// decide calls the policy, converting a panic into an error.
func (s *Supervisor) decide(ctx context.Context, st State) (d Decision, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("policy panic: %v", r)
		}
	}()
	if s.policy == nil {
		return Decision{}, errors.New("no policy configured")
	}
	return s.policy.Decide(ctx, Summarize(st))
}

// invoke runs a tool, converting a panic into a patch that still lets the loop end.
func (s *Supervisor) invoke(ctx context.Context, tool Tool, st State, params map[string]any) (p Patch) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("tool %s failed: %v", tool.Name(), r)
			s.logger.Error("SUPERVISOR", "Tool panicked", map[string]interface{}{
				"session_id": st.SessionID,
				"tool":       tool.Name(),
				"error":      msg,
			})
			p = Patch{Error: ptr(msg)}
			if tool.Name() == ActionFinalizeSelection {
				p.SelectionFinalized = ptr(true)
				p.Status = ptr(StatusCompleted)
				p.Presentation = &Presentation{
					Message: "Sorry, I encountered an error while preparing your recommendations. Please try again.",
				}
			}
		}
	}()
	return tool.Invoke(ctx, st, params)
}

func (s *Supervisor) alreadyAsked(action Action, st State) bool {
	switch action {
	case ActionAnalyzeSource:
		return st.SourceAnalyzed
	case ActionProbeFamiliarity:
		return st.KnowledgeChecked
	}
	return false
}
