package curator

import "fmt"

// ResumeInput is the user's answer to a suspension. Exactly one field must be set,
// matching what the session awaits.
type ResumeInput struct {
	SelectedDirection *string  `json:"selected_direction,omitempty"`
	KnownGroupIDs     []string `json:"known_group_ids,omitempty"`
}

// Resume merges a user answer into a suspended session. On error the state is returned unchanged.
func Resume(st State, in ResumeInput) (State, error) {
	if st.Finished() {
		return st, fmt.Errorf("%w: session %s is %s", ErrSessionClosed, st.SessionID, st.Status)
	}

	switch st.Status {
	case StatusAwaitingDirection:
		if in.SelectedDirection == nil || in.KnownGroupIDs != nil {
			return st, fmt.Errorf("%w: expected selected_direction", ErrMalformedResumeInput)
		}
		if !ValidDirection(*in.SelectedDirection) {
			return st, fmt.Errorf("%w: unknown direction %q", ErrMalformedResumeInput, *in.SelectedDirection)
		}
		next := st
		next.Direction = *in.SelectedDirection
		next.Status = StatusActive
		next.Presentation = nil
		return next, nil

	case StatusAwaitingFamiliarity:
		if in.KnownGroupIDs == nil || in.SelectedDirection != nil {
			return st, fmt.Errorf("%w: expected known_group_ids", ErrMalformedResumeInput)
		}
		next := st.Apply(Patch{AddKnown: resolveKnown(in.KnownGroupIDs, st.ProbedGroups)})
		next.Status = StatusActive
		next.Presentation = nil
		return next, nil
	}

	return st, fmt.Errorf("%w: session %s is not awaiting input", ErrMalformedResumeInput, st.SessionID)
}

// resolveKnown expands the familiarity sentinels: "all" is every probed group,
// "none" contributes nothing, anything else is taken literally.
func resolveKnown(selection, probed []string) []string {
	for _, v := range selection {
		if v == KnownAll {
			return append([]string(nil), probed...)
		}
	}

	known := make([]string, 0, len(selection))
	for _, v := range selection {
		if v == KnownNone || v == "" {
			continue
		}
		known = append(known, v)
	}
	return known
}
