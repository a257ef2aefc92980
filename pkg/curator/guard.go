package curator

import "fmt"

// MaxIterations caps supervisor passes per session.
const MaxIterations = 10

// Verdict is the loop guard's ruling on a proposed action.
type Verdict struct {
	Action     Action
	Overridden bool
	Reason     error
}

// Guard rules on a proposal given the recent history and the passes already taken.
// It overrides to the terminal action when the proposal would repeat the same action a
// third time in a row, or when this pass is the last one the iteration cap allows.
func Guard(history ActionHistory, iterationCount int, proposed Action) Verdict {
	if proposed == ActionFinalizeSelection {
		return Verdict{Action: proposed}
	}

	if iterationCount+1 >= MaxIterations {
		return Verdict{
			Action:     ActionFinalizeSelection,
			Overridden: true,
			Reason:     fmt.Errorf("%w: %d passes taken", ErrIterationLimitExceeded, iterationCount),
		}
	}

	recent := history.Last(HistorySize - 1)
	if len(recent) == HistorySize-1 {
		repeated := true
		for _, a := range recent {
			if a != proposed {
				repeated = false
				break
			}
		}
		if repeated {
			return Verdict{
				Action:     ActionFinalizeSelection,
				Overridden: true,
				Reason:     fmt.Errorf("%w: %s proposed %d times in a row", ErrLoopDetected, proposed, HistorySize),
			}
		}
	}

	return Verdict{Action: proposed}
}
