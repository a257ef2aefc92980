package curator

import "encoding/json"

// HistorySize is the number of recent actions kept for loop detection.
const HistorySize = 3

// ActionHistory is a fixed-capacity ring of the most recent actions.
// It is a value type: Push returns a new ring and leaves the receiver intact.
type ActionHistory struct {
	buf   [HistorySize]Action
	start int
	n     int
}

// Push appends an action, evicting the oldest when full.
func (h ActionHistory) Push(a Action) ActionHistory {
	if h.n < HistorySize {
		h.buf[(h.start+h.n)%HistorySize] = a
		h.n++
		return h
	}
	h.buf[h.start] = a
	h.start = (h.start + 1) % HistorySize
	return h
}

// Len returns the number of recorded actions.
func (h ActionHistory) Len() int {
	return h.n
}

// Slice returns the actions oldest first.
func (h ActionHistory) Slice() []Action {
	out := make([]Action, 0, h.n)
	for i := 0; i < h.n; i++ {
		out = append(out, h.buf[(h.start+i)%HistorySize])
	}
	return out
}

// Last returns the k most recent actions, oldest first.
func (h ActionHistory) Last(k int) []Action {
	all := h.Slice()
	if k >= len(all) {
		return all
	}
	return all[len(all)-k:]
}

func (h ActionHistory) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Slice())
}

func (h *ActionHistory) UnmarshalJSON(data []byte) error {
	var actions []Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return err
	}
	*h = ActionHistory{}
	for _, a := range actions {
		*h = h.Push(a)
	}
	return nil
}
