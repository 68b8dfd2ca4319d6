package domain

// DefaultHistoryWindow is the number of turns kept per room
const DefaultHistoryWindow = 20

// History is a bounded, oldest-evicted-first sequence of turns for one room
type History struct {
	turns  []Turn
	window int
}

// NewHistory creates an empty history with the given window size
func NewHistory(window int) *History {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	return &History{window: window}
}

// Append adds a turn, evicting the oldest when the window is full
func (h *History) Append(t Turn) {
	h.turns = append(h.turns, t)
	if len(h.turns) > h.window {
		// shift instead of reslicing so the backing array doesn't grow unbounded
		copy(h.turns, h.turns[1:])
		h.turns = h.turns[:h.window]
	}
}

// Turns returns a copy of the turns in order, oldest first
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of stored turns
func (h *History) Len() int {
	return len(h.turns)
}
