package selection

import "strings"

// State is the tracker's view of the current selection. The four fields are
// replaced together: Valid is true iff Text is non-empty and Range and Rect
// are both non-nil.
type State struct {
	Text  string
	Valid bool
	Range Range
	Rect  *Rect
}

// Empty returns the empty state.
func Empty() State {
	return State{}
}

// newValidState builds a valid state, collapsing to Empty if any part is missing.
func newValidState(text string, r Range, rect Rect) State {
	text = strings.TrimSpace(text)
	if text == "" || r == nil {
		return Empty()
	}
	return State{Text: text, Valid: true, Range: r, Rect: &rect}
}

// IsEmpty reports whether s carries no selection at all.
func (s State) IsEmpty() bool {
	return s.Text == "" && !s.Valid && s.Range == nil && s.Rect == nil
}

// copy returns s with its own Rect so readers cannot mutate tracker state.
func (s State) copy() State {
	if s.Rect != nil {
		rect := *s.Rect
		s.Rect = &rect
	}
	return s
}
