// Package selection decides whether a text selection in a chat transcript can
// become the source of a follow-up prompt.
//
// The package has no knowledge of the terminal. Hosts describe their rendered
// transcript as a tree of Node values, expose the live selection through a
// Document, and supply a Scheduler for the debounce timer:
//
//	doc (Document) ── selection change ──▶ Tracker ── debounce ──▶ Validator
//	               ── click ─────────────▶ Tracker ── outside? ──▶ Clear
//
// A selection is valid when its trimmed text has at least five characters,
// is not only whitespace and punctuation, and lies entirely within one
// assistant message that is not still streaming.
package selection
