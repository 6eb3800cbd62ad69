// Package ui provides the user interface components for the followup TUI.
//
// # Layout System
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line)                                     │
//	├─────────────────────────────────────────────────────┤
//	│ Transcript panel                                    │
//	│                      ╭──────────────────╮           │
//	│   selected text ...  │ ↳ Follow up      │           │
//	│                      ╰──────────────────╯           │
//	├─────────────────────────────────────────────────────┤
//	│ Prompt input (3 lines)                              │
//	├─────────────────────────────────────────────────────┤
//	│ Footer (1 line)                                     │
//	└─────────────────────────────────────────────────────┘
//
// ViewContext holds the layout numbers; all size calculations go through it.
//
// # Transcript Document
//
// The transcript is rendered into display lines and a node tree over them
// (see Document). Messages are elements carrying the role attribute, blocks
// (paragraphs, list items, code) are elements under a message body, and each
// display line is a text node. A streaming message carries an indicator
// element with the streaming attribute, and the follow-up control is an
// element at the end of the tree. selection.Validator works on this tree
// exactly as it would on any other.
//
// # Text Selection Coordinate System
//
// Mouse events reach Chat in panel coordinates (0,0 = top-left of the chat
// panel border). Chat subtracts 1 from X and Y for the border, giving
// viewport cells. A viewport cell (x, y) maps to the content point
// (line = y + YOffset, col = x), clamped to the line's width. Selections
// are stored as content points so they survive scrolling; bounding rects
// handed to the tracker are converted back to viewport cells at read time.
//
// # Debouncing
//
// The selection tracker's timers run through teaScheduler, which turns each
// timer into a tea.Tick. Timer callbacks run inside Chat.Update on the
// Bubble Tea goroutine, so the tracker, the document and the view never
// race each other.
package ui
