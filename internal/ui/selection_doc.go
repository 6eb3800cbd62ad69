package ui

import (
	"github.com/zhubert/followup/internal/selection"
)

// point is a position in content coordinates: a document line and a cell
// column on that line.
type point struct {
	line, col int
}

func (p point) before(q point) bool {
	return p.line < q.line || (p.line == q.line && p.col < q.col)
}

// selState is the chat's live text selection. anchor is where the drag
// started and head where it is now; either may come first.
type selState struct {
	anchor, head point
	set          bool
	dragging     bool
}

// bounds returns the selection endpoints in reading order.
func (s selState) bounds() (start, end point) {
	if s.head.before(s.anchor) {
		return s.head, s.anchor
	}
	return s.anchor, s.head
}

func (s selState) collapsed() bool {
	return s.anchor == s.head
}

// docEvents dispatches selectionchange and click notifications to
// subscribers in subscription order.
type docEvents struct {
	nextID int
	change []changeHandler
	click  []clickHandler
}

type changeHandler struct {
	id int
	fn func()
}

type clickHandler struct {
	id int
	fn func(selection.Node)
}

func (e *docEvents) onChange(fn func()) func() {
	e.nextID++
	id := e.nextID
	e.change = append(e.change, changeHandler{id: id, fn: fn})
	return func() {
		for i, h := range e.change {
			if h.id == id {
				e.change = append(e.change[:i:i], e.change[i+1:]...)
				return
			}
		}
	}
}

func (e *docEvents) onClick(fn func(selection.Node)) func() {
	e.nextID++
	id := e.nextID
	e.click = append(e.click, clickHandler{id: id, fn: fn})
	return func() {
		for i, h := range e.click {
			if h.id == id {
				e.click = append(e.click[:i:i], e.click[i+1:]...)
				return
			}
		}
	}
}

func (e *docEvents) fireChange() {
	handlers := append([]changeHandler(nil), e.change...)
	for _, h := range handlers {
		h.fn()
	}
}

func (e *docEvents) fireClick(target selection.Node) {
	handlers := append([]clickHandler(nil), e.click...)
	for _, h := range handlers {
		h.fn(target)
	}
}

// chatDocument exposes the chat's transcript view to a selection.Tracker.
type chatDocument struct {
	c *Chat
}

func (d chatDocument) OnSelectionChange(fn func()) func() {
	return d.c.events.onChange(fn)
}

func (d chatDocument) OnClick(fn func(selection.Node)) func() {
	return d.c.events.onClick(fn)
}

func (d chatDocument) Selection() selection.Selection {
	return liveSelection{c: d.c}
}

// liveSelection reads the chat's selection at call time.
type liveSelection struct {
	c *Chat
}

func (s liveSelection) Text() string {
	return s.c.selectedText()
}

func (s liveSelection) RangeCount() int {
	if s.c.sel.set {
		return 1
	}
	return 0
}

func (s liveSelection) RangeAt(i int) selection.Range {
	if i != 0 || !s.c.sel.set {
		return nil
	}
	start, end := s.c.sel.bounds()
	return liveRange{c: s.c, start: start, end: end}
}

func (s liveSelection) RemoveAllRanges() {
	s.c.sel = selState{}
}

// liveRange is the selection range; its bounding rect follows the
// viewport's scroll position.
type liveRange struct {
	c          *Chat
	start, end point
}

func (r liveRange) StartContainer() selection.Node { return r.c.doc.NodeAt(r.start.line) }
func (r liveRange) EndContainer() selection.Node   { return r.c.doc.NodeAt(r.end.line) }
func (r liveRange) StartOffset() int               { return r.start.col }
func (r liveRange) EndOffset() int                 { return r.end.col }

func (r liveRange) CommonAncestor() selection.Node {
	return selection.CommonAncestor(r.StartContainer(), r.EndContainer())
}

func (r liveRange) BoundingRect() selection.Rect {
	return r.c.selectionRect(r.start, r.end)
}

func (r liveRange) Clone() selection.Range {
	return selection.NewStaticRange(r.StartContainer(), r.start.col, r.EndContainer(), r.end.col, r.BoundingRect())
}

// selectionRect returns the box around the text between start and end in
// viewport coordinates. Lines after the first start at column 0, so a
// multi-line box spans from the left edge to the widest selected extent.
func (c *Chat) selectionRect(start, end point) selection.Rect {
	y0 := c.viewport.YOffset()
	top := start.line - y0
	bottom := end.line - y0 + 1

	if start.line == end.line {
		return selection.NewRect(top, start.col, bottom, end.col)
	}

	right := end.col
	for y := start.line; y < end.line; y++ {
		if w := c.doc.LineWidth(y); w > right {
			right = w
		}
	}
	return selection.NewRect(top, 0, bottom, right)
}

// selectedText returns the plain text under the selection.
func (c *Chat) selectedText() string {
	if !c.sel.set || c.sel.collapsed() {
		return ""
	}
	start, end := c.sel.bounds()
	return c.doc.Text(start, end)
}
