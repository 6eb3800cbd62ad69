package ui

import (
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/rivo/uniseg"
	"github.com/zhubert/followup/internal/clipboard"
	"github.com/zhubert/followup/internal/logger"
)

// ClipboardErrorMsg is sent when clipboard operations fail
type ClipboardErrorMsg struct {
	Error error
}

// SelectionFlashTickMsg ends the copy flash.
type SelectionFlashTickMsg struct{}

// SelectionFlashTick returns a command that ends the copy flash after a
// short delay.
func SelectionFlashTick() tea.Cmd {
	return tea.Tick(150*time.Millisecond, func(time.Time) tea.Msg {
		return SelectionFlashTickMsg{}
	})
}

// handleMouseClick handles a left press in chat coordinates and detects
// double and triple clicks.
func (c *Chat) handleMouseClick(x, y int) tea.Cmd {
	if y >= c.panelHeight() {
		c.ClickOutside()
		return c.FocusInput()
	}

	// Subtract the panel border.
	vx, vy := x-1, y-1

	if cx, cy, cw, ch, ok := c.controlBounds(); ok &&
		vx >= cx && vx < cx+cw && vy >= cy && vy < cy+ch {
		c.events.fireClick(c.doc.Control())
		return c.ActivateFollowUp()
	}

	c.FocusTranscript()
	if vx < 0 || vy < 0 || vx >= c.viewport.Width() || vy >= c.viewport.Height() {
		c.ClickOutside()
		return nil
	}

	now := time.Now()
	if now.Sub(c.lastClickTime) <= multiClickThreshold*time.Millisecond &&
		abs(vx-c.lastClickX) <= clickTolerance &&
		abs(vy-c.lastClickY) <= clickTolerance {
		c.clickCount++
	} else {
		c.clickCount = 1
	}
	c.lastClickTime = now
	c.lastClickX = vx
	c.lastClickY = vy

	p := c.pointAt(vx, vy)
	switch c.clickCount {
	case 1:
		c.StartSelection(p)
	case 2:
		c.SelectWord(p)
	default:
		c.SelectParagraph(p)
		c.clickCount = 0
	}
	c.events.fireChange()
	return nil
}

// ClickOutside reports a press that landed outside the transcript text,
// such as the input, the panel border, the header or the footer. The
// tracker treats it like any click outside a message and drops the
// selection.
func (c *Chat) ClickOutside() {
	c.events.fireClick(nil)
}

// handleMouseMotion extends a drag. Dragging past the top or bottom edge
// scrolls the transcript.
func (c *Chat) handleMouseMotion(x, y int) {
	if !c.sel.dragging {
		return
	}
	vx, vy := x-1, y-1
	if vy < 0 {
		c.viewport.ScrollUp(1)
	} else if vy >= c.viewport.Height() {
		c.viewport.ScrollDown(1)
	}

	head := c.pointAt(vx, vy)
	if head != c.sel.head {
		c.sel.head = head
		c.events.fireChange()
	}
}

// handleMouseRelease ends a drag. A press and release on the same spot is a
// click on whatever lies under it.
func (c *Chat) handleMouseRelease(x, y int) {
	if !c.sel.dragging {
		return
	}
	c.sel.dragging = false

	vx, vy := x-1, y-1
	head := c.pointAt(vx, vy)
	if head != c.sel.head {
		c.sel.head = head
		c.events.fireChange()
	}
	if c.sel.collapsed() {
		c.events.fireClick(c.doc.NodeAt(vy + c.viewport.YOffset()))
	}
}

// pointAt converts a viewport cell to a content point, clamped to the
// rendered text.
func (c *Chat) pointAt(vx, vy int) point {
	n := c.doc.LineCount()
	if n == 0 {
		return point{}
	}
	vy = clamp(vy, 0, c.viewport.Height()-1)
	line := vy + c.viewport.YOffset()
	if line >= n {
		return point{line: n - 1, col: c.doc.LineWidth(n - 1)}
	}
	return point{line: line, col: clamp(vx, 0, c.doc.LineWidth(line))}
}

// abs returns the absolute value of an integer
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// StartSelection begins a drag selection at p.
func (c *Chat) StartSelection(p point) {
	c.sel = selState{anchor: p, head: p, set: true, dragging: true}
}

// SelectionClear clears the selection entirely
func (c *Chat) SelectionClear() {
	c.sel = selState{}
}

// HasTextSelection returns true if there is a non-empty selection
func (c *Chat) HasTextSelection() bool {
	return c.sel.set && !c.sel.collapsed()
}

// SelectWord selects the word under p using Unicode word boundaries.
func (c *Chat) SelectWord(p point) {
	line := c.doc.Plain(p.line)
	col := 0
	state := -1
	for rest := line; len(rest) > 0; {
		var word string
		word, rest, state = uniseg.FirstWordInString(rest, state)
		w := uniseg.StringWidth(word)
		if p.col >= col && p.col < col+w {
			c.sel = selState{anchor: point{p.line, col}, head: point{p.line, col + w}, set: true}
			return
		}
		col += w
	}
	// Past the end of the line: a caret, no word.
	c.sel = selState{anchor: p, head: p, set: true}
}

// SelectParagraph selects the block (paragraph, list item, code block)
// containing p.
func (c *Chat) SelectParagraph(p point) {
	first, last := c.doc.BlockSpan(p.line)
	c.sel = selState{
		anchor: point{line: first},
		head:   point{line: last, col: c.doc.LineWidth(last)},
		set:    true,
	}
}

// GetSelectedText returns the selected text with surrounding whitespace
// trimmed.
func (c *Chat) GetSelectedText() string {
	return strings.TrimSpace(c.selectedText())
}

// CopySelectedText copies the selected text to the clipboard and starts flash animation
func (c *Chat) CopySelectedText() tea.Cmd {
	if !c.HasTextSelection() {
		return nil
	}

	selectedText := c.GetSelectedText()
	if selectedText == "" {
		return nil
	}

	c.selectionFlashFrame = 0

	return tea.Batch(
		// OSC 52 escape sequence (works in modern terminals)
		tea.SetClipboard(selectedText),
		// Native clipboard fallback - returns error message if it fails
		func() tea.Msg {
			if err := clipboard.WriteText(selectedText); err != nil {
				logger.Warn("Failed to write to clipboard: %v", err)
				return ClipboardErrorMsg{Error: err}
			}
			return nil
		},
		SelectionFlashTick(),
	)
}

// decorate draws the selection highlight and the follow-up control over the
// rendered viewport using an ultraviolet screen buffer.
func (c *Chat) decorate(view string) string {
	hasSelection := c.HasTextSelection()
	cx, cy, cw, ch, showControl := c.controlBounds()
	if !hasSelection && !showControl {
		return view
	}

	width := c.viewport.Width()
	height := c.viewport.Height()
	if width <= 0 || height <= 0 {
		return view
	}

	area := uv.Rect(0, 0, width, height)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	uv.NewStyledString(view).Draw(scr, area)

	if hasSelection {
		c.highlightSelection(scr, width, height)
	}
	if showControl {
		box := FollowUpControlStyle.Width(cw).Height(ch).Render(controlLabel(cw - 2))
		uv.NewStyledString(box).Draw(scr, uv.Rect(cx, cy, cw, ch))
	}

	return scr.Render()
}

func (c *Chat) highlightSelection(scr uv.ScreenBuffer, width, height int) {
	var selBg, selFg color.Color
	if c.selectionFlashFrame == 0 {
		selBg = TextSelectionFlashStyle.GetBackground()
		selFg = TextSelectionFlashStyle.GetForeground()
	} else {
		selBg = TextSelectionStyle.GetBackground()
		selFg = TextSelectionStyle.GetForeground()
	}

	start, end := c.sel.bounds()
	yOffset := c.viewport.YOffset()

	for line := start.line; line <= end.line; line++ {
		y := line - yOffset
		if y < 0 || y >= height {
			continue
		}

		xStart, xEnd := 0, c.doc.LineWidth(line)
		if line == start.line {
			xStart = start.col
		}
		if line == end.line {
			xEnd = end.col
		}

		for x := xStart; x < xEnd && x < width; x++ {
			cell := scr.CellAt(x, y)
			if cell != nil {
				cell = cell.Clone()
				cell.Style.Bg = selBg
				cell.Style.Fg = selFg
				scr.SetCell(x, y, cell)
			}
		}
	}
}
