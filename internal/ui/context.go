package ui

import (
	"sync"

	"github.com/zhubert/followup/internal/logger"
)

// ViewContext is the vertical layout of the screen: a one-line header, the
// chat area split into the transcript panel and the prompt input, and a
// one-line footer. Mouse routing and the chat read their row offsets here.
type ViewContext struct {
	TerminalWidth  int
	TerminalHeight int

	HeaderHeight     int
	FooterHeight     int
	ContentHeight    int // transcript panel plus input
	TranscriptHeight int // bordered transcript panel only

	mu sync.Mutex
}

var ctx *ViewContext
var ctxOnce sync.Once

// GetViewContext returns the shared layout.
func GetViewContext() *ViewContext {
	ctxOnce.Do(func() {
		ctx = &ViewContext{
			HeaderHeight: HeaderHeight,
			FooterHeight: FooterHeight,
		}
		logger.WithComponent("ui").Debug("ViewContext initialized")
	})
	return ctx
}

// Log writes a layout debug line under the ui component.
func (v *ViewContext) Log(msg string, args ...interface{}) {
	logger.WithComponent("ui").Debug(msg, args...)
}

// UpdateTerminalSize splits a width x height terminal into header, transcript
// panel, input and footer rows. Sizes below the minimum are raised to it so
// the transcript keeps at least one visible line.
func (v *ViewContext) UpdateTerminalSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}

	v.TerminalWidth = width
	v.TerminalHeight = height
	v.HeaderHeight = HeaderHeight
	v.FooterHeight = FooterHeight

	// The input keeps its fixed height; the transcript takes the rest.
	v.ContentHeight = height - v.HeaderHeight - v.FooterHeight
	v.TranscriptHeight = v.ContentHeight - InputTotalHeight

	logger.WithComponent("ui").Debug("Terminal size updated",
		"width", width,
		"height", height,
		"contentHeight", v.ContentHeight,
		"transcriptHeight", v.TranscriptHeight,
	)
}

// InnerWidth is the viewport width inside a bordered panel.
func (v *ViewContext) InnerWidth(panelWidth int) int {
	return panelWidth - BorderSize
}

// InnerHeight is the viewport height inside a bordered panel.
func (v *ViewContext) InnerHeight(panelHeight int) int {
	return panelHeight - BorderSize
}
