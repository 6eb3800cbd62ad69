package followup

import (
	"fmt"
	"log/slog"

	pErrors "github.com/zhubert/followup/internal/errors"
	"github.com/zhubert/followup/internal/logger"
	"github.com/zhubert/followup/internal/selection"
)

// Request is the follow-up handed to whoever listens for it.
type Request struct {
	Text   string // Formatted prompt, e.g. `Follow up on: "..."`
	Source string // The selected text the prompt quotes
}

// FormatRequest builds the prompt text for a selection.
func FormatRequest(text string) string {
	return `Follow up on: "` + text + `"`
}

// Notifier delivers a Request without the control knowing the receiver.
type Notifier interface {
	Notify(Request) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Request) error

// Notify calls f.
func (f NotifierFunc) Notify(r Request) error { return f(r) }

// Target is the text-entry surface that should take focus after a follow-up.
type Target interface {
	Focus() error
	CursorEnd() error
}

// Control positions the floating follow-up control and runs its activation.
// It keeps no selection state of its own.
type Control struct {
	geometry Geometry
	notifier Notifier
	target   Target
	log      *slog.Logger
}

// ControlOption configures a Control.
type ControlOption func(*Control)

// WithGeometry overrides DefaultGeometry.
func WithGeometry(g Geometry) ControlOption {
	return func(c *Control) { c.geometry = g }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) ControlOption {
	return func(c *Control) { c.log = l }
}

// NewControl creates a Control. target may be nil when the host has no
// focusable input.
func NewControl(n Notifier, target Target, opts ...ControlOption) *Control {
	c := &Control{
		geometry: DefaultGeometry,
		notifier: n,
		target:   target,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.WithComponent("followup")
	}
	return c
}

// Geometry returns the footprint the control is placed with.
func (c *Control) Geometry() Geometry {
	return c.geometry
}

// Anchor returns where to draw the control for st, or false when st is not
// valid and nothing should be drawn.
func (c *Control) Anchor(st selection.State, viewW, viewH int) (Anchor, bool) {
	if !st.Valid || st.Rect == nil {
		return Anchor{}, false
	}
	return Place(*st.Rect, viewW, viewH, c.geometry), true
}

// Activate sends the follow-up for st, moves focus to the target with the
// cursor at the end, then calls done. Failures are logged and never
// returned; done runs whatever happens.
func (c *Control) Activate(st selection.State, done func()) {
	defer func() {
		if done != nil {
			done()
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("follow-up activation panicked", "panic", r)
		}
	}()

	if !st.Valid || st.Text == "" {
		c.log.Debug("activation ignored for invalid selection")
		return
	}

	if err := c.activate(st.Text); err != nil {
		c.log.Warn("follow-up activation incomplete", "error", err)
	}
}

func (c *Control) activate(text string) error {
	if c.notifier == nil {
		return pErrors.ActivationFailed("notify", fmt.Errorf("no notifier"))
	}
	req := Request{Text: FormatRequest(text), Source: text}
	if err := c.notifier.Notify(req); err != nil {
		return pErrors.ActivationFailed("notify", err)
	}
	c.log.Info("follow-up requested", "chars", len(text))

	if c.target == nil {
		return nil
	}
	if err := c.target.Focus(); err != nil {
		return pErrors.ActivationFailed("focus", err)
	}
	if err := c.target.CursorEnd(); err != nil {
		return pErrors.ActivationFailed("cursor", err)
	}
	return nil
}
