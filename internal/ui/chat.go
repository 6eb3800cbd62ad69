package ui

import (
	"log/slog"
	"time"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"github.com/zhubert/followup/internal/config"
	"github.com/zhubert/followup/internal/followup"
	"github.com/zhubert/followup/internal/keys"
	"github.com/zhubert/followup/internal/logger"
	"github.com/zhubert/followup/internal/selection"
	"github.com/zhubert/followup/internal/transcript"
)

// spinnerFrames animate the indicator on streaming messages.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// chatFocus is which half of the chat panel receives keys.
type chatFocus int

const (
	focusTranscript chatFocus = iota
	focusInput
)

// ChatOptions configures selection tracking and the follow-up control.
type ChatOptions struct {
	Markers            selection.Markers
	MinSelectionLength int
	Debounce           time.Duration
	Geometry           followup.Geometry
}

// ChatOptionsFromConfig maps the loaded config onto chat options.
func ChatOptionsFromConfig(cfg *config.Config) ChatOptions {
	return ChatOptions{
		Markers:            cfg.Markers,
		MinSelectionLength: cfg.MinSelectionLength,
		Debounce:           cfg.Debounce(),
		Geometry:           cfg.Geometry(),
	}
}

// DefaultChatOptions returns the options for the built-in config.
func DefaultChatOptions() ChatOptions {
	return ChatOptionsFromConfig(config.Default())
}

// Chat is the transcript panel with the prompt input beneath it. It owns the
// text selection, the tracker that validates it and the follow-up control.
type Chat struct {
	viewport viewport.Model
	input    textarea.Model
	width    int
	height   int
	focused  bool
	focus    chatFocus

	transcript *transcript.Transcript
	markers    selection.Markers
	doc        *Document

	// Text selection
	sel                 selState
	lastClickTime       time.Time
	lastClickX          int
	lastClickY          int
	clickCount          int
	selectionFlashFrame int // -1 when no copy flash is showing

	spinnerFrame int
	spinning     bool

	events  docEvents
	sched   *teaScheduler
	tracker *selection.Tracker
	control *followup.Control
	state   selection.State

	// Commands produced by tracker and control callbacks during Update
	queued []tea.Cmd

	log *slog.Logger
}

// NewChat creates a chat panel. The tracker starts immediately; call Close
// when the panel is discarded.
func NewChat(opts ChatOptions) *Chat {
	ti := textarea.New()
	ti.Placeholder = "Ask a follow-up..."
	ti.CharLimit = 0
	ti.SetHeight(TextareaHeight)
	ti.ShowLineNumbers = false
	ti.Prompt = ""

	vp := viewport.New()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	c := &Chat{
		viewport:            vp,
		input:               ti,
		markers:             opts.Markers,
		selectionFlashFrame: -1,
		sched:               newTeaScheduler(),
		log:                 logger.WithComponent("chat"),
	}

	validator := selection.NewValidator(
		selection.WithMinLength(opts.MinSelectionLength),
		selection.WithMarkers(opts.Markers),
	)
	c.tracker = selection.NewTracker(chatDocument{c: c},
		selection.WithDebounce(opts.Debounce),
		selection.WithScheduler(c.sched),
		selection.WithValidator(validator),
	)
	c.tracker.OnChange(c.onSelectionState)
	c.control = followup.NewControl(
		followup.NotifierFunc(c.notifyFollowUp),
		inputTarget{c: c},
		followup.WithGeometry(opts.Geometry),
	)
	c.tracker.Start()

	c.rebuild()
	return c
}

// Close stops selection tracking.
func (c *Chat) Close() {
	c.tracker.Stop()
}

// SetSize sets the chat panel dimensions, input included. A resize moves
// every line, so the selection is dropped.
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height

	ctx := GetViewContext()

	viewportHeight := ctx.InnerHeight(c.panelHeight())
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	c.viewport.SetWidth(ctx.InnerWidth(width))
	c.viewport.SetHeight(viewportHeight)
	c.input.SetWidth(ctx.InnerWidth(width) - InputPaddingWidth)

	ctx.Log("Chat.SetSize", "outer", width, "panel", c.panelHeight(), "viewportW", c.viewport.Width(), "viewportH", c.viewport.Height())

	c.rebuild()
	if c.sel.set {
		c.tracker.Clear()
	}
}

// panelHeight is the height of the bordered transcript panel.
func (c *Chat) panelHeight() int {
	return c.height - InputTotalHeight
}

// SetFocused sets whether the chat receives keys at all.
func (c *Chat) SetFocused(focused bool) {
	c.focused = focused
	if focused && c.focus == focusInput {
		c.input.Focus()
	} else {
		c.input.Blur()
	}
}

// IsFocused returns the focus state
func (c *Chat) IsFocused() bool {
	return c.focused
}

// InputFocused reports whether keys go to the prompt input.
func (c *Chat) InputFocused() bool {
	return c.focused && c.focus == focusInput
}

// FocusInput moves keyboard focus to the prompt input.
func (c *Chat) FocusInput() tea.Cmd {
	c.focus = focusInput
	c.focused = true
	return c.input.Focus()
}

// FocusTranscript moves keyboard focus to the transcript.
func (c *Chat) FocusTranscript() {
	c.focus = focusTranscript
	c.input.Blur()
}

// ToggleFocus switches between transcript and input.
func (c *Chat) ToggleFocus() tea.Cmd {
	if c.focus == focusInput {
		c.FocusTranscript()
		return nil
	}
	return c.FocusInput()
}

// GetInput returns the current input text
func (c *Chat) GetInput() string {
	return c.input.Value()
}

// SetInput sets the input text
func (c *Chat) SetInput(value string) {
	c.input.SetValue(value)
}

// ClearInput clears the input text
func (c *Chat) ClearInput() {
	c.input.Reset()
}

// Transcript returns the displayed transcript.
func (c *Chat) Transcript() *transcript.Transcript {
	return c.transcript
}

// SetTranscript replaces the displayed transcript. An existing selection is
// kept, clamped to the new content, and re-evaluated.
func (c *Chat) SetTranscript(tr *transcript.Transcript) tea.Cmd {
	c.transcript = tr
	c.rebuild()
	if c.sel.set {
		c.sel.anchor = c.clampPoint(c.sel.anchor)
		c.sel.head = c.clampPoint(c.sel.head)
		c.events.fireChange()
	}

	var cmd tea.Cmd
	if tr != nil && tr.Streaming() && !c.spinning {
		c.spinning = true
		cmd = SpinnerTick()
	}
	return tea.Batch(cmd, c.drain())
}

// IsStreaming reports whether any displayed message is still generating.
func (c *Chat) IsStreaming() bool {
	return c.transcript != nil && c.transcript.Streaming()
}

// State returns the latest validated selection state.
func (c *Chat) State() selection.State {
	return c.state
}

// HasFollowUp reports whether the follow-up control is showing.
func (c *Chat) HasFollowUp() bool {
	_, _, _, _, ok := c.controlBounds()
	return ok
}

// rebuild re-renders the transcript into the viewport, staying pinned to
// the bottom if the view was already there.
func (c *Chat) rebuild() {
	width := c.viewport.Width()
	if width <= 0 {
		width = DefaultWrapWidth
	}
	atBottom := c.doc == nil || c.viewport.AtBottom()

	c.doc = BuildDocument(c.transcript, width, c.markers, spinnerFrames[c.spinnerFrame%len(spinnerFrames)])
	c.viewport.SetContentLines(c.doc.Lines())
	if atBottom {
		c.viewport.GotoBottom()
	}
}

func (c *Chat) clampPoint(p point) point {
	n := c.doc.LineCount()
	if n == 0 {
		return point{}
	}
	if p.line >= n {
		p.line = n - 1
		p.col = c.doc.LineWidth(p.line)
	}
	if w := c.doc.LineWidth(p.line); p.col > w {
		p.col = w
	}
	return p
}

// onSelectionState receives every tracker state replacement.
func (c *Chat) onSelectionState(st selection.State) {
	c.state = st
	if st.Valid {
		c.log.Debug("follow-up available", "chars", len(st.Text), "rect", *st.Rect)
	}
}

// notifyFollowUp is the control's notifier: the request becomes the prompt
// text and is announced to the rest of the app.
func (c *Chat) notifyFollowUp(r followup.Request) error {
	c.input.SetValue(r.Text)
	c.queued = append(c.queued, func() tea.Msg { return FollowUpMsg{Request: r} })
	return nil
}

// inputTarget is the control's focus target: the prompt input.
type inputTarget struct {
	c *Chat
}

func (t inputTarget) Focus() error {
	t.c.queued = append(t.c.queued, t.c.FocusInput())
	return nil
}

func (t inputTarget) CursorEnd() error {
	t.c.input.MoveToEnd()
	return nil
}

// ActivateFollowUp sends the current selection as a follow-up. It does
// nothing unless the control is showing. The selection is cleared either
// way once activation runs.
func (c *Chat) ActivateFollowUp() tea.Cmd {
	st := c.tracker.Current()
	if !st.Valid {
		return nil
	}
	c.control.Activate(st, c.tracker.Clear)
	return c.drain()
}

// drain collects the scheduler ticks and callback commands queued so far.
func (c *Chat) drain() tea.Cmd {
	cmds := append(c.queued, c.sched.Cmds())
	c.queued = nil
	return tea.Batch(cmds...)
}

// Update handles messages
func (c *Chat) Update(msg tea.Msg) (*Chat, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case DebounceFireMsg:
		c.sched.Fire(msg.id)

	case SpinnerTickMsg:
		if c.IsStreaming() {
			c.spinnerFrame++
			c.rebuild()
			cmds = append(cmds, SpinnerTick())
		} else {
			c.spinning = false
		}

	case SelectionFlashTickMsg:
		c.selectionFlashFrame = -1

	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft {
			cmds = append(cmds, c.handleMouseClick(msg.X, msg.Y))
		}

	case tea.MouseMotionMsg:
		c.handleMouseMotion(msg.X, msg.Y)

	case tea.MouseReleaseMsg:
		c.handleMouseRelease(msg.X, msg.Y)

	case tea.MouseWheelMsg:
		c.scroll(msg)

	case tea.KeyPressMsg:
		if c.focused {
			cmds = append(cmds, c.handleKey(msg))
		}

	default:
		if c.InputFocused() {
			var cmd tea.Cmd
			c.input, cmd = c.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, c.drain())
	return c, tea.Batch(cmds...)
}

func (c *Chat) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	// Scroll keys reach the viewport from either half.
	switch key {
	case keys.PgUp, keys.PgDown, keys.CtrlU, keys.CtrlD:
		c.scroll(msg)
		return nil
	}

	if c.focus == focusInput {
		var cmd tea.Cmd
		c.input, cmd = c.input.Update(msg)
		return cmd
	}

	switch key {
	case "y":
		return c.CopySelectedText()
	case keys.Escape:
		if c.sel.set {
			c.tracker.Clear()
		}
		return nil
	case keys.Up, keys.Down, keys.Home, keys.End, "k", "j":
		c.scroll(msg)
	}
	return nil
}

// scroll forwards msg to the viewport. Scrolling moves the selection on
// screen, so its rect is re-evaluated.
func (c *Chat) scroll(msg tea.Msg) {
	before := c.viewport.YOffset()
	c.viewport, _ = c.viewport.Update(msg)
	if c.viewport.YOffset() != before && c.sel.set {
		c.events.fireChange()
	}
}

// View renders the chat panel
func (c *Chat) View() string {
	panelStyle := PanelStyle
	if c.focused && c.focus == focusTranscript {
		panelStyle = PanelFocusedStyle
	}

	content := c.decorate(c.viewport.View())
	chatPanel := panelStyle.Width(c.width).Height(c.panelHeight()).Render(content)

	inputStyle := ChatInputStyle
	if c.InputFocused() {
		inputStyle = ChatInputFocusedStyle
	}
	inputArea := inputStyle.Width(c.width).Render(c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, chatPanel, inputArea)
}

// controlBounds returns where the follow-up control is drawn inside the
// viewport, or ok=false when it is hidden.
func (c *Chat) controlBounds() (x, y, w, h int, ok bool) {
	vw, vh := c.viewport.Width(), c.viewport.Height()
	a, ok := c.control.Anchor(c.state, vw, vh)
	if !ok || vw <= 0 || vh <= 0 {
		return 0, 0, 0, 0, false
	}
	g := c.control.Geometry()
	w, h = min(g.Width, vw), min(g.Height, vh)
	x = clamp(a.Origin(g.Width), 0, vw-w)
	y = clamp(a.Top, 0, vh-h)
	return x, y, w, h, true
}

// controlLabel is the text inside the control box for an inner width.
func controlLabel(inner int) string {
	const text, key = "↳ Follow up", "ctrl+f"
	if runewidth.StringWidth(text)+1+len(key) <= inner {
		return text + " " + FollowUpKeyStyle.Render(key)
	}
	return runewidth.Truncate(text, max(inner, 0), "…")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return max(lo, min(v, hi))
}
