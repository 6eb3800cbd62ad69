package demo

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/zhubert/followup/internal/app"
	"github.com/zhubert/followup/internal/config"
	"github.com/zhubert/followup/internal/keys"
	"github.com/zhubert/followup/internal/logger"
	"github.com/zhubert/followup/internal/transcript"
	"github.com/zhubert/followup/internal/ui"
)

// Frame represents a captured frame from the demo.
type Frame struct {
	Content    string        // ANSI-encoded terminal content
	Delay      time.Duration // Delay before this frame
	Annotation string        // Optional annotation/caption
	StepIndex  int           // Index of the step that produced this frame
}

// ExecutorConfig configures the demo executor.
type ExecutorConfig struct {
	// CaptureEveryStep captures a frame after every step (default: false)
	CaptureEveryStep bool

	// TypeDelay is the delay between characters when typing (default: 50ms)
	TypeDelay time.Duration

	// KeyDelay is the delay after key presses (default: 100ms)
	KeyDelay time.Duration

	// CmdTimeout bounds how long Settle waits on one command (default: 250ms).
	// Slower timers, such as the flash dismissal, are dropped.
	CmdTimeout time.Duration

	// Config is the app configuration (default: config.Default())
	Config *config.Config
}

// DefaultExecutorConfig returns the default executor configuration.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		CaptureEveryStep: false, // Don't capture every step by default for cleaner demos
		TypeDelay:        50 * time.Millisecond,
		KeyDelay:         100 * time.Millisecond,
		CmdTimeout:       250 * time.Millisecond,
	}
}

// Executor runs demo scenarios and captures frames.
type Executor struct {
	config  ExecutorConfig
	model   *app.Model
	tr      *transcript.Transcript
	pending []tea.Cmd
	frames  []Frame

	currentAnnotation string
}

// NewExecutor creates a new demo executor.
func NewExecutor(cfg ExecutorConfig) *Executor {
	if cfg.CmdTimeout <= 0 {
		cfg.CmdTimeout = DefaultExecutorConfig().CmdTimeout
	}
	if cfg.Config == nil {
		cfg.Config = config.Default()
	}
	return &Executor{
		config: cfg,
		frames: []Frame{},
	}
}

// Model returns the app being driven, or nil before Run.
func (e *Executor) Model() *app.Model {
	return e.model
}

// Cleanup stops the model's selection tracking.
func (e *Executor) Cleanup() {
	if e.model != nil {
		e.model.Close()
	}
}

// Run executes a scenario and returns the captured frames.
func (e *Executor) Run(scenario *Scenario) ([]Frame, error) {
	if err := scenario.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	e.setup(scenario)
	defer e.Cleanup()

	// Capture initial frame
	e.captureFrame(0, 500*time.Millisecond)

	for i, step := range scenario.Steps {
		if err := e.executeStep(i, step); err != nil {
			return nil, fmt.Errorf("step %d failed: %w", i, err)
		}
	}

	logger.Debug("Demo: scenario %q captured %d frames", scenario.Name, len(e.frames))
	return e.frames, nil
}

// setup initializes the model for the scenario.
func (e *Executor) setup(scenario *Scenario) {
	e.tr = scenario.Setup.Transcript.Clone()
	e.model = app.New(e.config.Config, app.Options{Transcript: e.tr.Clone()})
	e.update(tea.WindowSizeMsg{
		Width:  scenario.Width,
		Height: scenario.Height,
	})
	if scenario.Setup.FocusInput {
		e.keep(e.model.Chat().FocusInput())
	}
}

// executeStep executes a single demo step.
func (e *Executor) executeStep(index int, step Step) error {
	switch step.Type {
	case StepWait:
		// Animate the spinner while an answer is streaming
		if e.model.Chat().IsStreaming() && step.Duration >= 300*time.Millisecond {
			e.captureAnimatedFrames(index, step.Duration, 300*time.Millisecond)
		} else {
			e.captureFrame(index, step.Duration)
		}

	case StepKey:
		e.sendKey(step.Key)
		if e.config.CaptureEveryStep {
			e.captureFrame(index, e.config.KeyDelay)
		}

	case StepTypeText:
		for _, ch := range step.Text {
			e.sendKey(string(ch))
			if e.config.CaptureEveryStep {
				e.captureFrame(index, e.config.TypeDelay)
			}
		}

	case StepSelect:
		x, y, ok := e.findText(step.Text)
		if !ok {
			return fmt.Errorf("text %q is not on screen", step.Text)
		}
		end := x + runewidth.StringWidth(step.Text)
		e.update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
		e.update(tea.MouseMotionMsg{X: end, Y: y, Button: tea.MouseLeft})
		e.update(tea.MouseReleaseMsg{X: end, Y: y, Button: tea.MouseLeft})
		if e.config.CaptureEveryStep {
			e.captureFrame(index, e.config.KeyDelay)
		}

	case StepClick:
		e.click(step.X, step.Y)
		if e.config.CaptureEveryStep {
			e.captureFrame(index, e.config.KeyDelay)
		}

	case StepClickText:
		x, y, ok := e.findText(step.Text)
		if !ok {
			return fmt.Errorf("text %q is not on screen", step.Text)
		}
		e.click(x, y)
		if e.config.CaptureEveryStep {
			e.captureFrame(index, e.config.KeyDelay)
		}

	case StepSettle:
		e.settle()

	case StepFinishStreaming:
		for i := range e.tr.Messages {
			e.tr.Messages[i].Streaming = false
		}
		e.keep(e.model.SetTranscript(e.tr.Clone()))
		e.captureFrame(index, 200*time.Millisecond)

	case StepStream:
		if len(e.tr.Messages) == 0 {
			return fmt.Errorf("no message to stream into")
		}
		last := &e.tr.Messages[len(e.tr.Messages)-1]
		last.Content += step.Text
		e.keep(e.model.SetTranscript(e.tr.Clone()))
		if e.config.CaptureEveryStep {
			e.captureFrame(index, e.config.TypeDelay)
		}

	case StepAnnotate:
		e.currentAnnotation = step.Annotation
		// Don't capture, annotation applies to next frame

	case StepCapture:
		e.captureFrame(index, 0)
	}

	return nil
}

// update sends msg to the model and keeps any command it returns.
func (e *Executor) update(msg tea.Msg) {
	result, cmd := e.model.Update(msg)
	e.model = result.(*app.Model)
	e.keep(cmd)
}

func (e *Executor) keep(cmd tea.Cmd) {
	if cmd != nil {
		e.pending = append(e.pending, cmd)
	}
}

// settle runs the commands collected so far and feeds their messages back
// to the model. Commands they produce wait for the next settle.
func (e *Executor) settle() {
	cmds := e.pending
	e.pending = nil
	for _, cmd := range cmds {
		for _, msg := range runCmd(cmd, e.config.CmdTimeout) {
			if _, quit := msg.(tea.QuitMsg); quit {
				continue
			}
			e.update(msg)
		}
	}
}

// runCmd executes cmd, expanding batches, and returns the messages that
// arrive within timeout.
func runCmd(cmd tea.Cmd, timeout time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c, timeout)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(timeout):
		return nil
	}
}

func (e *Executor) click(x, y int) {
	e.update(tea.MouseClickMsg{X: x, Y: y, Button: tea.MouseLeft})
	e.update(tea.MouseReleaseMsg{X: x, Y: y, Button: tea.MouseLeft})
}

// findText returns the screen cell where text first appears.
func (e *Executor) findText(text string) (x, y int, ok bool) {
	screen := ansi.Strip(e.model.RenderToString())
	for row, line := range strings.Split(screen, "\n") {
		if idx := strings.Index(line, text); idx >= 0 {
			return runewidth.StringWidth(line[:idx]), row, true
		}
	}
	return 0, 0, false
}

// captureFrame captures the current view as a frame.
func (e *Executor) captureFrame(stepIndex int, delay time.Duration) {
	content := e.model.RenderToString()

	frame := Frame{
		Content:    content,
		Delay:      delay,
		Annotation: e.currentAnnotation,
		StepIndex:  stepIndex,
	}
	e.frames = append(e.frames, frame)

	// Clear annotation after use
	e.currentAnnotation = ""
}

// captureAnimatedFrames captures multiple frames with spinner animation.
// This is used for Wait steps when streaming is active to show animated spinners.
func (e *Executor) captureAnimatedFrames(stepIndex int, totalDuration time.Duration, frameInterval time.Duration) {
	if frameInterval <= 0 {
		frameInterval = 300 * time.Millisecond
	}

	numFrames := int(totalDuration / frameInterval)
	if numFrames < 1 {
		numFrames = 1
	}

	delayPerFrame := totalDuration / time.Duration(numFrames)

	for i := 0; i < numFrames; i++ {
		e.sendSpinnerTick()
		e.captureFrame(stepIndex, delayPerFrame)
	}
}

// sendSpinnerTick advances the streaming spinner. The follow-up tick the
// chat schedules is dropped; the executor drives the animation itself.
func (e *Executor) sendSpinnerTick() {
	result, _ := e.model.Update(ui.SpinnerTickMsg(time.Now()))
	e.model = result.(*app.Model)
}

// sendKey sends a key press to the model.
func (e *Executor) sendKey(key string) {
	e.update(keyPress(key))
}

// keyPress converts a key string to a tea.KeyPressMsg.
// Duplicated from testutil to avoid import cycle.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape, "escape":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.Home:
		return tea.KeyPressMsg{Code: tea.KeyHome}
	case keys.End:
		return tea.KeyPressMsg{Code: tea.KeyEnd}
	case keys.PgUp:
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case keys.PgDown:
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlF:
		return tea.KeyPressMsg{Code: 'f', Mod: tea.ModCtrl}
	case keys.CtrlU:
		return tea.KeyPressMsg{Code: 'u', Mod: tea.ModCtrl}
	case keys.CtrlD:
		return tea.KeyPressMsg{Code: 'd', Mod: tea.ModCtrl}
	case keys.ShiftTab:
		return tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	default:
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}
