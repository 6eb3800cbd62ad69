// Package demo scripts the TUI for recordings and smoke tests. A Scenario
// drives a real app.Model with keys, mouse drags and transcript changes and
// captures rendered frames, without a terminal.
package demo

import (
	"fmt"
	"time"

	"github.com/zhubert/followup/internal/transcript"
)

// StepType represents the type of action in a demo step.
type StepType int

const (
	// StepWait pauses for a duration (for timing/pacing).
	StepWait StepType = iota
	// StepKey sends a single key press.
	StepKey
	// StepTypeText types a string character by character.
	StepTypeText
	// StepSelect drags the mouse across the first visible occurrence of Text.
	StepSelect
	// StepClick clicks a screen cell.
	StepClick
	// StepClickText clicks the first visible occurrence of Text.
	StepClickText
	// StepSettle delivers pending timers, such as the selection debounce.
	StepSettle
	// StepFinishStreaming marks every streaming message as complete.
	StepFinishStreaming
	// StepStream appends Text to the last message, as a streamed chunk.
	StepStream
	// StepCapture captures the current frame (for selective capture).
	StepCapture
	// StepAnnotate adds an annotation/caption to the current frame.
	StepAnnotate
)

// Step represents a single action in a demo scenario.
type Step struct {
	Type        StepType
	Description string // Human-readable description of what this step does

	// For StepKey
	Key string

	// For StepTypeText, StepSelect, StepClickText and StepStream
	Text string

	// For StepClick
	X, Y int

	// For StepWait
	Duration time.Duration

	// For StepAnnotate
	Annotation string
}

// Scenario defines a complete demo scenario.
type Scenario struct {
	Name        string
	Description string
	Width       int // Terminal width (default 100)
	Height      int // Terminal height (default 30)
	Setup       *ScenarioSetup
	Steps       []Step
}

// ScenarioSetup defines the initial state for a demo.
type ScenarioSetup struct {
	// Transcript shown at start. Scenarios get a copy, so it is never mutated.
	Transcript *transcript.Transcript

	// FocusInput starts with the prompt focused instead of the transcript.
	FocusInput bool
}

// DefaultSetup returns the built-in demo conversation.
func DefaultSetup() *ScenarioSetup {
	return &ScenarioSetup{
		Transcript: transcript.Demo(),
	}
}

// Validate checks that the scenario is valid.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "Name", Message: "scenario name is required"}
	}
	if s.Width <= 0 {
		s.Width = 100
	}
	if s.Height <= 0 {
		s.Height = 30
	}
	if s.Setup == nil {
		s.Setup = DefaultSetup()
	}
	if s.Setup.Transcript == nil {
		s.Setup.Transcript = transcript.Demo()
	}
	for i, step := range s.Steps {
		switch step.Type {
		case StepSelect, StepClickText, StepTypeText:
			if step.Text == "" {
				return &ValidationError{Field: "Steps", Message: fmt.Sprintf("step %d needs text", i)}
			}
		case StepKey:
			if step.Key == "" {
				return &ValidationError{Field: "Steps", Message: fmt.Sprintf("step %d needs a key", i)}
			}
		}
	}
	return nil
}

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + ": " + e.Message
}

// Step builder functions for fluent scenario construction

// Wait creates a wait step.
func Wait(d time.Duration) Step {
	return Step{
		Type:     StepWait,
		Duration: d,
	}
}

// Key creates a key press step.
func Key(key string) Step {
	return Step{
		Type: StepKey,
		Key:  key,
	}
}

// KeyWithDesc creates a key press step with a description.
func KeyWithDesc(key, description string) Step {
	return Step{
		Type:        StepKey,
		Key:         key,
		Description: description,
	}
}

// Type creates a text typing step.
func Type(text string) Step {
	return Step{
		Type: StepTypeText,
		Text: text,
	}
}

// Select creates a step that drags across text on screen.
func Select(text string) Step {
	return Step{
		Type: StepSelect,
		Text: text,
	}
}

// Click creates a click on a screen cell.
func Click(x, y int) Step {
	return Step{
		Type: StepClick,
		X:    x,
		Y:    y,
	}
}

// ClickText creates a click on text shown on screen.
func ClickText(text string) Step {
	return Step{
		Type: StepClickText,
		Text: text,
	}
}

// Settle creates a step that lets pending timers fire.
func Settle() Step {
	return Step{
		Type: StepSettle,
	}
}

// FinishStreaming creates a step that completes every streaming answer.
func FinishStreaming() Step {
	return Step{
		Type: StepFinishStreaming,
	}
}

// Stream creates a step that appends a chunk to the last message.
func Stream(chunk string) Step {
	return Step{
		Type: StepStream,
		Text: chunk,
	}
}

// Annotate creates an annotation step.
func Annotate(text string) Step {
	return Step{
		Type:       StepAnnotate,
		Annotation: text,
	}
}

// Capture creates a frame capture step.
func Capture() Step {
	return Step{
		Type: StepCapture,
	}
}
