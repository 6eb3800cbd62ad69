// Package scenarios contains built-in demo scenarios for followup.
package scenarios

import (
	"time"

	"github.com/zhubert/followup/internal/demo"
	"github.com/zhubert/followup/internal/keys"
)

// FollowUp walks through the main workflow on the demo conversation:
// - Dragging across part of a finished answer
// - Waiting for the control to appear next to the selection
// - Activating it with ctrl+f, which fills and focuses the prompt
// - Editing the prompt and sending it
var FollowUp = &demo.Scenario{
	Name:        "followup",
	Description: "Select part of an answer and ask a follow-up about it",
	Width:       100,
	Height:      30,
	Setup:       demo.DefaultSetup(),
	Steps: []demo.Step{
		demo.Wait(1 * time.Second),
		demo.Capture(),

		demo.Annotate("Drag across part of a finished answer"),
		demo.Select("only the sender should close it"),
		demo.Capture(),

		demo.Settle(),
		demo.Annotate("The control appears next to the selection"),
		demo.Capture(),

		demo.KeyWithDesc(keys.CtrlF, "Activate the follow-up"),
		demo.Settle(),
		demo.Annotate("The prompt is filled in and focused"),
		demo.Capture(),

		demo.Type(" Why only once?"),
		demo.Wait(300 * time.Millisecond),
		demo.Capture(),

		demo.KeyWithDesc(keys.Enter, "Send the follow-up"),
		demo.Wait(500 * time.Millisecond),
		demo.Capture(),
	},
}

// Streaming shows that an answer still being generated cannot be followed
// up on until it finishes.
var Streaming = &demo.Scenario{
	Name:        "streaming",
	Description: "Selections in a streaming answer wait until it completes",
	Width:       100,
	Height:      30,
	Setup:       demo.DefaultSetup(),
	Steps: []demo.Step{
		demo.Wait(900 * time.Millisecond),

		demo.Annotate("Answers that are still streaming are not eligible"),
		demo.Select("Set a deadline on the connection"),
		demo.Settle(),
		demo.Capture(),

		demo.Stream("."),
		demo.Wait(600 * time.Millisecond),

		demo.FinishStreaming(),
		demo.Settle(),
		demo.Annotate("Once the answer completes the same selection qualifies"),
		demo.Capture(),
	},
}

// All returns all available scenarios.
func All() []*demo.Scenario {
	return []*demo.Scenario{
		FollowUp,
		Streaming,
	}
}

// Get returns a copy of the named scenario, or nil if not found. Callers
// may change its size without touching the built-in.
func Get(name string) *demo.Scenario {
	for _, s := range All() {
		if s.Name == name {
			c := *s
			c.Steps = append([]demo.Step(nil), s.Steps...)
			return &c
		}
	}
	return nil
}
