package ui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/followup/internal/followup"
)

// FollowUpMsg announces that a follow-up prompt was placed in the input.
type FollowUpMsg struct {
	Request followup.Request
}

// SpinnerTickMsg advances the streaming indicator.
type SpinnerTickMsg time.Time

// SpinnerTick returns a command that sends a tick message after a delay
func SpinnerTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return SpinnerTickMsg(t)
	})
}
