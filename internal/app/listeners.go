package app

import (
	tea "charm.land/bubbletea/v2"
)

// listenForTranscript creates a command that waits for the next reload from
// the watcher.
func (m *Model) listenForTranscript() tea.Cmd {
	ch := m.updates
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return transcriptWatchClosedMsg{}
		}
		return transcriptUpdatedMsg{update: u}
	}
}
