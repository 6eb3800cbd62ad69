package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/followup/internal/keys"
	"github.com/zhubert/followup/internal/logger"
	"github.com/zhubert/followup/internal/notification"
	"github.com/zhubert/followup/internal/transcript"
	"github.com/zhubert/followup/internal/ui"
)

// Update handles messages. This is the core Bubble Tea update function that routes
// all messages to appropriate handlers.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg, tea.MouseWheelMsg:
		return m, m.routeMouseEvent(msg)

	case transcriptUpdatedMsg:
		cmds = append(cmds, m.handleTranscriptUpdate(msg.update), m.listenForTranscript())
		return m, tea.Batch(cmds...)

	case transcriptWatchClosedMsg:
		logger.Debug("App: transcript watch closed")
		m.updates = nil
		return m, nil

	case ui.FollowUpMsg:
		logger.Info("App: follow-up ready (%d chars)", len(msg.Request.Source))
		return m, m.ShowFlashInfo("Follow-up ready: edit and press enter to send")

	case notifyFailedMsg:
		logger.Warn("App: answer-ready notification failed: %v", msg.err)
		return m, m.ShowFlashWarning("Desktop notification failed")

	case ui.ClipboardErrorMsg:
		return m, m.ShowFlashError("Copy failed: " + msg.Error.Error())

	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() || !m.footer.HasFlash() {
			return m, nil
		}
		return m, ui.FlashTick()
	}

	// Debounce fires, spinner and flash ticks and anything else belong to the chat.
	chat, cmd := m.chat.Update(msg)
	m.chat = chat
	return m, cmd
}

// handleKeyPress handles global shortcuts and passes the rest to the chat.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch key {
	case keys.CtrlC:
		return m, m.quit()
	case keys.CtrlF:
		return m, m.chat.ActivateFollowUp()
	case keys.Tab:
		return m, m.chat.ToggleFocus()
	}

	if m.chat.InputFocused() {
		switch key {
		case keys.Enter:
			return m, m.submit()
		case keys.Escape:
			m.chat.FocusTranscript()
			return m, nil
		}
	} else if key == "q" {
		return m, m.quit()
	}

	chat, cmd := m.chat.Update(msg)
	m.chat = chat
	return m, cmd
}

// submit appends the prompt to the transcript as a user message and, when
// persisting, writes the transcript back to its file.
func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.chat.GetInput())
	if text == "" {
		return nil
	}

	tr := m.chat.Transcript()
	if tr == nil {
		tr = &transcript.Transcript{}
	}
	tr.Append(transcript.RoleUser, text)
	m.chat.ClearInput()
	cmds := []tea.Cmd{m.chat.SetTranscript(tr)}
	m.setTranscriptMeta(tr)
	logger.Info("App: prompt submitted (%d chars)", len(text))

	if m.persist && m.path != "" {
		if err := tr.Save(m.path); err != nil {
			logger.Error("App: failed to save transcript: %v", err)
			cmds = append(cmds, m.ShowFlashError("Could not save transcript"))
		}
	}
	return tea.Batch(cmds...)
}

// handleTranscriptUpdate applies a reload from the watcher.
func (m *Model) handleTranscriptUpdate(u transcript.Update) tea.Cmd {
	if u.Err != nil {
		logger.Warn("App: transcript reload failed: %v", u.Err)
		return m.ShowFlashWarning("Transcript reload failed")
	}
	wasStreaming := m.chat.IsStreaming()
	cmd := m.SetTranscript(u.Transcript)
	if m.notify && wasStreaming && !u.Transcript.Streaming() {
		cmd = tea.Batch(cmd, notifyAnswerReady(m.header.Title()))
	}
	return cmd
}

// notifyAnswerReady sends the desktop notification off the update loop. A
// failure comes back as notifyFailedMsg.
func notifyAnswerReady(name string) tea.Cmd {
	return func() tea.Msg {
		if err := notification.AnswerReady(name); err != nil {
			return notifyFailedMsg{err: err}
		}
		return nil
	}
}

func (m *Model) quit() tea.Cmd {
	m.Close()
	return tea.Quit
}
