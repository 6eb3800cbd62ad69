// Package app wires the header, chat and footer into the Bubble Tea program.
package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/followup/internal/config"
	"github.com/zhubert/followup/internal/logger"
	"github.com/zhubert/followup/internal/transcript"
	"github.com/zhubert/followup/internal/ui"
)

// Options describes what the app shows.
type Options struct {
	Transcript *transcript.Transcript
	Path       string                   // File the transcript came from, if any
	Persist    bool                     // Write submitted prompts back to Path
	Updates    <-chan transcript.Update // Reloads from a watcher, may be nil
	Notify     bool                     // Desktop notification when a reload finishes an answer
}

// Model is the main Bubble Tea model
type Model struct {
	config *config.Config
	header *ui.Header
	footer *ui.Footer
	chat   *ui.Chat

	width  int
	height int

	path    string
	persist bool
	notify  bool
	updates <-chan transcript.Update
}

// transcriptUpdatedMsg carries a reload from the watcher.
type transcriptUpdatedMsg struct {
	update transcript.Update
}

// transcriptWatchClosedMsg is sent once the watcher's channel closes.
type transcriptWatchClosedMsg struct{}

// notifyFailedMsg reports a desktop notification that could not be sent.
type notifyFailedMsg struct {
	err error
}

// New creates a new app model
func New(cfg *config.Config, opts Options) *Model {
	if cfg.Theme != "" && !ui.SetThemeByName(cfg.Theme) {
		logger.Warn("App: unknown theme %q, using %s", cfg.Theme, ui.CurrentThemeName())
	}

	tr := opts.Transcript
	if tr == nil {
		tr = &transcript.Transcript{}
	}

	m := &Model{
		config:  cfg,
		header:  ui.NewHeader(),
		footer:  ui.NewFooter(),
		chat:    ui.NewChat(ui.ChatOptionsFromConfig(cfg)),
		path:    opts.Path,
		persist: opts.Persist,
		notify:  opts.Notify,
		updates: opts.Updates,
	}
	m.chat.SetFocused(true)
	m.setTranscriptMeta(tr)
	m.chat.SetTranscript(tr)
	return m
}

// Init starts the spinner for streaming transcripts and the reload listener.
func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.chat.IsStreaming() {
		cmds = append(cmds, ui.SpinnerTick())
	}
	cmds = append(cmds, m.listenForTranscript())
	return tea.Batch(cmds...)
}

// Close stops selection tracking.
func (m *Model) Close() {
	m.chat.Close()
}

// Chat returns the chat panel.
func (m *Model) Chat() *ui.Chat {
	return m.chat
}

// SetTranscript replaces the transcript shown in the chat.
func (m *Model) SetTranscript(tr *transcript.Transcript) tea.Cmd {
	m.setTranscriptMeta(tr)
	return m.chat.SetTranscript(tr)
}

func (m *Model) setTranscriptMeta(tr *transcript.Transcript) {
	title := tr.Title
	if title == "" && m.path != "" {
		title = m.path
	}
	m.header.SetTitle(title)
	m.header.SetStreaming(tr.Streaming())
}
