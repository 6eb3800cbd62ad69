package app

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/followup/internal/config"
	"github.com/zhubert/followup/internal/keys"
	"github.com/zhubert/followup/internal/transcript"
)

// answerText is the first assistant answer in testTranscript. At 80x24 it
// renders on screen row 6 starting at column 1.
const answerText = "A goroutine is a lightweight thread."

const (
	answerRow = 6
	answerCol = 1
)

// testConfig creates a minimal config for testing.
func testConfig() *config.Config {
	return config.Default()
}

// testTranscript renders in the chat viewport as:
//
//	0  You:
//	1  What is a goroutine?
//	2
//	3  Assistant:
//	4  A goroutine is a lightweight thread.
func testTranscript() *transcript.Transcript {
	return &transcript.Transcript{
		Title: "test",
		Messages: []transcript.Message{
			{ID: "u1", Role: transcript.RoleUser, Content: "What is a goroutine?"},
			{ID: "a1", Role: transcript.RoleAssistant, Content: answerText},
		},
	}
}

// testModel creates a test Model showing testTranscript.
func testModel(opts Options) *Model {
	if opts.Transcript == nil {
		opts.Transcript = testTranscript()
	}
	return New(testConfig(), opts)
}

// testModelWithSize creates a test Model and sets its size.
func testModelWithSize(width, height int) *Model {
	m := testModel(Options{})
	m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return m
}

// keyPress creates a tea.KeyPressMsg for the given key string.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Tab:
		return tea.KeyPressMsg{Code: tea.KeyTab}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case keys.CtrlF:
		return tea.KeyPressMsg{Code: 'f', Mod: tea.ModCtrl}
	default:
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}

// sendKey sends a key press to the model and returns the command it produced.
func sendKey(m *Model, key string) tea.Cmd {
	_, cmd := m.Update(keyPress(key))
	return cmd
}

// typeText simulates typing a string by sending individual character key presses.
func typeText(m *Model, text string) {
	for _, ch := range text {
		sendKey(m, string(ch))
	}
}

// dragAnswer selects the whole first answer with the mouse and returns the
// commands the drag produced.
func dragAnswer(m *Model) tea.Cmd {
	end := answerCol + len(answerText)
	_, press := m.Update(tea.MouseClickMsg{X: answerCol, Y: answerRow, Button: tea.MouseLeft})
	_, move := m.Update(tea.MouseMotionMsg{X: end, Y: answerRow, Button: tea.MouseLeft})
	_, release := m.Update(tea.MouseReleaseMsg{X: end, Y: answerRow, Button: tea.MouseLeft})
	return tea.Batch(press, move, release)
}

// runCmd executes cmd, feeds every message it yields back into the model and
// returns those messages. Commands that take longer than a short wait are
// abandoned, so slow timers such as the flash tick never arrive.
func runCmd(m *Model, cmd tea.Cmd) []tea.Msg {
	msgs := collectMsgs(cmd)
	for _, msg := range msgs {
		m.Update(msg)
	}
	return msgs
}

func collectMsgs(cmd tea.Cmd) []tea.Msg {
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
				out = append(out, collectMsgs(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(300 * time.Millisecond):
		return nil
	}
}
