package app

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/followup/internal/keys"
	"github.com/zhubert/followup/internal/notification"
	"github.com/zhubert/followup/internal/transcript"
	"github.com/zhubert/followup/internal/ui"
)

func TestNew(t *testing.T) {
	m := testModel(Options{})
	defer m.Close()

	if m.Chat() == nil {
		t.Fatal("expected chat to be created")
	}
	if !m.Chat().IsFocused() {
		t.Error("chat should be focused")
	}
	if m.Chat().InputFocused() {
		t.Error("transcript pane should have focus initially")
	}
	if got := len(m.Chat().Transcript().Messages); got != 2 {
		t.Errorf("expected 2 messages, got %d", got)
	}
}

func TestNew_NilTranscript(t *testing.T) {
	m := New(testConfig(), Options{})
	defer m.Close()

	if m.Chat().Transcript() == nil {
		t.Fatal("expected an empty transcript, got nil")
	}
}

func TestNew_UnknownThemeKeepsDefault(t *testing.T) {
	cfg := testConfig()
	cfg.Theme = "no-such-theme"
	before := ui.CurrentThemeName()

	m := New(cfg, Options{Transcript: testTranscript()})
	defer m.Close()

	if got := ui.CurrentThemeName(); got != before {
		t.Errorf("theme changed to %q for an unknown name", got)
	}
}

func TestView_Loading(t *testing.T) {
	m := testModel(Options{})
	defer m.Close()

	if got := m.RenderToString(); got != "Loading..." {
		t.Errorf("expected loading view before the first resize, got %q", got)
	}
}

func TestView_Layout(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	out := m.RenderToString()
	if !strings.Contains(out, "followup") {
		t.Error("header should show the app name")
	}
	if !strings.Contains(out, answerText) {
		t.Error("transcript should be visible")
	}

	v := m.View()
	if !v.AltScreen {
		t.Error("expected alt screen")
	}
	if v.MouseMode != tea.MouseModeCellMotion {
		t.Error("expected cell motion mouse mode")
	}
}

// =============================================================================
// Selection and follow-up
// =============================================================================

func TestFollowUp_EndToEnd(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	runCmd(m, dragAnswer(m))

	st := m.Chat().State()
	if !st.Valid {
		t.Fatalf("selection should be valid after the debounce, got %+v", st)
	}
	if st.Text != answerText {
		t.Errorf("Text = %q, want %q", st.Text, answerText)
	}
	if !m.Chat().HasFollowUp() {
		t.Fatal("follow-up control should be showing")
	}
	if !strings.Contains(m.RenderToString(), "Follow up") {
		t.Error("view should draw the control")
	}

	msgs := runCmd(m, sendKey(m, keys.CtrlF))

	var got *ui.FollowUpMsg
	for _, msg := range msgs {
		if f, ok := msg.(ui.FollowUpMsg); ok {
			got = &f
		}
	}
	if got == nil {
		t.Fatal("expected a FollowUpMsg")
	}
	want := `Follow up on: "` + answerText + `"`
	if got.Request.Text != want {
		t.Errorf("Request.Text = %q, want %q", got.Request.Text, want)
	}
	if got.Request.Source != answerText {
		t.Errorf("Request.Source = %q", got.Request.Source)
	}
	if v := m.Chat().GetInput(); v != want {
		t.Errorf("input = %q, want %q", v, want)
	}
	if !m.Chat().InputFocused() {
		t.Error("input should be focused after activation")
	}
	if m.Chat().HasFollowUp() || m.Chat().HasTextSelection() {
		t.Error("selection should be cleared after activation")
	}
	if !m.footer.HasFlash() {
		t.Error("expected a flash for the follow-up")
	}
}

func TestFollowUp_NoSelection(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	if cmd := sendKey(m, keys.CtrlF); cmd != nil {
		t.Error("ctrl+f without a valid selection should do nothing")
	}
	if m.Chat().GetInput() != "" {
		t.Error("input should stay empty")
	}
}

// =============================================================================
// Mouse routing
// =============================================================================

func TestRouteMouseEvent_HeaderIgnored(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	cmd := m.routeMouseEvent(tea.MouseClickMsg{X: 5, Y: 0, Button: tea.MouseLeft})
	if cmd != nil {
		t.Error("a click on the header should produce no command")
	}
	if m.Chat().HasTextSelection() {
		t.Error("a click on the header should not select")
	}
}

func TestRouteMouseEvent_FooterIgnored(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	m.Update(tea.MouseClickMsg{X: 5, Y: 23, Button: tea.MouseLeft})
	if m.Chat().InputFocused() {
		t.Error("a click on the footer should not reach the input")
	}
}

func TestRouteMouseEvent_InputClick(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	// The input is the last block of rows above the footer.
	m.Update(tea.MouseClickMsg{X: 5, Y: 24 - ui.FooterHeight - 2, Button: tea.MouseLeft})
	if !m.Chat().InputFocused() {
		t.Error("a click on the input should focus it")
	}
}

func TestRouteMouseEvent_ClickOutsideDismissesFollowUp(t *testing.T) {
	const width, height = 80, 24
	tests := []struct {
		name string
		x, y int
	}{
		{"header", 5, 0},
		{"footer", 5, height - ui.FooterHeight},
		{"input", 5, height - ui.FooterHeight - 2},
		{"panel top border", 5, ui.HeaderHeight},
		{"panel right border", width - 1, answerRow},
		{"user message", 5, answerRow - 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModelWithSize(width, height)
			defer m.Close()

			runCmd(m, dragAnswer(m))
			if !m.Chat().HasFollowUp() {
				t.Fatal("follow-up control should be showing before the click")
			}

			_, press := m.Update(tea.MouseClickMsg{X: tt.x, Y: tt.y, Button: tea.MouseLeft})
			_, release := m.Update(tea.MouseReleaseMsg{X: tt.x, Y: tt.y, Button: tea.MouseLeft})
			runCmd(m, tea.Batch(press, release))

			if m.Chat().HasFollowUp() {
				t.Error("control should be dismissed")
			}
			if m.Chat().State().Valid {
				t.Errorf("state should be empty, got %+v", m.Chat().State())
			}
			if m.Chat().HasTextSelection() {
				t.Error("selection should be collapsed")
			}
		})
	}
}

func TestRouteMouseEvent_WheelOutsideKeepsFollowUp(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	runCmd(m, dragAnswer(m))
	if !m.Chat().State().Valid {
		t.Fatal("selection should be valid")
	}

	// A wheel event over the header is dropped and must not dismiss anything.
	m.Update(tea.MouseWheelMsg{X: 5, Y: 0, Button: tea.MouseWheelDown})
	if !m.Chat().HasFollowUp() {
		t.Error("wheel outside the chat should not dismiss the control")
	}
}

// =============================================================================
// Keys
// =============================================================================

func TestHandleKeyPress_Quit(t *testing.T) {
	tests := []struct {
		name       string
		focusInput bool
		key        string
		quits      bool
	}{
		{"ctrl+c in transcript", false, keys.CtrlC, true},
		{"ctrl+c in input", true, keys.CtrlC, true},
		{"q in transcript", false, "q", true},
		{"q in input types", true, "q", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testModelWithSize(80, 24)
			defer m.Close()
			if tt.focusInput {
				m.Chat().FocusInput()
			}

			cmd := sendKey(m, tt.key)
			quit := false
			if cmd != nil {
				_, quit = cmd().(tea.QuitMsg)
			}
			if quit != tt.quits {
				t.Errorf("quit = %v, want %v", quit, tt.quits)
			}
		})
	}
}

func TestHandleKeyPress_TabTogglesFocus(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	sendKey(m, keys.Tab)
	if !m.Chat().InputFocused() {
		t.Fatal("tab should move focus to the input")
	}
	sendKey(m, keys.Tab)
	if m.Chat().InputFocused() {
		t.Error("tab should move focus back to the transcript")
	}
}

func TestHandleKeyPress_EscapeLeavesInput(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	m.Chat().FocusInput()
	sendKey(m, keys.Escape)
	if m.Chat().InputFocused() {
		t.Error("esc should return focus to the transcript")
	}
}

// =============================================================================
// Submit
// =============================================================================

func TestSubmit(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	m.Chat().FocusInput()
	typeText(m, "tell me more")
	sendKey(m, keys.Enter)

	tr := m.Chat().Transcript()
	if len(tr.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(tr.Messages))
	}
	last := tr.Messages[2]
	if last.Role != transcript.RoleUser || last.Content != "tell me more" {
		t.Errorf("unexpected last message: %+v", last)
	}
	if m.Chat().GetInput() != "" {
		t.Error("input should be cleared after submit")
	}
}

func TestSubmit_Empty(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	m.Chat().FocusInput()
	typeText(m, "   ")
	if cmd := m.submit(); cmd != nil {
		t.Error("blank input should not submit")
	}
	if len(m.Chat().Transcript().Messages) != 2 {
		t.Error("transcript should be unchanged")
	}
}

func TestSubmit_Persist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.json")
	if err := testTranscript().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	m := testModel(Options{Path: path, Persist: true})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	defer m.Close()

	m.Chat().SetInput("and channels?")
	m.submit()

	saved, err := transcript.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(saved.Messages) != 3 {
		t.Errorf("expected 3 saved messages, got %d", len(saved.Messages))
	}
	if m.footer.HasFlash() {
		t.Error("no flash expected on a successful save")
	}
}

func TestSubmit_PersistError(t *testing.T) {
	m := testModel(Options{Path: "/nonexistent/directory/chat.json", Persist: true})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	defer m.Close()

	m.Chat().SetInput("and channels?")
	if cmd := m.submit(); cmd == nil {
		t.Error("expected a command on a failed save")
	}
	if !m.footer.HasFlash() {
		t.Error("expected an error flash on a failed save")
	}
}

// =============================================================================
// Transcript reloads
// =============================================================================

func TestTranscriptUpdate(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	next := testTranscript()
	next.Title = "reloaded"
	next.Append(transcript.RoleAssistant, "A third message")
	m.Update(transcriptUpdatedMsg{update: transcript.Update{Transcript: next}})

	if got := len(m.Chat().Transcript().Messages); got != 3 {
		t.Errorf("expected 3 messages after reload, got %d", got)
	}
	if !strings.Contains(m.RenderToString(), "reloaded") {
		t.Error("header should show the new title")
	}
}

func TestTranscriptUpdate_Error(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	m.Update(transcriptUpdatedMsg{update: transcript.Update{Err: errors.New("bad json")}})

	if got := len(m.Chat().Transcript().Messages); got != 2 {
		t.Errorf("transcript should be kept on a failed reload, got %d messages", got)
	}
	if !m.footer.HasFlash() {
		t.Error("expected a warning flash")
	}
}

func TestTranscriptUpdate_NotifiesWhenAnswerFinishes(t *testing.T) {
	tests := []struct {
		name      string
		notify    bool
		streaming bool
		want      int
	}{
		{"finished with notify", true, false, 1},
		{"still streaming", true, true, 0},
		{"notify off", false, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			notification.SetNotifier(func(title, message string, icon any) error {
				calls++
				return nil
			})
			defer notification.ResetNotifier()

			start := testTranscript()
			start.Messages[1].Streaming = true
			m := testModel(Options{Transcript: start, Notify: tt.notify})
			m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
			defer m.Close()

			next := testTranscript()
			next.Messages[1].Streaming = tt.streaming
			_, cmd := m.Update(transcriptUpdatedMsg{update: transcript.Update{Transcript: next}})
			collectMsgs(cmd)

			if calls != tt.want {
				t.Errorf("notifications = %d, want %d", calls, tt.want)
			}
		})
	}
}

func TestTranscriptUpdate_NotifyFailureFlashes(t *testing.T) {
	notification.SetNotifier(func(title, message string, icon any) error {
		return errors.New("no notification daemon")
	})
	defer notification.ResetNotifier()

	start := testTranscript()
	start.Messages[1].Streaming = true
	m := testModel(Options{Transcript: start, Notify: true})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	defer m.Close()

	_, cmd := m.Update(transcriptUpdatedMsg{update: transcript.Update{Transcript: testTranscript()}})
	msgs := runCmd(m, cmd)

	var failed bool
	for _, msg := range msgs {
		if _, ok := msg.(notifyFailedMsg); ok {
			failed = true
		}
	}
	if !failed {
		t.Fatal("expected a notifyFailedMsg")
	}
	if !m.footer.HasFlash() {
		t.Error("a failed notification should flash a warning")
	}
}

func TestListenForTranscript(t *testing.T) {
	ch := make(chan transcript.Update, 1)
	m := testModel(Options{Updates: ch})
	defer m.Close()

	ch <- transcript.Update{Transcript: testTranscript()}
	msg := m.listenForTranscript()()
	if _, ok := msg.(transcriptUpdatedMsg); !ok {
		t.Fatalf("expected transcriptUpdatedMsg, got %T", msg)
	}

	close(ch)
	msg = m.listenForTranscript()()
	if _, ok := msg.(transcriptWatchClosedMsg); !ok {
		t.Fatalf("expected transcriptWatchClosedMsg, got %T", msg)
	}

	m.Update(msg)
	if m.listenForTranscript() != nil {
		t.Error("no listener expected once the watch closed")
	}
}

func TestListenForTranscript_NoWatcher(t *testing.T) {
	m := testModel(Options{})
	defer m.Close()

	if m.listenForTranscript() != nil {
		t.Error("expected nil command without a watcher")
	}
}

// =============================================================================
// Flash
// =============================================================================

func TestShowFlash(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	if cmd := m.ShowFlashInfo("hello"); cmd == nil {
		t.Error("expected a tick command")
	}
	if !m.footer.HasFlash() {
		t.Fatal("expected flash to be set")
	}
	if !strings.Contains(m.RenderToString(), "hello") {
		t.Error("footer should show the flash text")
	}
}

func TestFlashTick_StopsWhenCleared(t *testing.T) {
	m := testModelWithSize(80, 24)
	defer m.Close()

	if _, cmd := m.Update(ui.FlashTickMsg(time.Now())); cmd != nil {
		t.Error("no tick expected without a flash")
	}

	m.ShowFlashWarning("careful")
	if _, cmd := m.Update(ui.FlashTickMsg(time.Now())); cmd == nil {
		t.Error("tick should continue while the flash is live")
	}
}
