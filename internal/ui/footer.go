package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// FlashType is the severity of a footer flash message.
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// DefaultFlashDuration is how long a flash stays up.
const DefaultFlashDuration = 3 * time.Second

// FlashMessage is a transient status line that replaces the key bindings.
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has been up for its full duration.
func (m *FlashMessage) IsExpired() bool {
	return time.Since(m.CreatedAt) >= m.Duration
}

// FlashTickMsg checks whether the flash should be dismissed.
type FlashTickMsg time.Time

// FlashTick returns a command that sends a FlashTickMsg after a second.
func FlashTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width        int
	bindings     []KeyBinding
	inputFocused bool // Whether the prompt input has focus
	hasSelection bool // Whether text is selected in the transcript
	hasFollowUp  bool // Whether the follow-up control is showing
	flashMessage *FlashMessage
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{
		bindings: []KeyBinding{
			{Key: "drag", Desc: "select"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "pgup/dn", Desc: "scroll"},
			{Key: "q", Desc: "quit"},
		},
	}
}

// SetContext updates the footer's context for conditional bindings
func (f *Footer) SetContext(inputFocused, hasSelection, hasFollowUp bool) {
	f.inputFocused = inputFocused
	f.hasSelection = hasSelection
	f.hasFollowUp = hasFollowUp
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetBindings allows custom keybindings
func (f *Footer) SetBindings(bindings []KeyBinding) {
	f.bindings = bindings
}

// SetFlash shows text for DefaultFlashDuration.
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

// SetFlashWithDuration shows text for d.
func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      flashType,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// ClearFlash removes the flash message.
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is set.
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired removes an expired flash and reports whether it did.
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

func (f *Footer) renderFlash() string {
	icon, fg := "ℹ", ColorPrimary
	switch f.flashMessage.Type {
	case FlashSuccess:
		icon, fg = "✓", ColorSuccess
	case FlashWarning:
		icon, fg = "⚠", ColorWarning
	case FlashError:
		icon, fg = "✕", ColorError
	}
	text := lipgloss.NewStyle().Foreground(fg).Render(icon + " " + f.flashMessage.Text)
	return FooterStyle.Width(f.width).Render(text)
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		return f.renderFlash()
	}

	bindings := f.bindings
	switch {
	case f.inputFocused:
		bindings = []KeyBinding{
			{Key: "enter", Desc: "send"},
			{Key: "esc", Desc: "back"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "pgup/dn", Desc: "scroll"},
		}
	case f.hasFollowUp:
		bindings = []KeyBinding{
			{Key: "ctrl+f", Desc: "follow up"},
			{Key: "y", Desc: "copy"},
			{Key: "esc", Desc: "clear"},
			{Key: "tab", Desc: "switch pane"},
		}
	case f.hasSelection:
		bindings = []KeyBinding{
			{Key: "y", Desc: "copy"},
			{Key: "esc", Desc: "clear"},
			{Key: "tab", Desc: "switch pane"},
			{Key: "q", Desc: "quit"},
		}
	}

	var parts []string
	for _, b := range bindings {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}

	content := strings.Join(parts, "  "+lipgloss.NewStyle().Foreground(ColorBorder).Render("|")+"  ")
	return FooterStyle.Width(f.width).Render(content)
}
