package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

const appTitle = " followup"

// Header represents the top header bar
type Header struct {
	width     int
	title     string
	streaming bool
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetTitle sets the transcript title shown on the right.
func (h *Header) SetTitle(title string) {
	h.title = title
}

// Title returns the transcript title.
func (h *Header) Title() string {
	return h.title
}

// SetStreaming marks the transcript as still generating.
func (h *Header) SetStreaming(streaming bool) {
	h.streaming = streaming
}

// View renders the header
func (h *Header) View() string {
	var rightText string
	if h.title != "" {
		rightText = h.title
		if h.streaming {
			rightText += " (live)"
		}
		rightText += " "
	}

	paddingLen := h.width - runewidth.StringWidth(appTitle) - runewidth.StringWidth(rightText)
	if paddingLen < 0 {
		paddingLen = 0
		// Keep the title readable on narrow terminals.
		rightText = runewidth.Truncate(rightText, max(h.width-runewidth.StringWidth(appTitle), 0), "…")
	}

	fullContent := appTitle + strings.Repeat(" ", paddingLen) + rightText
	return h.renderGradient(fullContent, len([]rune(appTitle))+paddingLen)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders the content with a theme-aware gradient background.
// Runes from mutedFrom on are drawn in the muted text color.
func (h *Header) renderGradient(content string, mutedFrom int) string {
	if len(content) == 0 {
		return ""
	}

	theme := CurrentTheme()
	startR, startG, startB := parseHexColor(theme.Primary)
	// End color: fade to the main background
	endR, endG, endB := parseHexColor(theme.Bg)

	textColor := lipgloss.Color(theme.Text)
	mutedColor := lipgloss.Color(theme.TextMuted)
	titleLen := len([]rune(appTitle))

	runes := []rune(content)
	width := len(runes)
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		bgColor := lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))

		style := lipgloss.NewStyle().
			Background(bgColor).
			Bold(i < titleLen)

		if i >= mutedFrom {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
