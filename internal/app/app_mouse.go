package app

import (
	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/followup/internal/ui"
)

// routeMouseEvent passes mouse events to the chat in panel coordinates.
// Presses outside the chat rows only dismiss the selection and wheel events
// there are dropped; motion and release always reach the chat so a drag can
// end anywhere.
func (m *Model) routeMouseEvent(msg tea.Msg) tea.Cmd {
	ctx := ui.GetViewContext()
	top := ctx.HeaderHeight
	inChat := func(y int) bool {
		return y >= top && y < top+ctx.ContentHeight
	}

	var adjusted tea.Msg
	switch mouseMsg := msg.(type) {
	case tea.MouseClickMsg:
		if !inChat(mouseMsg.Y) {
			if mouseMsg.Button == tea.MouseLeft {
				m.chat.ClickOutside()
			}
			return nil
		}
		mouseMsg.Y -= top
		adjusted = mouseMsg

	case tea.MouseWheelMsg:
		if !inChat(mouseMsg.Y) {
			return nil
		}
		mouseMsg.Y -= top
		adjusted = mouseMsg

	case tea.MouseMotionMsg:
		mouseMsg.Y -= top
		adjusted = mouseMsg

	case tea.MouseReleaseMsg:
		mouseMsg.Y -= top
		adjusted = mouseMsg

	default:
		return nil
	}

	chat, cmd := m.chat.Update(adjusted)
	m.chat = chat
	return cmd
}
