package ui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/zhubert/followup/internal/selection"
)

// DebounceFireMsg is delivered when a scheduled selection check is due.
type DebounceFireMsg struct {
	id uint64
}

// teaScheduler runs selection timers on the Bubble Tea update loop. Each
// AfterFunc queues a tea.Tick; when its DebounceFireMsg comes back the
// callback runs inside Update, so tracker callbacks never race the view.
type teaScheduler struct {
	nextID  uint64
	pending map[uint64]func()
	queued  []tea.Cmd
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{pending: make(map[uint64]func())}
}

func (s *teaScheduler) AfterFunc(d time.Duration, f func()) selection.Timer {
	s.nextID++
	id := s.nextID
	s.pending[id] = f
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return DebounceFireMsg{id: id}
	}))
	return teaTimer{s: s, id: id}
}

// Fire runs the callback for id unless its timer was stopped.
func (s *teaScheduler) Fire(id uint64) bool {
	f, ok := s.pending[id]
	if !ok {
		return false
	}
	delete(s.pending, id)
	f()
	return true
}

// Cmds returns the ticks queued since the last call.
func (s *teaScheduler) Cmds() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// Pending returns the number of timers that have not fired or been stopped.
func (s *teaScheduler) Pending() int {
	return len(s.pending)
}

type teaTimer struct {
	s  *teaScheduler
	id uint64
}

func (t teaTimer) Stop() bool {
	if _, ok := t.s.pending[t.id]; !ok {
		return false
	}
	delete(t.s.pending, t.id)
	return true
}
