package ui

import (
	"testing"
	"time"

	"github.com/zhubert/followup/internal/selection"
)

func TestTeaScheduler_Fire(t *testing.T) {
	s := newTeaScheduler()
	calls := 0
	s.AfterFunc(time.Millisecond, func() { calls++ })

	var id uint64
	for _, msg := range collectMsgs(s.Cmds()) {
		if fire, ok := msg.(DebounceFireMsg); ok {
			id = fire.id
		}
	}
	if id == 0 {
		t.Fatal("queued tick should deliver a DebounceFireMsg")
	}
	if s.Cmds() != nil {
		t.Error("Cmds() should be empty after draining")
	}

	if !s.Fire(id) {
		t.Error("Fire should run a pending timer")
	}
	if s.Fire(id) {
		t.Error("Fire should run a timer only once")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTeaScheduler_Stop(t *testing.T) {
	s := newTeaScheduler()
	ran := false
	timer := s.AfterFunc(time.Millisecond, func() { ran = true })

	if !timer.Stop() {
		t.Error("Stop on a pending timer should return true")
	}
	if timer.Stop() {
		t.Error("second Stop should return false")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}

	s.Fire(1)
	if ran {
		t.Error("stopped timer should not run")
	}
}

func TestTeaScheduler_DrivesTracker(t *testing.T) {
	s := newTeaScheduler()
	c := NewChat(DefaultChatOptions())
	t.Cleanup(c.Close)
	c.SetSize(80, 24)
	c.SetTranscript(testTranscript())

	tr := selection.NewTracker(chatDocument{c: c}, selection.WithScheduler(s))
	tr.Start()
	t.Cleanup(tr.Stop)

	evaluations := 0
	tr.OnChange(func(selection.State) { evaluations++ })

	c.sel = selState{anchor: point{4, 0}, head: point{4, 36}, set: true}
	for i := 0; i < 5; i++ {
		c.events.fireChange()
	}
	if s.Pending() != 1 {
		t.Fatalf("burst should leave one timer, got %d", s.Pending())
	}

	for id := uint64(1); id <= 5; id++ {
		s.Fire(id)
	}
	if evaluations != 1 {
		t.Errorf("evaluations = %d, want 1", evaluations)
	}
	if !tr.Current().Valid {
		t.Error("tracker should report the valid selection")
	}
}
