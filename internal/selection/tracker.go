package selection

import (
	"log/slog"
	"sync"
	"time"

	"github.com/zhubert/followup/internal/logger"
)

// DefaultDebounce is the quiet period after the last selection change before
// the selection is read and validated.
const DefaultDebounce = 100 * time.Millisecond

// Selection is the document's live selection.
type Selection interface {
	Text() string
	RangeCount() int
	RangeAt(i int) Range
	RemoveAllRanges()
}

// Document is the event source and selection owner the tracker observes.
// Subscriptions return a function that removes the handler.
type Document interface {
	OnSelectionChange(fn func()) (unsubscribe func())
	OnClick(fn func(target Node)) (unsubscribe func())
	Selection() Selection
}

// Tracker owns the selection state for one view. It debounces selection
// changes, validates the live selection, and collapses it on outside clicks.
//
// All methods are safe for concurrent use; timer callbacks from a
// RealScheduler run on their own goroutine.
type Tracker struct {
	doc       Document
	validator *Validator
	sched     Scheduler
	delay     time.Duration
	log       *slog.Logger

	mu        sync.Mutex
	state     State
	timer     Timer
	gen       uint64 // bumped on every reschedule and on Stop; stale fires compare against it
	running   bool
	unsubs    []func()
	observers []func(State)
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(t *Tracker) { t.delay = d }
}

// WithScheduler replaces the RealScheduler.
func WithScheduler(s Scheduler) Option {
	return func(t *Tracker) { t.sched = s }
}

// WithValidator replaces the default Validator.
func WithValidator(v *Validator) Option {
	return func(t *Tracker) { t.validator = v }
}

// WithLogger replaces the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// NewTracker creates a stopped tracker over doc. Call Start to subscribe.
func NewTracker(doc Document, opts ...Option) *Tracker {
	t := &Tracker{
		doc:   doc,
		delay: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.validator == nil {
		t.validator = NewValidator()
	}
	if t.sched == nil {
		t.sched = RealScheduler{}
	}
	if t.log == nil {
		t.log = logger.WithComponent("selection")
	}
	return t
}

// Start subscribes to selection-change and click notifications. Calling
// Start on a running tracker does nothing.
func (t *Tracker) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.mu.Unlock()

	unsubs := []func(){
		t.doc.OnSelectionChange(t.handleSelectionChange),
		t.doc.OnClick(t.handleClick),
	}

	t.mu.Lock()
	if !t.running {
		// Stopped while subscribing.
		t.mu.Unlock()
		for _, unsub := range unsubs {
			if unsub != nil {
				unsub()
			}
		}
		return
	}
	t.unsubs = unsubs
	t.mu.Unlock()

	t.log.Debug("tracker started", "debounce", t.delay)
}

// Stop unsubscribes and cancels any pending debounce. Once Stop returns no
// further state update happens. Stop is idempotent.
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.gen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	unsubs := t.unsubs
	t.unsubs = nil
	t.mu.Unlock()

	for _, unsub := range unsubs {
		if unsub != nil {
			unsub()
		}
	}
	t.log.Debug("tracker stopped")
}

// Current returns the latest state.
func (t *Tracker) Current() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.copy()
}

// OnChange registers fn to be called after every state replacement. fn runs
// outside the tracker lock and may call Current.
func (t *Tracker) OnChange(fn func(State)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.observers = append(t.observers, fn)
}

// Clear collapses the live selection and resets the state to empty,
// whatever the current validity.
func (t *Tracker) Clear() {
	t.collapse()
	t.replace(Empty())
}

// Pending reports whether a debounced evaluation is scheduled.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

func (t *Tracker) collapse() {
	defer t.recoverHandler("collapse")
	if sel := t.doc.Selection(); sel != nil {
		sel.RemoveAllRanges()
	}
}

// handleSelectionChange cancels the pending evaluation and schedules a new one.
func (t *Tracker) handleSelectionChange() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.running {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = t.sched.AfterFunc(t.delay, func() { t.evaluate(gen) })
}

// evaluate runs once the debounce window closes uncancelled.
func (t *Tracker) evaluate(gen uint64) {
	t.mu.Lock()
	if !t.running || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	next := t.read()
	t.state = next
	observers := t.observers
	t.mu.Unlock()

	t.log.Debug("selection evaluated", "valid", next.Valid, "chars", len(next.Text))
	notify(observers, next)
}

// read inspects the live selection. Caller holds mu. Any panic from the
// document counts as a validation miss.
func (t *Tracker) read() (st State) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Warn("selection read failed", "panic", r)
			st = Empty()
		}
	}()

	sel := t.doc.Selection()
	if sel == nil {
		return Empty()
	}
	text := sel.Text()
	if text == "" || sel.RangeCount() == 0 {
		return Empty()
	}
	r := sel.RangeAt(0)
	if !t.validator.Validate(text, r) {
		return Empty()
	}
	return newValidState(text, r.Clone(), r.BoundingRect())
}

// handleClick collapses the selection when the click lands outside every
// assistant message and outside the control.
func (t *Tracker) handleClick(target Node) {
	defer t.recoverHandler("click")

	t.mu.Lock()
	running := t.running
	t.mu.Unlock()
	if !running {
		return
	}

	if t.validator.MessageOf(target) != nil || t.validator.ControlOf(target) != nil {
		return
	}
	t.Clear()
}

func (t *Tracker) replace(next State) {
	t.mu.Lock()
	t.state = next
	observers := t.observers
	t.mu.Unlock()

	notify(observers, next)
}

func notify(observers []func(State), st State) {
	for _, fn := range observers {
		fn(st.copy())
	}
}

func (t *Tracker) recoverHandler(where string) {
	if r := recover(); r != nil {
		t.log.Warn("selection handler recovered", "handler", where, "panic", r)
	}
}
