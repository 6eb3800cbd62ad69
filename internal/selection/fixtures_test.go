package selection

import (
	"sort"
	"time"
)

// =============================================================================
// Synthetic tree
// =============================================================================

type fakeNode struct {
	name     string
	parent   *fakeNode
	children []*fakeNode
	attrs    map[string]string
	text     string
	isText   bool
}

func (n *fakeNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *fakeNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *fakeNode) IsText() bool { return n.isText }

func (n *fakeNode) Attr(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

func el(name string, attrs map[string]string, children ...*fakeNode) *fakeNode {
	n := &fakeNode{name: name, attrs: attrs}
	for _, c := range children {
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

func txt(s string) *fakeNode {
	return &fakeNode{name: "#text", text: s, isText: true}
}

// transcript is a small tree shaped like the rendered chat:
//
//	root
//	├── header (chrome)
//	├── user message
//	├── assistant message A (two paragraphs, one emphasis span)
//	├── assistant message B
//	├── assistant message C (streaming, indicator nested in a footer)
//	└── control
type transcript struct {
	root                   *fakeNode
	header                 *fakeNode
	userText               *fakeNode
	msgA, msgB, msgC       *fakeNode
	aFirst, aSecond, aEmph *fakeNode
	bText                  *fakeNode
	cText                  *fakeNode
	control                *fakeNode
	controlLabel           *fakeNode
}

func newTranscript() *transcript {
	tr := &transcript{}
	tr.header = txt("Transcript")
	tr.userText = txt("Explain goroutines please.")
	tr.aFirst = txt("Goroutines are lightweight threads.")
	tr.aEmph = txt("managed by the runtime")
	tr.aSecond = txt("They are cheap to start.")
	tr.bText = txt("Channels connect goroutines together.")
	tr.cText = txt("Select statements wait on several")
	tr.controlLabel = txt("Follow up")

	tr.msgA = el("message", map[string]string{"role": "assistant"},
		el("p", nil, tr.aFirst, el("em", nil, tr.aEmph)),
		el("p", nil, tr.aSecond),
	)
	tr.msgB = el("message", map[string]string{"role": "assistant"},
		el("p", nil, tr.bText),
	)
	tr.msgC = el("message", map[string]string{"role": "assistant"},
		el("p", nil, tr.cText),
		el("footer", nil, el("spinner", map[string]string{"data-streaming": ""})),
	)
	tr.control = el("button", map[string]string{"data-followup-control": ""}, tr.controlLabel)

	tr.root = el("root", nil,
		el("header", nil, tr.header),
		el("message", map[string]string{"role": "user"}, el("p", nil, tr.userText)),
		tr.msgA,
		tr.msgB,
		tr.msgC,
		tr.control,
	)
	return tr
}

func span(start, end Node) *StaticRange {
	return NewStaticRange(start, 0, end, 0, NewRect(2, 4, 3, 30))
}

// =============================================================================
// Fake document
// =============================================================================

type fakeSelection struct {
	text    string
	ranges  []Range
	removed int
}

func (s *fakeSelection) Text() string        { return s.text }
func (s *fakeSelection) RangeCount() int     { return len(s.ranges) }
func (s *fakeSelection) RangeAt(i int) Range { return s.ranges[i] }
func (s *fakeSelection) RemoveAllRanges() {
	s.removed++
	s.text = ""
	s.ranges = nil
}

type fakeDocument struct {
	sel       *fakeSelection
	reads     int
	nextID    int
	onChange  map[int]func()
	onClick   map[int]func(Node)
	panicRead bool
}

func newFakeDocument() *fakeDocument {
	return &fakeDocument{
		sel:      &fakeSelection{},
		onChange: make(map[int]func()),
		onClick:  make(map[int]func(Node)),
	}
}

func (d *fakeDocument) OnSelectionChange(fn func()) func() {
	d.nextID++
	id := d.nextID
	d.onChange[id] = fn
	return func() { delete(d.onChange, id) }
}

func (d *fakeDocument) OnClick(fn func(Node)) func() {
	d.nextID++
	id := d.nextID
	d.onClick[id] = fn
	return func() { delete(d.onClick, id) }
}

func (d *fakeDocument) Selection() Selection {
	d.reads++
	if d.panicRead {
		panic("selection detached")
	}
	return d.sel
}

// selectRange replaces the live selection and fires a selection change.
func (d *fakeDocument) selectRange(text string, r Range) {
	d.sel.text = text
	d.sel.ranges = nil
	if r != nil {
		d.sel.ranges = []Range{r}
	}
	d.fireSelectionChange()
}

func (d *fakeDocument) fireSelectionChange() {
	for _, fn := range d.onChange {
		fn()
	}
}

func (d *fakeDocument) click(target Node) {
	for _, fn := range d.onClick {
		fn(target)
	}
}

func (d *fakeDocument) subscribers() int {
	return len(d.onChange) + len(d.onClick)
}

// =============================================================================
// Manual scheduler
// =============================================================================

type manualTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type manualScheduler struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.seq++
	t := &manualTimer{at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward and fires every due, unstopped timer in order.
func (s *manualScheduler) Advance(d time.Duration) {
	s.now += d
	due := make([]*manualTimer, 0, len(s.timers))
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	for _, t := range due {
		if t.stopped {
			continue
		}
		t.fired = true
		t.f()
	}
}

func (s *manualScheduler) live() int {
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
