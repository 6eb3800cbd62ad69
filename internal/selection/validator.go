package selection

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMinLength is the shortest trimmed selection, in characters, that
// can become a follow-up source.
const DefaultMinLength = 5

// punctuationOnlyPattern matches text made only of whitespace and Unicode punctuation.
var punctuationOnlyPattern = regexp.MustCompile(`^[\s\p{P}]+$`)

// Markers names the attributes the validator and tracker look for.
type Markers struct {
	RoleAttr      string `toml:"role_attr" json:"role_attr"`
	AssistantRole string `toml:"assistant_role" json:"assistant_role"`
	StreamingAttr string `toml:"streaming_attr" json:"streaming_attr"`
	ControlAttr   string `toml:"control_attr" json:"control_attr"`
}

// DefaultMarkers returns the attribute names the transcript renderer emits.
func DefaultMarkers() Markers {
	return Markers{
		RoleAttr:      "role",
		AssistantRole: "assistant",
		StreamingAttr: "data-streaming",
		ControlAttr:   "data-followup-control",
	}
}

// AssistantMessage matches assistant message containers.
func (m Markers) AssistantMessage() Matcher {
	return AttrEquals(m.RoleAttr, m.AssistantRole)
}

// Streaming matches nodes flagged as still being generated.
func (m Markers) Streaming() Matcher {
	return HasAttr(m.StreamingAttr)
}

// Control matches the floating follow-up control.
func (m Markers) Control() Matcher {
	return HasAttr(m.ControlAttr)
}

// Verdict is the outcome of checking a selection. Only Accepted is valid.
type Verdict int

const (
	Accepted Verdict = iota
	RejectedEmpty
	RejectedTooShort
	RejectedPunctuation
	RejectedOutsideMessage
	RejectedStreaming
	RejectedCrossMessage
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case RejectedEmpty:
		return "empty"
	case RejectedTooShort:
		return "too short"
	case RejectedPunctuation:
		return "punctuation only"
	case RejectedOutsideMessage:
		return "outside assistant message"
	case RejectedStreaming:
		return "message still streaming"
	case RejectedCrossMessage:
		return "spans messages"
	default:
		return "unknown"
	}
}

// Validator decides whether a raw selection qualifies as a follow-up target.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	markers   Markers
	minLength int
	locator   Locator
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithMinLength overrides DefaultMinLength.
func WithMinLength(n int) ValidatorOption {
	return func(v *Validator) { v.minLength = n }
}

// WithMarkers overrides DefaultMarkers.
func WithMarkers(m Markers) ValidatorOption {
	return func(v *Validator) { v.markers = m }
}

// WithLocator replaces the tree-walking Locator.
func WithLocator(l Locator) ValidatorOption {
	return func(v *Validator) { v.locator = l }
}

// NewValidator creates a Validator with defaults overridden by opts.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{
		markers:   DefaultMarkers(),
		minLength: DefaultMinLength,
		locator:   TreeLocator{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Markers returns the markers the validator matches against.
func (v *Validator) Markers() Markers {
	return v.markers
}

// Validate reports whether selectedText over r is a valid follow-up source.
func (v *Validator) Validate(selectedText string, r Endpoints) bool {
	return v.Check(selectedText, r) == Accepted
}

// Check applies the rules in order and returns the first failing one.
func (v *Validator) Check(selectedText string, r Endpoints) Verdict {
	if selectedText == "" || r == nil {
		return RejectedEmpty
	}

	trimmed := strings.TrimSpace(selectedText)
	if utf8.RuneCountInString(trimmed) < v.minLength {
		return RejectedTooShort
	}
	if punctuationOnlyPattern.MatchString(trimmed) {
		return RejectedPunctuation
	}

	message := v.MessageOf(r.CommonAncestor())
	if message == nil {
		return RejectedOutsideMessage
	}
	if v.locator.Contains(message, v.markers.Streaming()) {
		return RejectedStreaming
	}

	start := v.MessageOf(r.StartContainer())
	end := v.MessageOf(r.EndContainer())
	if start == nil || start != end || start != message {
		return RejectedCrossMessage
	}
	return Accepted
}

// MessageOf returns the assistant message enclosing n, or nil.
func (v *Validator) MessageOf(n Node) Node {
	el := ElementOf(n)
	if el == nil {
		return nil
	}
	return v.locator.Closest(el, v.markers.AssistantMessage())
}

// ControlOf returns the follow-up control enclosing n, or nil.
func (v *Validator) ControlOf(n Node) Node {
	el := ElementOf(n)
	if el == nil {
		return nil
	}
	return v.locator.Closest(el, v.markers.Control())
}
