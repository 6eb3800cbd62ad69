// Package errors provides structured error types for followup.
// Selection validation misses are never errors; these types cover the
// configuration, transcript, and activation boundaries.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindIO
	KindConfig
	KindTranscript
	KindActivation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindTranscript:
		return "transcript error"
	case KindActivation:
		return "activation error"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for followup.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}

// Transcript errors
func TranscriptLoadFailed(path string, err error) error {
	return E(Op("transcript.Load"), KindTranscript, fmt.Sprintf("failed to load transcript from %s", path), err)
}

func TranscriptInvalid(reason string) error {
	return E(Op("transcript.Validate"), KindInvalid, reason)
}

func TranscriptSaveFailed(path string, err error) error {
	return E(Op("transcript.Save"), KindIO, fmt.Sprintf("failed to save transcript to %s", path), err)
}

// Activation errors
func ActivationFailed(step string, err error) error {
	return E(Op("followup.Activate"), KindActivation, fmt.Sprintf("%s failed", step), err)
}

// NotFound reports a lookup that found nothing.
func NotFound(op, what string) error {
	return E(Op(op), KindNotFound, fmt.Sprintf("%s not found", what))
}
