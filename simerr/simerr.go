// Package simerr provides the structured error taxonomy used across the
// simulator (spec §7). SimError preserves the messages of a causal chain
// while implementing the standard error interface, mirroring the teacher's
// toolerrors package. errors.As finds *SimError links across the
// action/agent/simulator boundary, and errors.Is matches the taxonomy
// sentinels attached by WithKind/WithKindCause.
package simerr

import (
	"errors"
	"fmt"
)

// SimError is a structured failure that can wrap an underlying error while
// keeping a stable, serializable Message for event-log rendering.
type SimError struct {
	Message string
	Cause   *SimError
}

// New constructs a SimError with the given message.
func New(message string) *SimError {
	if message == "" {
		message = "simulation error"
	}
	return &SimError{Message: message}
}

// Newf formats a message and returns it as a SimError.
func Newf(format string, args ...any) *SimError {
	return New(fmt.Sprintf(format, args...))
}

// Wrap constructs a SimError that wraps an underlying error, converting its
// chain into SimError links via FromError. A cause that is not itself a
// *SimError keeps only its message, so errors.Is against the original error
// value does not match after wrapping.
func Wrap(message string, cause error) *SimError {
	if message == "" && cause != nil {
		message = cause.Error()
	}
	return &SimError{Message: message, Cause: FromError(cause)}
}

// FromError converts an arbitrary error into a SimError chain.
func FromError(err error) *SimError {
	if err == nil {
		return nil
	}
	var se *SimError
	if errors.As(err, &se) {
		return se
	}
	return &SimError{Message: err.Error(), Cause: FromError(errors.Unwrap(err))}
}

func (e *SimError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Unwrap supports errors.Is/As against Cause; the taxonomy sentinels below
// are reached through WithKind/WithKindCause instead.
func (e *SimError) Unwrap() error {
	if e == nil || e.Cause == nil {
		return nil
	}
	return e.Cause
}

// Taxonomy sentinels (spec §7). Callers construct a SimError via WithKind and
// can later errors.Is(err, ErrPreconditionFailed) etc. regardless of the
// human-readable message attached.
var (
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrActionFailed       = errors.New("action failed")
	ErrLLMTransport       = errors.New("llm transport error")
	ErrParse              = errors.New("llm response parse error")
	ErrSaveLoad           = errors.New("save/load error")
	ErrDataMissing        = errors.New("static data missing")
)

// kindError pairs a taxonomy sentinel with a human message while remaining a
// SimError for chain preservation, and supports errors.Is against the sentinel.
type kindError struct {
	*SimError
	kind error
}

func (k *kindError) Is(target error) bool { return errors.Is(k.kind, target) }
func (k *kindError) Unwrap() error        { return k.kind }

// WithKind tags a message with a taxonomy sentinel so errors.Is(err, kind)
// succeeds while Error() still reports the human message.
func WithKind(kind error, message string) error {
	return &kindError{SimError: New(message), kind: kind}
}

// WithKindCause tags a wrapped error with a taxonomy sentinel.
func WithKindCause(kind error, message string, cause error) error {
	return &kindError{SimError: Wrap(message, cause), kind: kind}
}
