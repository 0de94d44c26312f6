// Package errtax defines the error taxonomy shared across the orchestration
// runtime's components: NotFound, InvalidConfiguration, ExecutionFailed,
// ProtocolError, and InvalidParameters. Components wrap the sentinels below
// with a typed *Error carrying enough context for callers to decide whether
// a failure is safe to surface to an end user versus fed back into a loop.
package errtax

import (
	"errors"
	"fmt"
)

// Kind categorizes a taxonomy error.
type Kind string

const (
	NotFound             Kind = "not_found"
	InvalidConfiguration Kind = "invalid_configuration"
	ExecutionFailed      Kind = "execution_failed"
	ProtocolError        Kind = "protocol_error"
	InvalidParameters    Kind = "invalid_parameters"
)

var (
	// ErrNotFound is wrapped by any NotFound Error so callers can test with
	// errors.Is without caring about the wrapping component.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfiguration is wrapped by any InvalidConfiguration Error.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrExecutionFailed is wrapped by any ExecutionFailed Error.
	ErrExecutionFailed = errors.New("execution failed")

	// ErrProtocolError is wrapped by any ProtocolError Error.
	ErrProtocolError = errors.New("protocol error")

	// ErrInvalidParameters is wrapped by any InvalidParameters Error.
	ErrInvalidParameters = errors.New("invalid parameters")
)

var sentinels = map[Kind]error{
	NotFound:             ErrNotFound,
	InvalidConfiguration: ErrInvalidConfiguration,
	ExecutionFailed:      ErrExecutionFailed,
	ProtocolError:        ErrProtocolError,
	InvalidParameters:    ErrInvalidParameters,
}

// Error is a taxonomy-classified error carrying the component and subject
// (tool name, agent id, memory key, ...) that failed.
type Error struct {
	Kind    Kind
	Subject string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Subject, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	sentinel := sentinels[e.Kind]
	if e.Cause != nil {
		return []error{sentinel, e.Cause}
	}
	return []error{sentinel}
}

// New builds a taxonomy Error of the given kind.
func New(kind Kind, subject, message string) *Error {
	return &Error{Kind: kind, Subject: subject, Message: message}
}

// Wrap builds a taxonomy Error of the given kind around cause.
func Wrap(kind Kind, subject string, cause error) *Error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: kind, Subject: subject, Message: msg, Cause: cause}
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	sentinel, ok := sentinels[kind]
	return ok && errors.Is(err, sentinel)
}
