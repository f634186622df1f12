package providers

import (
	"errors"
	"fmt"
)

// Kind classifies failures of a provider call.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindValidation    Kind = "validation"
	KindProvider      Kind = "provider"
	KindNetwork       Kind = "network"
	KindTimeout       Kind = "timeout"
)

var (
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrValidation    = &Error{Kind: KindValidation}
	ErrProvider      = &Error{Kind: KindProvider}
	ErrNetwork       = &Error{Kind: KindNetwork}
	ErrTimeout       = &Error{Kind: KindTimeout}
)

// Error is returned by every PaymentProvider method. Message is safe to
// show to the caller.
type Error struct {
	Kind    Kind
	Message string

	// Set for KindProvider.
	StatusCode    int
	Code          string
	CorrelationID string

	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrTimeout) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func configurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

func validationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "request to provider failed", Cause: err}
}

func timeoutError(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "request to provider timed out", Cause: err}
}

// Message returns the caller-facing text of err.
func Message(err error) string {
	var pErr *Error
	if errors.As(err, &pErr) {
		if pErr.Kind == KindNetwork || pErr.Kind == KindTimeout {
			if pErr.Cause != nil {
				return fmt.Sprintf("%s: %v", pErr.Message, pErr.Cause)
			}
		}
		return pErr.Message
	}
	return err.Error()
}

// IsValidation reports whether err is a caller mistake rather than a failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
