package backend

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a backend failure at the adapter boundary so the
// pipeline never string-matches error text to decide fallback.
type ErrorKind int

const (
	ErrorUnknown ErrorKind = iota
	// ErrorFormat marks format, conversion, or tooling failures. These
	// are the only failures eligible for cross-backend fallback.
	ErrorFormat
	// ErrorAuth marks missing or rejected credentials.
	ErrorAuth
	// ErrorQuota marks rate-limit or quota exhaustion.
	ErrorQuota
	// ErrorTransient marks server-side failures worth reporting as-is.
	ErrorTransient
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorFormat:
		return "format"
	case ErrorAuth:
		return "auth"
	case ErrorQuota:
		return "quota"
	case ErrorTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error is a classified backend failure.
type Error struct {
	Kind    ErrorKind
	Backend string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s backend: %s error", e.Backend, e.Kind)
	}
	return fmt.Sprintf("%s backend: %s error: %v", e.Backend, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify extracts the ErrorKind from an adapter error chain.
func Classify(err error) ErrorKind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return ErrorUnknown
}

// ShouldFallback reports whether a chunk that failed with err should be
// retried once against the other backend family. Only format-class
// failures fall back; auth and quota failures surface as-is because the
// other backend cannot fix a credential or rate-limit problem.
func ShouldFallback(err error) bool {
	return Classify(err) == ErrorFormat
}
