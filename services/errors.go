package services

import (
	"errors"
	"fmt"
)

// ─── Validation ───────────────────────────────────────────────────────────────

// ErrValidation marks request problems detected before any backend call.
var ErrValidation = errors.New("validation error")

var (
	ErrMissingFields = fmt.Errorf("%w: missing required fields", ErrValidation)
	ErrInvalidDates  = fmt.Errorf("%w: invalid dates", ErrValidation)
)

// ─── Generation ───────────────────────────────────────────────────────────────

var (
	// ErrTimeout matches a GenerationError of kind KindTimeout.
	ErrTimeout = errors.New("AI service took too long to respond")
	// ErrUpstream matches every GenerationError that is not a timeout.
	ErrUpstream = errors.New("AI service failed")
	// ErrMissingCredential is returned by NewLLMClient when no API key is configured.
	ErrMissingCredential = errors.New("text-generation API key not configured")
)

// FailureKind tells callers which way a backend call failed.
type FailureKind int

const (
	KindTransport FailureKind = iota + 1
	KindStatus
	KindMalformed
	KindTimeout
	KindTooShort
)

func (k FailureKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindMalformed:
		return "malformed"
	case KindTimeout:
		return "timeout"
	case KindTooShort:
		return "too_short"
	default:
		return "unknown"
	}
}

// GenerationError is the failure half of a generation result.
type GenerationError struct {
	Kind FailureKind
	// StatusCode is the backend HTTP status for KindStatus, 0 otherwise.
	StatusCode int
	Err        error
}

func (e *GenerationError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return ErrTimeout.Error()
	case KindStatus:
		return fmt.Sprintf("text-generation API error (%d): %v", e.StatusCode, e.Err)
	case KindTooShort:
		return "generated content is too short or empty"
	default:
		return fmt.Sprintf("text-generation request failed: %v", e.Err)
	}
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is lets errors.Is classify by ErrTimeout / ErrUpstream without exposing Kind.
func (e *GenerationError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrUpstream:
		return e.Kind != KindTimeout
	}
	return false
}
