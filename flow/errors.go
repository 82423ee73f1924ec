package flow

import (
	"errors"
	"fmt"
)

// Kind classifies a stage failure.
type Kind int

const (
	// KindMiddleware marks a failure raised inside a non-terminal stage.
	KindMiddleware Kind = iota
	// KindHandler marks a business-logic failure inside the terminal handler.
	KindHandler
	// KindCancelled marks a dispatch cancelled before completion. It is a
	// terminal state rather than a true error.
	KindCancelled
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindMiddleware:
		return "middleware"
	case KindHandler:
		return "handler"
	case KindCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// StageError is a failure attributed to a named pipeline stage. It aborts the
// remainder of the chain immediately: no further inbound stages run and the
// skipped stages' outbound logic never executes.
type StageError struct {
	Stage string // name of the originating stage
	Kind  Kind
	Err   error // optional cause
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("stage %q: %s failure", e.Stage, e.Kind)
	}
	return fmt.Sprintf("stage %q: %s failure: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// MiddlewareError wraps err as a failure of the named middleware stage.
func MiddlewareError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindMiddleware, Err: err}
}

// HandlerError wraps err as a failure of the terminal handler stage.
func HandlerError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Kind: KindHandler, Err: err}
}

// ErrCancelled is the cause carried by cancelled dispatches.
var ErrCancelled = errors.New("dispatch cancelled")

// CancellationError marks a dispatch as cancelled before it committed to a
// response.
func CancellationError(stage string) *StageError {
	return &StageError{Stage: stage, Kind: KindCancelled, Err: ErrCancelled}
}

// ConfigurationError reports a bad pipeline or dispatcher configuration.
// It is detected eagerly at build time, never at dispatch time.
type ConfigurationError struct {
	Option string // offending option name, when known
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Option == "" {
		return "configuration error: " + e.Reason
	}
	return fmt.Sprintf("configuration error: option %q: %s", e.Option, e.Reason)
}

// IsConfiguration reports whether err is (or wraps) a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// KindOf extracts the stage-failure kind from err. Untagged errors are
// classified as middleware failures; the chain normally tags every error
// before it reaches the caller.
func KindOf(err error) Kind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindMiddleware
}

// StageOf returns the originating stage name recorded in err, or "" when the
// error carries no stage attribution.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
