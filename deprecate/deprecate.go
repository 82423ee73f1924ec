// Package deprecate emits deprecation warnings for pipeline features. A
// [Registry] owns its own warned-set, so tests can instantiate fresh isolated
// instances instead of sharing process-global state.
package deprecate

import (
	"fmt"
	"log/slog"
	"sync"
)

// Mode selects when warnings are emitted. Runtime and BuildTime are mutually
// exclusive: a registry in one mode never emits through the other path.
type Mode int

const (
	// Runtime emits at most one warning per (feature, registry) pair, the
	// first time a dispatch traverses the deprecated stage.
	Runtime Mode = iota
	// BuildTime emits immediately while the pipeline is being built.
	BuildTime
	// Silent suppresses all warnings.
	Silent
)

// ParseMode parses the configuration spelling of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "runtime":
		return Runtime, nil
	case "build-time":
		return BuildTime, nil
	case "silent":
		return Silent, nil
	default:
		return 0, fmt.Errorf("unknown warn mode %q", s)
	}
}

// Registry tracks which features have already been warned about. It is safe
// for concurrent use by multiple in-flight dispatches: the check-then-set is
// a single atomic step, so a feature warned from 1000 concurrent dispatches
// still emits exactly once.
type Registry struct {
	mode   Mode
	emit   func(feature string)
	warned sync.Map // feature -> struct{}
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithEmitter replaces the default slog-based emitter. Intended for tests and
// for callers routing warnings into their own sink.
func WithEmitter(fn func(feature string)) RegistryOption {
	return func(r *Registry) { r.emit = fn }
}

// WithLogger emits warnings through the given structured logger.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.emit = func(feature string) {
			logger.Warn("deprecated feature in use", slog.String("feature", feature))
		}
	}
}

// NewRegistry creates a Registry in the given mode. Without options,
// warnings go to slog.Default.
func NewRegistry(mode Mode, opts ...RegistryOption) *Registry {
	r := &Registry{mode: mode}
	for _, o := range opts {
		o(r)
	}
	if r.emit == nil {
		r.emit = func(feature string) {
			slog.Warn("deprecated feature in use", slog.String("feature", feature))
		}
	}
	return r
}

// Mode returns the registry's warning mode.
func (r *Registry) Mode() Mode { return r.mode }

// Warn records a runtime use of feature. In Runtime mode the first caller
// for a given feature emits the warning; every later (or racing) caller is a
// no-op. In BuildTime and Silent modes Warn never emits.
func (r *Registry) Warn(feature string) {
	if r.mode != Runtime {
		return
	}
	if _, loaded := r.warned.LoadOrStore(feature, struct{}{}); loaded {
		return
	}
	r.emit(feature)
}

// WarnAtBuild emits the warning for feature immediately. It only fires in
// BuildTime mode; the pipeline builder calls it once per deprecated stage
// while composing.
func (r *Registry) WarnAtBuild(feature string) {
	if r.mode != BuildTime {
		return
	}
	if _, loaded := r.warned.LoadOrStore(feature, struct{}{}); loaded {
		return
	}
	r.emit(feature)
}

// Warned reports whether feature has already been warned about.
func (r *Registry) Warned(feature string) bool {
	_, ok := r.warned.Load(feature)
	return ok
}
