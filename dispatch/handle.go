package dispatch

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	gf "github.com/Keksclan/goFlowSquirrel"
	"github.com/Keksclan/goFlowSquirrel/flow"
)

// State is the externally observable lifecycle state of one dispatch.
type State int32

const (
	// StateCreated: accepted into the queue, not yet picked up by a worker.
	StateCreated State = iota
	// StateRunning: the chain is executing. Control passing through nested
	// stages does not change the observable state.
	StateRunning
	// StateCompleted: the chain returned without error. Terminal.
	StateCompleted
	// StateFailed: a stage error aborted the chain. Terminal.
	StateFailed
	// StateCancelled: cancelled before the commit point. Terminal.
	StateCancelled
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Handle is the future-like view of one asynchronous dispatch. Completion and
// failure are each delivered at most once — exactly once for dispatches that
// reach a terminal outcome, and not at all when cancellation wins the race.
type Handle struct {
	id        uuid.UUID
	d         *Dispatcher
	pipe      *gf.Pipeline
	ev        flow.Event
	submitted time.Time

	state atomic.Int32
	done  chan struct{}
	res   Result

	onComplete func(Result)
	onFailure  func(error)
}

// HandleOption attaches per-dispatch callbacks at submission time.
type HandleOption func(*Handle)

// OnComplete registers fn to be called exactly once when the dispatch
// completes successfully.
func OnComplete(fn func(Result)) HandleOption {
	return func(h *Handle) { h.onComplete = fn }
}

// OnFailure registers fn to be called exactly once when the dispatch fails.
func OnFailure(fn func(error)) HandleOption {
	return func(h *Handle) { h.onFailure = fn }
}

func newHandle(d *Dispatcher, p *gf.Pipeline, ev flow.Event) *Handle {
	return &Handle{
		id:        uuid.New(),
		d:         d,
		pipe:      p,
		ev:        ev,
		submitted: time.Now(),
		done:      make(chan struct{}),
	}
}

// ID returns the unique identifier of this dispatch.
func (h *Handle) ID() uuid.UUID { return h.id }

// State returns the current lifecycle state.
func (h *Handle) State() State { return State(h.state.Load()) }

// Done returns a channel closed when the dispatch reaches a terminal state.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the dispatch reaches a terminal state and returns its
// Result. For a cancelled dispatch the Result carries the cancellation error.
func (h *Handle) Wait() Result {
	<-h.done
	return h.res
}

// Cancel attempts to cancel the dispatch. It reports true when the
// cancellation won: the dispatch moves to StateCancelled and the completion
// and failure callbacks it would otherwise have delivered are suppressed.
//
// A dispatch already past its commit point (the chain has returned) completes
// normally and Cancel is a no-op returning false.
func (h *Handle) Cancel() bool {
	won := h.state.CompareAndSwap(int32(StateCreated), int32(StateCancelled)) ||
		h.state.CompareAndSwap(int32(StateRunning), int32(StateCancelled))
	if !won {
		return false
	}

	h.res = Result{Err: flow.CancellationError("dispatch")}
	close(h.done)
	h.d.finish(h.res, time.Since(h.submitted))
	return true
}
