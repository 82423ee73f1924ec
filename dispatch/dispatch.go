// Package dispatch executes pipelines against inbound events, synchronously
// or on a worker pool, with per-dispatch lifecycle tracking and cancellation.
//
// Each dispatch owns exactly one [flow.Context] for its lifetime and moves
// through the states Created → Running → {Completed, Failed, Cancelled};
// terminal states are final. The pipeline itself is immutable shared data, so
// any number of dispatches may run it concurrently.
//
// Backpressure: the asynchronous queue is bounded. When it is full, Submit
// fails immediately with [ErrQueueFull] instead of blocking or queueing
// without bound — callers decide whether to shed or retry.
package dispatch

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gf "github.com/Keksclan/goFlowSquirrel"
	"github.com/Keksclan/goFlowSquirrel/flow"
	"github.com/Keksclan/goFlowSquirrel/metrics"
)

// Result is the outcome of one dispatch: the completed Context on success,
// or the stage failure on error. Exactly one of the two is meaningful.
type Result struct {
	Ctx *flow.Context
	Err error
}

var (
	// ErrQueueFull is returned by Submit when the bounded queue is at
	// capacity.
	ErrQueueFull = errors.New("dispatch: queue full")

	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("dispatch: dispatcher closed")
)

// Dispatcher executes pipelines. The zero value is not usable; construct with
// [New]. A Dispatcher is safe for concurrent use.
type Dispatcher struct {
	workers int
	logger  *slog.Logger
	metrics *metrics.Collector

	// mu orders Submit's send against Close's close of the queue: senders
	// hold the read side, Close flips closed under the write side before
	// closing the channel, so no send can hit a closed queue.
	mu     sync.RWMutex
	closed bool
	queue  chan *Handle
	wg     sync.WaitGroup
}

// Option configures a Dispatcher.
type Option func(*settings)

type settings struct {
	workers    int
	queueDepth int
	logger     *slog.Logger
	collector  *metrics.Collector
	err        error
}

// WithWorkers sets the number of pool workers serving asynchronous
// dispatches. The count must be positive.
func WithWorkers(n int) Option {
	return func(s *settings) {
		if n <= 0 {
			s.err = &flow.ConfigurationError{Option: "worker-count", Reason: fmt.Sprintf("must be positive, got %d", n)}
			return
		}
		s.workers = n
	}
}

// WithQueueDepth sets the capacity of the bounded submission queue.
func WithQueueDepth(n int) Option {
	return func(s *settings) {
		if n <= 0 {
			s.err = &flow.ConfigurationError{Option: "queue-depth", Reason: fmt.Sprintf("must be positive, got %d", n)}
			return
		}
		s.queueDepth = n
	}
}

// WithLogger routes dispatch failures into the given structured logger.
// Without it the dispatcher is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithCollector records dispatch outcomes and durations into the collector.
func WithCollector(c *metrics.Collector) Option {
	return func(s *settings) { s.collector = c }
}

// New creates a Dispatcher and starts its worker pool. Defaults: 4 workers,
// queue depth 64. Configuration errors are reported eagerly, before any
// worker starts.
func New(opts ...Option) (*Dispatcher, error) {
	s := settings{workers: 4, queueDepth: 64}
	for _, o := range opts {
		o(&s)
	}
	if s.err != nil {
		return nil, s.err
	}

	d := &Dispatcher{
		workers: s.workers,
		logger:  s.logger,
		metrics: s.collector,
		queue:   make(chan *Handle, s.queueDepth),
	}

	d.wg.Add(d.workers)
	for range d.workers {
		go d.worker()
	}
	return d, nil
}

// Dispatch runs the pipeline synchronously against ev, blocking the caller
// until the chain completes. The returned Result carries either the finished
// Context or the stage failure.
func (d *Dispatcher) Dispatch(p *gf.Pipeline, ev flow.Event) Result {
	start := time.Now()
	res := run(p, ev)
	d.finish(res, time.Since(start))
	return res
}

// Submit schedules an asynchronous dispatch and immediately returns its
// Handle. It fails with ErrQueueFull when the bounded queue is at capacity
// and ErrClosed after Close. Completion or failure is delivered through the
// handle (and its callbacks) exactly once.
func (d *Dispatcher) Submit(p *gf.Pipeline, ev flow.Event, opts ...HandleOption) (*Handle, error) {
	h := newHandle(d, p, ev)
	for _, o := range opts {
		o(h)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, ErrClosed
	}

	select {
	case d.queue <- h:
		return h, nil
	default:
		return nil, ErrQueueFull
	}
}

// Close stops accepting submissions, waits for queued and in-flight
// dispatches to finish, and releases the workers.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.queue)
	d.wg.Wait()
}

// worker drains the queue until Close.
func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for h := range d.queue {
		d.execute(h)
	}
}

// execute runs one queued dispatch, honoring cancellation on both sides of
// the chain. The single CAS per transition guarantees the completion and
// failure callbacks fire exactly once each, and never after a cancellation
// won the race.
func (d *Dispatcher) execute(h *Handle) {
	// Cancelled while queued: nothing to run, callbacks stay suppressed.
	if !h.state.CompareAndSwap(int32(StateCreated), int32(StateRunning)) {
		return
	}

	start := time.Now()
	res := run(h.pipe, h.ev)

	target := StateCompleted
	if res.Err != nil {
		target = StateFailed
	}

	// Commit point: once the chain has returned, the dispatch is committed
	// to its outcome. Losing this CAS means Cancel won first — the result is
	// dropped and no callback fires.
	if !h.state.CompareAndSwap(int32(StateRunning), int32(target)) {
		return
	}

	h.res = res
	close(h.done)
	d.finish(res, time.Since(start))

	switch target {
	case StateCompleted:
		if h.onComplete != nil {
			h.onComplete(res)
		}
	case StateFailed:
		if h.onFailure != nil {
			h.onFailure(res.Err)
		}
	}
}

// run constructs the per-dispatch Context and executes the composed chain,
// converting panics that escape the chain into stage failures.
func run(p *gf.Pipeline, ev flow.Event) (res Result) {
	ctx := flow.NewContext(ev)
	res.Ctx = ctx

	defer func() {
		if r := recover(); r != nil {
			res = Result{Ctx: ctx, Err: flow.MiddlewareError("dispatch", fmt.Errorf("panic: %v", r))}
		}
	}()

	res.Err = p.Handler()(ctx)
	return res
}

// finish reports one terminal dispatch to the configured sinks.
func (d *Dispatcher) finish(res Result, elapsed time.Duration) {
	outcome := "completed"
	if res.Err != nil {
		if flow.KindOf(res.Err) == flow.KindCancelled {
			outcome = "cancelled"
		} else {
			outcome = "failed"
		}
	}

	if d.metrics != nil {
		d.metrics.Observe(outcome, elapsed)
	}
	if d.logger != nil && res.Err != nil {
		d.logger.Error("dispatch failed",
			slog.String("stage", flow.StageOf(res.Err)),
			slog.String("kind", flow.KindOf(res.Err).String()),
			slog.Duration("elapsed", elapsed),
			slog.Any("error", res.Err),
		)
	}
}
