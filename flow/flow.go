// Package flow provides the core vocabulary of the pipeline: the per-dispatch
// [Context], the terminal [Handler], the composable [Middleware] wrapper, and
// the error taxonomy shared by every stage.
package flow

// Handler is the terminal unit of work at the end of a pipeline. It reads the
// request half of the Context and writes the response half. A non-nil error
// aborts the dispatch and surfaces as a handler failure.
type Handler func(*Context) error

// Middleware transforms a Handler, allowing pre/post behavior composition.
// A middleware may call next exactly once (wrapping) or not at all
// (short-circuiting, writing the response itself).
type Middleware func(Handler) Handler

// Chain composes middlewares from left to right, i.e., Chain(A, B)(h) => A(B(h)).
// The first middleware is outermost: it runs first on the way in and last on
// the way out.
func Chain(mw ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(mw) - 1; i >= 0; i-- {
			next = mw[i](next)
		}
		return next
	}
}

// Wrap applies the middleware chain to a handler and returns the wrapped handler.
func Wrap(h Handler, mw ...Middleware) Handler {
	if len(mw) == 0 {
		return h
	}
	return Chain(mw...)(h)
}
