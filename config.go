package goflowsquirrel

import (
	"github.com/Keksclan/goFlowSquirrel/internal/core"
)

// config holds the internal configuration assembled via functional options.
type config struct {
	mws         core.Builder
	handlerName string
	err         error // first configuration error found while applying options
}

// fail records the first configuration error; later ones are dropped so the
// caller sees the earliest offending option.
func (c *config) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

// Fixed priority levels for the built-in options. Lower values run further
// out. Stages registered through [Use] share OrderUser, so their relative
// registration order is preserved by the stable sort.
const (
	OrderRecovery  = 100
	OrderTracing   = 200
	OrderRequestID = 300
	OrderIPBlock   = 400
	OrderAuth      = 500
	OrderRateLimit = 600
	OrderBreaker   = 700
	OrderCookies   = 800
	OrderParams    = 850
	OrderCache     = 900
	OrderUser      = 5000
)
