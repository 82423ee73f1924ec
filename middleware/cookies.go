package middleware

import (
	"github.com/Keksclan/goFlowSquirrel/flow"
)

// Cookies returns the cookie-extraction middleware. On the way in it parses
// the inbound Cookie header into the context's cookie mapping; a malformed
// header short-circuits with status 400. Parsing the same header twice
// produces the same mapping, so re-applying the stage is safe.
//
// Serialization of outbound cookies into Set-Cookie lines is the transport
// adapter's job (see flow.SetCookieLines); this stage only feeds the inbound
// half.
func Cookies() flow.Middleware {
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			parsed, err := flow.ParseCookieHeader(ctx.Header("Cookie"))
			if err != nil {
				ctx.SetStatus(400)
				ctx.SetBody([]byte("malformed cookie header"))
				return nil
			}
			for name, ck := range parsed {
				ctx.SetRequestCookie(name, ck)
			}
			return next(ctx)
		}
	}
}
