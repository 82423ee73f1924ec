package middleware

import (
	"net/url"
	"strings"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

// FormParams returns a middleware that promotes form-encoded body parameters
// into the request parameter mapping. Parameters already present (for
// example from the query string) win over body values, which also makes
// re-application of the stage a no-op.
func FormParams() flow.Middleware {
	return func(next flow.Handler) flow.Handler {
		return func(ctx *flow.Context) error {
			if isFormEncoded(ctx.Header("Content-Type")) {
				values, err := url.ParseQuery(string(ctx.Body()))
				if err == nil {
					for name, vals := range values {
						if len(vals) == 0 || ctx.Param(name) != "" {
							continue
						}
						ctx.SetParam(name, vals[0])
					}
				}
			}
			return next(ctx)
		}
	}
}

func isFormEncoded(contentType string) bool {
	ct, _, _ := strings.Cut(contentType, ";")
	return strings.TrimSpace(ct) == "application/x-www-form-urlencoded"
}
