// Package httpx adapts net/http to the pipeline: it builds inbound events
// from *http.Request values and writes completed responses back, including
// one Set-Cookie header line per outbound cookie.
package httpx

import (
	"io"
	"net/http"

	gf "github.com/Keksclan/goFlowSquirrel"
	"github.com/Keksclan/goFlowSquirrel/dispatch"
	"github.com/Keksclan/goFlowSquirrel/flow"
)

// maxBodyBytes caps how much of an inbound body is read into the event.
const maxBodyBytes = 10 << 20 // 10 MiB

// EventFromRequest converts an inbound HTTP request into a pipeline event.
// Headers and query parameters are flattened to their first value; the body
// is read up to a 10 MiB cap.
func EventFromRequest(r *http.Request) (flow.Event, error) {
	header := make(map[string]string, len(r.Header))
	for name, vals := range r.Header {
		if len(vals) > 0 {
			header[name] = vals[0]
		}
	}

	params := make(map[string]string)
	for name, vals := range r.URL.Query() {
		if len(vals) > 0 {
			params[name] = vals[0]
		}
	}

	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return flow.Event{}, err
		}
		body = b
	}

	return flow.Event{
		Method:     r.Method,
		Path:       r.URL.Path,
		Header:     header,
		Params:     params,
		Body:       body,
		RemoteAddr: r.RemoteAddr,
	}, nil
}

// WriteResponse writes a completed pipeline response to w. A zero status
// defaults to 200. Cookies are emitted as one Set-Cookie header per entry.
func WriteResponse(w http.ResponseWriter, resp flow.Response) {
	for name, v := range resp.Header {
		w.Header().Set(name, v)
	}
	for _, line := range flow.SetCookieLines(resp) {
		w.Header().Add("Set-Cookie", line)
	}

	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(resp.Body)
}

// Handler mounts a pipeline as an http.Handler, dispatching synchronously
// per request through d. Stage failures map to 500; cancelled dispatches
// cannot occur on the synchronous path.
func Handler(d *dispatch.Dispatcher, p *gf.Pipeline) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ev, err := EventFromRequest(r)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		res := d.Dispatch(p, ev)
		if res.Err != nil {
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		WriteResponse(w, res.Ctx.Response())
	})
}
