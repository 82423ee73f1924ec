package flow

import "maps"

// Event is the raw inbound shape consumed from a transport collaborator.
// Header and Params hold unique keys; insertion order is irrelevant.
type Event struct {
	Method     string
	Path       string
	Header     map[string]string
	Params     map[string]string
	Body       []byte
	RemoteAddr string // transport-reported peer address, "host:port" or bare IP
}

// Response is the outbound half of a Context: status code, header mapping,
// body bytes, and the cookies to be emitted as Set-Cookie directives.
type Response struct {
	Status  int
	Header  map[string]string
	Body    []byte
	Cookies map[string]Cookie
}

// Context carries the data of one request cycle through the pipeline: the
// read-only inbound request, the parsed inbound cookies, the mutable outbound
// response, and an attribute mapping for middleware-to-middleware
// communication.
//
// A Context is constructed by the dispatcher from one inbound [Event],
// owned by exactly one dispatch for its lifetime, and discarded after the
// response is emitted. It must not be shared across dispatches or reused.
// All mutation is append/overwrite; inbound request fields are never deleted.
type Context struct {
	method string
	path   string
	header map[string]string
	params map[string]string
	body   []byte

	remote string

	cookies map[string]Cookie // inbound, populated by cookie middleware

	resp  Response
	attrs map[string]any
}

// NewContext builds a fresh Context from an inbound event. The event's maps
// are copied so later mutation of the event does not leak into the dispatch.
//
// Only the dispatcher (or a test standing in for it) should construct a
// Context.
func NewContext(ev Event) *Context {
	return &Context{
		method:  ev.Method,
		path:    ev.Path,
		header:  maps.Clone(ev.Header),
		params:  maps.Clone(ev.Params),
		body:    ev.Body,
		remote:  ev.RemoteAddr,
		cookies: make(map[string]Cookie),
		resp: Response{
			Header:  make(map[string]string),
			Cookies: make(map[string]Cookie),
		},
		attrs: make(map[string]any),
	}
}

// Method returns the inbound request method.
func (c *Context) Method() string { return c.method }

// Path returns the inbound request path.
func (c *Context) Path() string { return c.path }

// Header returns the inbound header value for name, or "" when absent.
func (c *Context) Header(name string) string { return c.header[name] }

// Param returns the inbound query/body parameter for name, or "" when absent.
func (c *Context) Param(name string) string { return c.params[name] }

// SetParam adds an inbound parameter. Append/overwrite only — middlewares use
// this to promote body parameters; existing inbound fields are never deleted.
func (c *Context) SetParam(name, value string) {
	if c.params == nil {
		c.params = make(map[string]string)
	}
	c.params[name] = value
}

// ParamMap returns a copy of the inbound parameter mapping.
func (c *Context) ParamMap() map[string]string { return maps.Clone(c.params) }

// RemoteAddr returns the transport-reported peer address.
func (c *Context) RemoteAddr() string { return c.remote }

// HeaderMap returns a copy of the inbound header mapping.
func (c *Context) HeaderMap() map[string]string { return maps.Clone(c.header) }

// Body returns the raw inbound body bytes. Callers must treat it as read-only.
func (c *Context) Body() []byte { return c.body }

// Cookie returns the inbound cookie with the given name. The boolean reports
// whether it was present.
func (c *Context) Cookie(name string) (Cookie, bool) {
	ck, ok := c.cookies[name]
	return ck, ok
}

// Cookies returns a copy of the inbound cookie mapping.
func (c *Context) Cookies() map[string]Cookie {
	return maps.Clone(c.cookies)
}

// SetRequestCookie records an inbound cookie. Setting the same name again
// overwrites the previous entry, so re-parsing the same Cookie header is safe.
func (c *Context) SetRequestCookie(name string, ck Cookie) {
	c.cookies[name] = ck
}

// SetStatus sets the response status code.
func (c *Context) SetStatus(code int) { c.resp.Status = code }

// Status returns the response status code set so far (0 when unset).
func (c *Context) Status() int { return c.resp.Status }

// SetHeader sets a response header, overwriting any previous value.
func (c *Context) SetHeader(name, value string) { c.resp.Header[name] = value }

// ResponseHeader returns the response header value for name.
func (c *Context) ResponseHeader(name string) string { return c.resp.Header[name] }

// SetBody replaces the response body.
func (c *Context) SetBody(b []byte) { c.resp.Body = b }

// WriteString appends s to the response body.
func (c *Context) WriteString(s string) { c.resp.Body = append(c.resp.Body, s...) }

// SetCookie adds a cookie to the outbound response, overwriting any previous
// cookie with the same name. All caller-supplied attributes are preserved
// through to serialization.
func (c *Context) SetCookie(name string, ck Cookie) { c.resp.Cookies[name] = ck }

// ResponseCookie returns the outbound cookie with the given name.
func (c *Context) ResponseCookie(name string) (Cookie, bool) {
	ck, ok := c.resp.Cookies[name]
	return ck, ok
}

// Response returns a copy of the outbound response assembled so far. The
// header and cookie maps are cloned; the body slice is shared.
func (c *Context) Response() Response {
	return Response{
		Status:  c.resp.Status,
		Header:  maps.Clone(c.resp.Header),
		Body:    c.resp.Body,
		Cookies: maps.Clone(c.resp.Cookies),
	}
}

// SetAttr stores a middleware-local attribute. Attributes are opaque to the
// pipeline itself.
func (c *Context) SetAttr(key string, v any) { c.attrs[key] = v }

// Attr returns the attribute stored under key.
func (c *Context) Attr(key string) (any, bool) {
	v, ok := c.attrs[key]
	return v, ok
}
