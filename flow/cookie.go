package flow

import (
	"maps"
	"net/http"
	"slices"
	"time"
)

// Cookie holds the recognized attributes of one cookie. Optional attributes
// are rendered on the wire only when present: the zero Domain/Path are
// omitted, MaxAge 0 means "no Max-Age attribute", and a zero Expires means
// "no Expires attribute".
type Cookie struct {
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
	MaxAge   int // seconds; negative means "delete immediately"
	Expires  time.Time
}

// ParseCookieHeader parses an inbound Cookie request header into a
// name → Cookie mapping. Only the value attribute can appear on the request
// side. For duplicate names the first occurrence wins, matching net/http.
// An empty header yields an empty, non-nil map.
func ParseCookieHeader(header string) (map[string]Cookie, error) {
	out := make(map[string]Cookie)
	if header == "" {
		return out, nil
	}
	parsed, err := http.ParseCookie(header)
	if err != nil {
		return nil, err
	}
	for _, hc := range parsed {
		if _, dup := out[hc.Name]; dup {
			continue
		}
		out[hc.Name] = Cookie{Value: hc.Value}
	}
	return out, nil
}

// SetCookieLine serializes one outbound cookie into a Set-Cookie header
// value. Attributes are rendered only when set.
func SetCookieLine(name string, ck Cookie) string {
	hc := http.Cookie{
		Name:     name,
		Value:    ck.Value,
		Domain:   ck.Domain,
		Path:     ck.Path,
		Secure:   ck.Secure,
		HttpOnly: ck.HTTPOnly,
		MaxAge:   ck.MaxAge,
		Expires:  ck.Expires,
	}
	return hc.String()
}

// SetCookieLines serializes every outbound cookie of a response, one
// Set-Cookie value per entry, in sorted name order so output is stable.
func SetCookieLines(resp Response) []string {
	if len(resp.Cookies) == 0 {
		return nil
	}
	names := slices.Sorted(maps.Keys(resp.Cookies))
	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, SetCookieLine(name, resp.Cookies[name]))
	}
	return lines
}
