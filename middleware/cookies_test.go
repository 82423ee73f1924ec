package middleware_test

import (
	"strings"
	"testing"

	"github.com/Keksclan/goFlowSquirrel/flow"
	"github.com/Keksclan/goFlowSquirrel/middleware"
)

func TestCookiesGreetingScenario(t *testing.T) {
	greet := func(ctx *flow.Context) error {
		name := "stranger"
		if ck, ok := ctx.Cookie("name"); ok {
			name = ck.Value
		}
		ctx.SetStatus(200)
		ctx.WriteString("Hello, " + name)
		ctx.SetCookie("name", flow.Cookie{Value: name, Path: "/"})
		return nil
	}

	h := middleware.Cookies()(greet)

	ctx := flow.NewContext(flow.Event{
		Method: "GET",
		Path:   "/greet",
		Header: map[string]string{"Cookie": "name=Alice"},
	})
	if err := h(ctx); err != nil {
		t.Fatalf("chain failed: %v", err)
	}

	resp := ctx.Response()
	if string(resp.Body) != "Hello, Alice" {
		t.Fatalf("body = %q", resp.Body)
	}
	ck, ok := resp.Cookies["name"]
	if !ok || ck.Value != "Alice" {
		t.Fatalf("outbound cookie = %+v ok=%v", ck, ok)
	}
}

func TestCookiesNoHeader(t *testing.T) {
	called := false
	h := middleware.Cookies()(func(ctx *flow.Context) error {
		called = true
		ctx.SetStatus(200)
		return nil
	})

	ctx := flow.NewContext(flow.Event{Method: "POST", Path: "/form"})
	if err := h(ctx); err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if !called {
		t.Fatal("handler must run when no Cookie header is present")
	}
	if ctx.Status() != 200 {
		t.Fatalf("status = %d", ctx.Status())
	}
	if len(ctx.Cookies()) != 0 {
		t.Fatalf("unexpected inbound cookies: %v", ctx.Cookies())
	}
	if len(ctx.Response().Cookies) != 0 {
		t.Fatalf("unexpected outbound cookies: %v", ctx.Response().Cookies)
	}
}

func TestCookiesMalformedHeaderShortCircuits(t *testing.T) {
	called := false
	h := middleware.Cookies()(func(ctx *flow.Context) error {
		called = true
		return nil
	})

	ctx := flow.NewContext(flow.Event{
		Header: map[string]string{"Cookie": "=;;="},
	})
	if err := h(ctx); err != nil {
		t.Fatalf("short-circuit must not error: %v", err)
	}
	if called {
		t.Fatal("handler must not run for a malformed cookie header")
	}
	if ctx.Status() != 400 {
		t.Fatalf("status = %d, want 400", ctx.Status())
	}
}

// nameOrForm greets by name (cookie first, then parameter) and remembers the
// name in a cookie; without either it answers the name-entry form.
func nameOrForm(ctx *flow.Context) error {
	name := ""
	if ck, ok := ctx.Cookie("name"); ok {
		name = ck.Value
	} else if v := ctx.Param("name"); v != "" {
		name = v
	}

	ctx.SetStatus(200)
	if name == "" {
		ctx.SetHeader("Content-Type", "text/html")
		ctx.WriteString(`<form method="POST"><input name="name"><input type="submit"></form>`)
		return nil
	}
	ctx.WriteString("Hello, " + name)
	ctx.SetCookie("name", flow.Cookie{Value: name})
	return nil
}

func TestNameScenarioWithCookie(t *testing.T) {
	h := flow.Wrap(nameOrForm, middleware.Cookies(), middleware.FormParams())

	ctx := flow.NewContext(flow.Event{
		Method: "GET",
		Path:   "/",
		Header: map[string]string{"Cookie": "name=Alice"},
	})
	if err := h(ctx); err != nil {
		t.Fatalf("chain failed: %v", err)
	}

	resp := ctx.Response()
	if string(resp.Body) != "Hello, Alice" {
		t.Fatalf("body = %q", resp.Body)
	}
	if ck, ok := resp.Cookies["name"]; !ok || ck.Value != "Alice" {
		t.Fatalf("cookie not re-emitted: %+v ok=%v", ck, ok)
	}
}

func TestNameScenarioWithoutCookieServesForm(t *testing.T) {
	h := flow.Wrap(nameOrForm, middleware.Cookies(), middleware.FormParams())

	ctx := flow.NewContext(flow.Event{Method: "GET", Path: "/"})
	if err := h(ctx); err != nil {
		t.Fatalf("chain failed: %v", err)
	}

	resp := ctx.Response()
	if resp.Status != 200 {
		t.Fatalf("status = %d", resp.Status)
	}
	if !strings.Contains(string(resp.Body), "<form") {
		t.Fatalf("expected the name-entry form, got %q", resp.Body)
	}
	if len(resp.Cookies) != 0 {
		t.Fatalf("no cookies expected, got %v", resp.Cookies)
	}
}

func TestNameScenarioFormSubmissionSetsCookie(t *testing.T) {
	h := flow.Wrap(nameOrForm, middleware.Cookies(), middleware.FormParams())

	ctx := flow.NewContext(flow.Event{
		Method: "POST",
		Path:   "/",
		Header: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
		Body:   []byte("name=Bob"),
	})
	if err := h(ctx); err != nil {
		t.Fatalf("chain failed: %v", err)
	}

	resp := ctx.Response()
	if string(resp.Body) != "Hello, Bob" {
		t.Fatalf("body = %q", resp.Body)
	}
	if ck, ok := resp.Cookies["name"]; !ok || ck.Value != "Bob" {
		t.Fatalf("cookie not set from form value: %+v ok=%v", ck, ok)
	}
}

func TestCookiesReapplicationIsIdempotent(t *testing.T) {
	h := middleware.Cookies()(middleware.Cookies()(func(ctx *flow.Context) error {
		return nil
	}))

	ctx := flow.NewContext(flow.Event{
		Header: map[string]string{"Cookie": "session=abc"},
	})
	if err := h(ctx); err != nil {
		t.Fatalf("chain failed: %v", err)
	}
	if len(ctx.Cookies()) != 1 {
		t.Fatalf("re-applied stage duplicated cookies: %v", ctx.Cookies())
	}
}
