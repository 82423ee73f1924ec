package flow_test

import (
	"testing"

	"github.com/Keksclan/goFlowSquirrel/flow"
)

func TestNewContextCopiesEventMaps(t *testing.T) {
	ev := flow.Event{
		Method: "GET",
		Path:   "/x",
		Header: map[string]string{"A": "1"},
		Params: map[string]string{"p": "v"},
	}
	ctx := flow.NewContext(ev)

	ev.Header["A"] = "mutated"
	ev.Params["p"] = "mutated"

	if got := ctx.Header("A"); got != "1" {
		t.Fatalf("header leaked event mutation: %q", got)
	}
	if got := ctx.Param("p"); got != "v" {
		t.Fatalf("param leaked event mutation: %q", got)
	}
}

func TestContextParamPromotion(t *testing.T) {
	ctx := flow.NewContext(flow.Event{Params: map[string]string{"q": "1"}})
	ctx.SetParam("body", "2")

	if ctx.Param("q") != "1" || ctx.Param("body") != "2" {
		t.Fatal("params not merged")
	}

	m := ctx.ParamMap()
	m["q"] = "mutated"
	if ctx.Param("q") != "1" {
		t.Fatal("ParamMap must return a copy")
	}
}

func TestContextRequestCookieOverwrite(t *testing.T) {
	ctx := flow.NewContext(flow.Event{})
	ctx.SetRequestCookie("name", flow.Cookie{Value: "a"})
	ctx.SetRequestCookie("name", flow.Cookie{Value: "a"})

	if len(ctx.Cookies()) != 1 {
		t.Fatalf("re-setting the same cookie must not duplicate, got %d", len(ctx.Cookies()))
	}
	ck, ok := ctx.Cookie("name")
	if !ok || ck.Value != "a" {
		t.Fatalf("cookie lost on overwrite: %+v ok=%v", ck, ok)
	}
}

func TestContextResponseAssembly(t *testing.T) {
	ctx := flow.NewContext(flow.Event{})
	ctx.SetStatus(201)
	ctx.SetHeader("Content-Type", "text/plain")
	ctx.WriteString("hello")
	ctx.WriteString(", world")
	ctx.SetCookie("s", flow.Cookie{Value: "1"})

	resp := ctx.Response()
	if resp.Status != 201 {
		t.Fatalf("status = %d", resp.Status)
	}
	if string(resp.Body) != "hello, world" {
		t.Fatalf("body = %q", resp.Body)
	}
	if resp.Header["Content-Type"] != "text/plain" {
		t.Fatalf("header = %v", resp.Header)
	}
	if _, ok := resp.Cookies["s"]; !ok {
		t.Fatal("cookie missing from response")
	}

	// The returned maps are copies.
	resp.Header["Content-Type"] = "mutated"
	if ctx.ResponseHeader("Content-Type") != "text/plain" {
		t.Fatal("Response must clone the header map")
	}
}

func TestContextAttrs(t *testing.T) {
	ctx := flow.NewContext(flow.Event{})
	if _, ok := ctx.Attr("missing"); ok {
		t.Fatal("unexpected attribute")
	}
	ctx.SetAttr("k", 42)
	v, ok := ctx.Attr("k")
	if !ok || v.(int) != 42 {
		t.Fatalf("attr = %v ok=%v", v, ok)
	}
}
