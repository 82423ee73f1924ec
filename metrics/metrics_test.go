package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCountsByOutcome(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.Observe("completed", 10*time.Millisecond)
	c.Observe("completed", 20*time.Millisecond)
	c.Observe("failed", 5*time.Millisecond)
	c.Observe("cancelled", time.Millisecond)

	if got := testutil.ToFloat64(c.dispatches.WithLabelValues("completed")); got != 2 {
		t.Fatalf("completed = %v", got)
	}
	if got := testutil.ToFloat64(c.dispatches.WithLabelValues("failed")); got != 1 {
		t.Fatalf("failed = %v", got)
	}
	if got := testutil.ToFloat64(c.dispatches.WithLabelValues("cancelled")); got != 1 {
		t.Fatalf("cancelled = %v", got)
	}
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.Observe("completed", time.Millisecond)

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	body := string(raw)
	if !strings.Contains(body, "flow_dispatches_total") {
		t.Fatal("counter missing from scrape output")
	}
	if !strings.Contains(body, "flow_dispatch_duration_seconds") {
		t.Fatal("histogram missing from scrape output")
	}
}
