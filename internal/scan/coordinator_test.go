package scan

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/debugscan/debugscan/internal/config"
	"github.com/debugscan/debugscan/internal/probe"
)

func testOptions() *config.Options {
	return &config.Options{
		Workers:         10,
		Timeout:         2 * time.Second,
		FollowRedirects: true,
	}
}

func fingerprintServer(t *testing.T, fingerprint string, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		io.WriteString(w, fingerprint)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunPreservesInputOrder(t *testing.T) {
	// Slowest target first, so completion order inverts input order.
	slow := fingerprintServer(t, "phpdebugbar", 40*time.Millisecond)
	mid := fingerprintServer(t, "debugkit", 10*time.Millisecond)
	fast := fingerprintServer(t, "rack.session", 0)

	targets := []string{slow.URL, mid.URL, fast.URL}
	result, err := Run(context.Background(), targets, Config{Options: testOptions()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Reports) != len(targets) {
		t.Fatalf("got %d reports, want %d", len(result.Reports), len(targets))
	}
	for i, report := range result.Reports {
		if report.URL != targets[i] {
			t.Errorf("report %d is for %s, want %s", i, report.URL, targets[i])
		}
		if !report.Vulnerable() {
			t.Errorf("report %d (%s) has no findings", i, report.URL)
		}
	}
}

func TestRunBoundsInFlightRequests(t *testing.T) {
	const workers = 3

	var active, highWater atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := active.Add(1)
		for {
			max := highWater.Load()
			if cur <= max || highWater.CompareAndSwap(max, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		active.Add(-1)
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	opts := testOptions()
	opts.Workers = workers

	targets := make([]string, 8)
	for i := range targets {
		targets[i] = srv.URL
	}

	if _, err := Run(context.Background(), targets, Config{Options: opts}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := highWater.Load(); got > workers {
		t.Errorf("observed %d simultaneous requests, bound is %d", got, workers)
	}
}

func TestRunIsolatesDeadTargets(t *testing.T) {
	live := fingerprintServer(t, "Whoops! There was an error", 0)

	deadSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead := deadSrv.URL
	deadSrv.Close()

	var seen atomic.Int64
	cfg := Config{
		Options:  testOptions(),
		OnResult: func(probe.TargetReport) { seen.Add(1) },
	}

	result, err := Run(context.Background(), []string{live.URL, dead, live.URL}, cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.Reports[0].Vulnerable() || !result.Reports[2].Vulnerable() {
		t.Error("live targets should have findings")
	}
	if result.Reports[1].Vulnerable() {
		t.Errorf("dead target reported findings: %v", result.Reports[1].Findings)
	}
	if result.Reports[1].URL != dead {
		t.Errorf("dead target report keeps its URL, got %s", result.Reports[1].URL)
	}
	if seen.Load() != 3 {
		t.Errorf("OnResult ran %d times, want 3", seen.Load())
	}
	if result.Requests == 0 {
		t.Error("request counter should be non-zero")
	}
}

func TestRunNoTargets(t *testing.T) {
	result, err := Run(context.Background(), nil, Config{Options: testOptions()})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Reports) != 0 {
		t.Errorf("got %d reports for empty input", len(result.Reports))
	}
	if result.Requests != 0 {
		t.Errorf("issued %d requests for empty input", result.Requests)
	}
}
