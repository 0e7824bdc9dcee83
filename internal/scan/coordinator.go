// Package scan fans the per-target prober out across all targets and owns
// the shared session's lifecycle around that fan-out.
package scan

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/debugscan/debugscan/internal/catalog"
	"github.com/debugscan/debugscan/internal/config"
	"github.com/debugscan/debugscan/internal/probe"
)

// Config carries what a run needs beyond the target list.
type Config struct {
	Options *config.Options
	Catalog *catalog.Catalog // nil = built-in catalog
	Pauser  *probe.Pauser    // optional pause gate

	// OnResult is invoked once per finished target, in completion order,
	// possibly from multiple goroutines. Used for progress display; the
	// ordered reports come from Run's return value.
	OnResult func(probe.TargetReport)
}

// Result is the outcome of a whole run.
type Result struct {
	// Reports holds one report per input target, in input order.
	Reports []probe.TargetReport
	// Requests is the total number of probe attempts issued.
	Requests int64
}

// Run probes every target and collects the reports in input order, however
// the probers interleave. The session is constructed before the first probe
// and closed exactly once, after every prober has joined.
func Run(ctx context.Context, targets []string, cfg Config) (*Result, error) {
	client, err := probe.NewClient(cfg.Options)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if cfg.Pauser != nil {
		client.SetPauser(cfg.Pauser)
	}
	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	prober := probe.NewProber(client, cat)

	workers := cfg.Options.Workers
	if workers <= 0 {
		workers = 1
	}

	reports := make([]probe.TargetReport, len(targets))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			reports[i] = prober.Probe(ctx, target)
			if cfg.OnResult != nil {
				cfg.OnResult(reports[i])
			}
			return nil
		})
	}
	g.Wait()

	return &Result{Reports: reports, Requests: client.Requests()}, nil
}
