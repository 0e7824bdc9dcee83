package probe

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/projectdiscovery/gologger"
	"golang.org/x/sync/errgroup"

	"github.com/debugscan/debugscan/internal/catalog"
)

// Finding records one technique that exposed debug output on a target and
// the fingerprint that matched. Never mutated after creation.
type Finding struct {
	Technique   string `json:"technique"`
	Fingerprint string `json:"fingerprint"`
}

// TargetReport is the outcome of the full probe battery for one target.
type TargetReport struct {
	URL      string    `json:"url"`
	Findings []Finding `json:"findings"`
}

// Vulnerable reports whether any probe produced a finding.
func (r TargetReport) Vulnerable() bool { return len(r.Findings) > 0 }

// probeMethods is the closed method set for the method sweep. The baseline
// GET is deliberately issued again here: the sweep carries its own technique
// label, and its shape stays independent of the baseline step.
var probeMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut}

// Prober runs the probe battery against single targets through a shared
// session. Safe for concurrent use by multiple goroutines.
type Prober struct {
	client  *Client
	catalog *catalog.Catalog
}

// NewProber returns a Prober issuing requests through client and matching
// responses against cat.
func NewProber(client *Client, cat *catalog.Catalog) *Prober {
	return &Prober{client: client, catalog: cat}
}

// Probe runs the full battery against one target and returns its report.
// It never fails: a transport problem on any single probe degrades to "no
// finding for that technique", and a 404 on the baseline request
// short-circuits the whole target with empty findings.
func (p *Prober) Probe(ctx context.Context, target string) TargetReport {
	report := TargetReport{URL: target}

	// 1. Baseline request. A 404 means the target serves nothing at this
	// URL; no other probe is worth issuing.
	baseline := p.client.Do(ctx, target, http.MethodGet, "")
	if baseline.StatusCode == http.StatusNotFound {
		return report
	}
	if fp, ok := p.catalog.Match(baseline.Body); ok {
		report.Findings = append(report.Findings, Finding{Technique: "Simple GET", Fingerprint: fp})
	}

	// 2. Method sweep.
	for _, method := range probeMethods {
		out := p.client.Do(ctx, target, method, "")
		if out.StatusCode == http.StatusNotFound {
			continue
		}
		if fp, ok := p.catalog.Match(out.Body); ok {
			report.Findings = append(report.Findings, Finding{
				Technique:   "HTTP Method " + method,
				Fingerprint: fp,
			})
		}
	}

	// 3. Malformed JSON bodies. Debug-enabled frameworks tend to echo the
	// parser failure, stack trace included.
	for _, payload := range p.catalog.Payloads() {
		out := p.client.Do(ctx, target, http.MethodPost, payload)
		if out.StatusCode == http.StatusNotFound {
			continue
		}
		if fp, ok := p.catalog.Match(out.Body); ok {
			report.Findings = append(report.Findings, Finding{
				Technique:   fmt.Sprintf("Malformed JSON (%s)", payload),
				Fingerprint: fp,
			})
		}
	}

	// 4. Same request addressed by literal IP. Virtual-host setups often
	// route it to a default site that still has debug switched on.
	if ipURL, err := rewriteHostToIP(target); err == nil {
		out := p.client.Do(ctx, ipURL, http.MethodGet, "")
		if out.StatusCode != http.StatusNotFound {
			if fp, ok := p.catalog.Match(out.Body); ok {
				report.Findings = append(report.Findings, Finding{Technique: "IP-based access", Fingerprint: fp})
			}
		}
	} else {
		gologger.Debug().Msgf("ip probe %s: %s", target, err)
	}

	// 5. Known debug endpoints, probed concurrently. Findings keep catalog
	// order, not completion order.
	report.Findings = append(report.Findings, p.probePaths(ctx, target)...)

	return report
}

// probePaths fans the known-path probes out concurrently and assembles the
// findings slot-indexed, so catalog order survives the fan-in.
func (p *Prober) probePaths(ctx context.Context, target string) []Finding {
	paths := p.catalog.Paths()
	base := strings.TrimRight(target, "/")

	findings := make([]*Finding, len(paths))
	var g errgroup.Group
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			out := p.client.Do(ctx, base+"/"+path, http.MethodGet, "")
			if out.StatusCode == http.StatusNotFound {
				return nil
			}
			if fp, ok := p.catalog.Match(out.Body); ok {
				findings[i] = &Finding{Technique: "Debug path: " + path, Fingerprint: fp}
			}
			return nil
		})
	}
	g.Wait()

	ordered := make([]Finding, 0, len(paths))
	for _, f := range findings {
		if f != nil {
			ordered = append(ordered, *f)
		}
	}
	return ordered
}

// rewriteHostToIP swaps the URL's hostname for its resolved address,
// preferring IPv4 and keeping the port.
func rewriteHostToIP(target string) (string, error) {
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("no host in %q", target)
	}

	addrs, err := net.LookupHost(host)
	if err != nil {
		return "", err
	}
	if len(addrs) == 0 {
		return "", fmt.Errorf("no addresses for %q", host)
	}

	addr := addrs[0]
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil && ip.To4() != nil {
			addr = a
			break
		}
	}

	switch port := u.Port(); {
	case port != "":
		u.Host = net.JoinHostPort(addr, port)
	case strings.Contains(addr, ":"):
		u.Host = "[" + addr + "]"
	default:
		u.Host = addr
	}
	return u.String(), nil
}
