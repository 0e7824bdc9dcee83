// Package targets resolves the list of URLs a scan runs against from the
// -u, -l and --cidr inputs.
package targets

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/debugscan/debugscan/internal/config"
	"github.com/debugscan/debugscan/internal/netutil"
)

// Resolve builds the target list from the options: the single -u URL, the
// -l list file and the --cidr expansion, in that order. Duplicates are
// dropped keeping the first occurrence.
func Resolve(opts *config.Options) ([]string, error) {
	var targets []string

	if opts.URL != "" {
		targets = append(targets, Normalize(opts.URL))
	}

	if opts.ListFile != "" {
		fromFile, err := Load(opts.ListFile)
		if err != nil {
			return nil, err
		}
		targets = append(targets, fromFile...)
	}

	if opts.CIDR != "" {
		fromCIDR, err := netutil.ExpandCIDR(opts.CIDR, opts.Ports)
		if err != nil {
			return nil, fmt.Errorf("expanding CIDR: %w", err)
		}
		targets = append(targets, fromCIDR...)
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets specified (-u, -l, or --cidr)")
	}
	return dedup(targets), nil
}

// Load reads a newline-delimited target file. Blank lines and # comments
// are skipped, entries without a scheme get http:// prepended, and
// duplicates are dropped keeping the first occurrence.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening target list: %w", err)
	}
	defer f.Close()

	var targets []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, Normalize(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading target list: %w", err)
	}
	return dedup(targets), nil
}

// Normalize prepends http:// when the target carries no scheme.
func Normalize(raw string) string {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "http://" + raw
	}
	return raw
}

func dedup(targets []string) []string {
	seen := make(map[string]struct{}, len(targets))
	result := targets[:0]
	for _, t := range targets {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}
