package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/debugscan/debugscan/internal/probe"
)

// TextWriter prints one block per target: a tagged headline and, for
// vulnerable targets, the technique and fingerprint of every finding.
type TextWriter struct {
	w     io.Writer
	quiet bool

	vuln  *color.Color
	clean *color.Color
	dim   *color.Color
}

// NewTextWriter creates a text writer. With an empty outputFile, results go
// to stdout. Colors are dropped for file output regardless of noColor.
func NewTextWriter(outputFile string, noColor, quiet bool) (*TextWriter, error) {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		noColor = true
	}

	vuln := color.New(color.FgRed, color.Bold)
	clean := color.New(color.FgGreen)
	dim := color.New(color.Faint)
	if noColor {
		vuln.DisableColor()
		clean.DisableColor()
		dim.DisableColor()
	}

	return &TextWriter{w: w, quiet: quiet, vuln: vuln, clean: clean, dim: dim}, nil
}

func (t *TextWriter) WriteHeader() error { return nil }

func (t *TextWriter) WriteResult(report *probe.TargetReport) error {
	if !report.Vulnerable() {
		if t.quiet {
			return nil
		}
		_, err := fmt.Fprintf(t.w, "%s No debug patterns found on %s\n", t.clean.Sprint("[-]"), report.URL)
		return err
	}

	if _, err := fmt.Fprintf(t.w, "%s Potential Debug Mode Detected on %s\n", t.vuln.Sprint("[+]"), report.URL); err != nil {
		return err
	}
	for _, f := range report.Findings {
		if _, err := fmt.Fprintf(t.w, "    -> Technique: %s\n    -> Fingerprint: %s\n", f.Technique, t.dim.Sprint(f.Fingerprint)); err != nil {
			return err
		}
	}
	return nil
}

// WriteFooter prints the run summary on stderr. Quiet mode drops the banner
// and clean-target lines but keeps this one-line summary.
func (t *TextWriter) WriteFooter(stats Stats) error {
	_, err := fmt.Fprintf(os.Stderr,
		"\nScan completed in %.2f seconds\nTargets scanned: %d | Debug mode: %d (%.1f%%) | Requests: %d | %.1f req/s\n",
		stats.Duration.Round(10*time.Millisecond).Seconds(),
		stats.Targets,
		stats.Vulnerable,
		stats.VulnerablePct(),
		stats.TotalRequests,
		stats.RequestsPerSec(),
	)
	return err
}

func (t *TextWriter) Close() error {
	if closer, ok := t.w.(io.Closer); ok && t.w != os.Stdout {
		return closer.Close()
	}
	return nil
}
