// Package runner wires the scan together: target resolution, catalog and
// resume loading, the banner, progress display, pause control, output
// writing and finding hooks.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/projectdiscovery/gologger"

	"github.com/debugscan/debugscan/internal/catalog"
	"github.com/debugscan/debugscan/internal/config"
	"github.com/debugscan/debugscan/internal/hook"
	"github.com/debugscan/debugscan/internal/output"
	"github.com/debugscan/debugscan/internal/probe"
	"github.com/debugscan/debugscan/internal/resume"
	"github.com/debugscan/debugscan/internal/scan"
	"github.com/debugscan/debugscan/internal/targets"
	"github.com/debugscan/debugscan/pkg/version"
)

// Run executes the full scan pipeline.
func Run(ctx context.Context, opts *config.Options) error {
	targetList, err := targets.Resolve(opts)
	if err != nil {
		return err
	}

	cat := catalog.Default()
	if opts.CatalogFile != "" {
		cat, err = catalog.Load(opts.CatalogFile)
		if err != nil {
			return err
		}
	}

	// A saved resume state only applies to the same target list; anything
	// else starts fresh.
	var state *resume.State
	if opts.ResumeFile != "" {
		sum := resume.Checksum(targetList)
		existing, err := resume.Load(opts.ResumeFile)
		if err != nil {
			return err
		}
		if existing != nil && existing.Checksum == sum {
			state = existing
			before := len(targetList)
			targetList = state.FilterRemaining(targetList)
			gologger.Info().Msgf("resuming: %d of %d targets already completed", before-len(targetList), before)
		} else {
			state = resume.New(opts.ResumeFile, sum, len(targetList))
		}
	}
	if len(targetList) == 0 {
		gologger.Info().Msgf("all targets already completed")
		if state != nil {
			_ = state.Remove()
		}
		return nil
	}

	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	defer out.Close()

	if err := out.WriteHeader(); err != nil {
		return err
	}

	if !opts.Quiet {
		printBanner(opts, cat, len(targetList))
	}

	var hookRunner *hook.Runner
	if opts.OnFindingCmd != "" {
		hookRunner = hook.NewRunner(opts.OnFindingCmd)
	}

	pauser, cleanup := startStdinToggle(opts.Quiet)
	defer cleanup()

	progress := output.NewProgress(len(targetList), opts.Quiet)
	start := time.Now()

	result, err := scan.Run(ctx, targetList, scan.Config{
		Options: opts,
		Catalog: cat,
		Pauser:  pauser,
		OnResult: func(report probe.TargetReport) {
			progress.Increment()
			// A report arriving after cancellation is a battery cut
			// short, not a completed target; it must be rescanned on
			// resume.
			if state != nil && ctx.Err() == nil {
				state.MarkCompleted(report.URL)
			}
		},
	})
	progress.Finish()
	if err != nil {
		return err
	}

	stats := output.Stats{
		Targets:       len(result.Reports),
		TotalRequests: result.Requests,
	}
	for i := range result.Reports {
		report := &result.Reports[i]
		if err := out.WriteResult(report); err != nil {
			return err
		}
		if report.Vulnerable() {
			stats.Vulnerable++
			if hookRunner != nil {
				hookRunner.Run(report)
			}
		}
	}

	duration := time.Since(start)
	if pauser != nil {
		duration -= pauser.PausedFor()
	}
	stats.Duration = duration

	if state != nil {
		if ctx.Err() != nil {
			// Interrupted: keep the checkpoint for the next run.
			if err := state.Save(); err == nil {
				gologger.Info().Msgf("progress saved to %s, rerun with --resume to continue", opts.ResumeFile)
			}
		} else {
			_ = state.Remove()
		}
	}

	return out.WriteFooter(stats)
}

func createWriter(opts *config.Options) (output.Writer, error) {
	switch opts.OutputFormat {
	case "json":
		return output.NewJSONWriter(opts.OutputFile)
	case "csv":
		return output.NewCSVWriter(opts.OutputFile)
	default:
		return output.NewTextWriter(opts.OutputFile, opts.NoColor, opts.Quiet)
	}
}

func printBanner(opts *config.Options, cat *catalog.Catalog, targetCount int) {
	cyan := color.New(color.FgCyan)
	dim := color.New(color.Faint)
	white := color.New(color.FgHiWhite)
	yellow := color.New(color.FgYellow)
	if opts.NoColor {
		for _, c := range []*color.Color{cyan, dim, white, yellow} {
			c.DisableColor()
		}
	}

	cyan.Fprintf(os.Stderr, `
   ___     __
  / _ \___ / /  __ _____ ___ _______ ____
 / // / -_) _ \/ // / _ %s(_-< __/ _ %s/ _ \
/____/\__/_.__/\_,_/\_, /___/\__/\_,_/_//_/
                   /___/
`, "`", "`")
	dim.Fprintf(os.Stderr, "    debug mode exposure scanner %s\n\n", version.Version)

	dim.Fprintln(os.Stderr, "  ──────────────────────────────────────")
	fmt.Fprintf(os.Stderr, "  %s %s\n", dim.Sprint("Targets:     "), white.Sprint(targetCount))
	fmt.Fprintf(os.Stderr, "  %s %s\n", dim.Sprint("Workers:     "), yellow.Sprint(opts.Workers))
	fmt.Fprintf(os.Stderr, "  %s %s\n", dim.Sprint("Timeout:     "), white.Sprint(opts.Timeout))
	fmt.Fprintf(os.Stderr, "  %s %s\n", dim.Sprint("Fingerprints:"),
		white.Sprintf("%d patterns, %d paths", len(cat.Patterns()), len(cat.Paths())))
	dim.Fprintln(os.Stderr, "  ──────────────────────────────────────")
	fmt.Fprintln(os.Stderr)
}
