// Package cmd defines the debugscan command-line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/debugscan/debugscan/internal/config"
	"github.com/debugscan/debugscan/internal/runner"
	"github.com/debugscan/debugscan/pkg/version"
)

var opts config.Options

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"TARGET", []string{"url", "list", "cidr", "ports"}},
	{"PROBES", []string{"workers", "timeout", "max-body", "catalog", "follow-redirects"}},
	{"HTTP", []string{"header", "user-agent", "proxy"}},
	{"OUTPUT", []string{"output", "format", "quiet", "no-color", "verbose", "silent"}},
	{"OPERATIONS", []string{"resume", "on-finding"}},
}

var rootCmd = &cobra.Command{
	Use:     "debugscan -u <url> [flags]",
	Short:   "Detect web applications running with debug mode exposed",
	Version: version.Version,
	Long: `debugscan probes web applications for exposed debug modes: stack traces,
framework debug toolbars, and diagnostic endpoints leaked to
unauthenticated clients. Each target gets a fixed battery of HTTP probes
whose responses are matched against a fingerprint catalog.`,
	Example: `  debugscan -u https://example.com
  debugscan -l targets.txt -w 50
  debugscan -u https://example.com --format json -o report.json
  debugscan --cidr 192.168.1.0/24 --ports 80,8080
  debugscan -l targets.txt --resume scan.state
  debugscan -u https://example.com --on-finding "notify-send {url}"`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if opts.URL == "" && opts.ListFile == "" && opts.CIDR == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("target required: use -u, -l, or --cidr")
		}
		if opts.URL != "" && !strings.HasPrefix(opts.URL, "http://") && !strings.HasPrefix(opts.URL, "https://") {
			opts.URL = "http://" + opts.URL
		}
		if opts.Workers <= 0 {
			return fmt.Errorf("--workers must be greater than 0")
		}
		if opts.OutputFormat != "text" && opts.OutputFormat != "json" && opts.OutputFormat != "csv" {
			return fmt.Errorf("--format must be one of: text, json, csv")
		}
		switch {
		case opts.Silent:
			gologger.DefaultLogger.SetMaxLevel(levels.LevelError)
		case opts.Verbose:
			gologger.DefaultLogger.SetMaxLevel(levels.LevelDebug)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	f := rootCmd.Flags()

	// Target
	f.StringVarP(&opts.URL, "url", "u", "", "Target URL")
	f.StringVarP(&opts.ListFile, "list", "l", "", "File with one target URL per line")
	f.StringVar(&opts.CIDR, "cidr", "", "CIDR range to scan (e.g. 192.168.1.0/24)")
	f.Var(&intSliceValue{target: &opts.Ports}, "ports", "Ports for CIDR targets (comma-separated, e.g. 80,8080)")

	// Probes
	f.IntVarP(&opts.Workers, "workers", "w", 20, "Number of concurrent connections")
	f.DurationVar(&opts.Timeout, "timeout", 5*time.Second, "HTTP request timeout")
	f.Int64Var(&opts.MaxBodyBytes, "max-body", 1<<20, "Maximum response body bytes to read")
	f.StringVar(&opts.CatalogFile, "catalog", "", "YAML file overriding fingerprint patterns/paths/payloads")
	f.BoolVar(&opts.FollowRedirects, "follow-redirects", true, "Follow HTTP redirects")

	// HTTP
	f.StringSliceVarP(new([]string), "header", "H", nil, "Custom headers (Key: Value)")
	f.StringVar(&opts.UserAgent, "user-agent", "", "Custom User-Agent string")
	f.StringVar(&opts.Proxy, "proxy", "", "HTTP/SOCKS proxy URL")

	// Output
	f.StringVarP(&opts.OutputFile, "output", "o", "", "Output file path")
	f.StringVar(&opts.OutputFormat, "format", "text", "Output format: text, json, csv")
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Suppress banner, progress, and clean-target lines")
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug-level logging")
	f.BoolVar(&opts.Silent, "silent", false, "Errors only")

	// Operations
	f.StringVar(&opts.ResumeFile, "resume", "", "File to save/load scan progress for resume")
	f.StringVar(&opts.OnFindingCmd, "on-finding", "", "Shell command to run per vulnerable target (receives JSON on stdin)")

	// Custom help: categorized flags like httpx.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})

	// Parse headers from string slice into map in PreRun.
	rootCmd.PreRunE = chainPreRun(rootCmd.PreRunE, func(cmd *cobra.Command, args []string) error {
		headers, _ := f.GetStringSlice("header")
		if len(headers) > 0 {
			opts.Headers = make(map[string]string, len(headers))
			for _, h := range headers {
				parts := strings.SplitN(h, ":", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid header format %q, expected 'Key: Value'", h)
				}
				opts.Headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
			}
		}
		return nil
	})

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// chainPreRun combines two PreRunE functions.
func chainPreRun(first, second func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if first != nil {
			if err := first(cmd, args); err != nil {
				return err
			}
		}
		return second(cmd, args)
	}
}

// intSliceValue implements pflag.Value for comma-separated int slices.
type intSliceValue struct {
	target *[]int
}

func (v *intSliceValue) String() string {
	if v.target == nil || len(*v.target) == 0 {
		return ""
	}
	parts := make([]string, len(*v.target))
	for i, val := range *v.target {
		parts[i] = strconv.Itoa(val)
	}
	return strings.Join(parts, ",")
}

func (v *intSliceValue) Set(s string) error {
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", p, err)
		}
		*v.target = append(*v.target, n)
	}
	return nil
}

func (v *intSliceValue) Type() string { return "ints" }

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
   ___     __
  / _ \___ / /  __ _____ ___ _______ ____
 / // / -_) _ \/ // / _ %s(_-< __/ _ %s/ _ \
/____/\__/_.__/\_,_/\_, /___/\__/\_,_/_//_/
                   /___/               %s

`, "`", "`", ver)
}
