// Package hook runs a user-supplied shell command for each vulnerable
// target, feeding it the report as JSON.
package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/projectdiscovery/gologger"

	"github.com/debugscan/debugscan/internal/probe"
)

// Runner executes the --on-finding command for vulnerable targets.
type Runner struct {
	cmd string
}

// NewRunner creates a hook runner for the given shell command.
func NewRunner(cmd string) *Runner {
	return &Runner{cmd: cmd}
}

// Run executes the hook with the target report as JSON on stdin. {url} and
// {count} placeholders in the command are expanded. The command runs with a
// 30-second timeout; failures are logged and never halt the scan.
func (r *Runner) Run(report *probe.TargetReport) {
	data, err := json.Marshal(report)
	if err != nil {
		gologger.Warning().Msgf("hook: marshal report for %s: %s", report.URL, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	expanded := strings.ReplaceAll(r.cmd, "{url}", report.URL)
	expanded = strings.ReplaceAll(expanded, "{count}", strconv.Itoa(len(report.Findings)))

	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, expanded)...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		gologger.Warning().Msgf("hook: %s", err)
		return
	}
	if len(out) > 0 {
		fmt.Fprintf(os.Stderr, "[hook] %s", out)
	}
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
