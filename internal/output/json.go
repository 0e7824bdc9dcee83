package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/debugscan/debugscan/internal/probe"
)

type jsonReport struct {
	ScanID      string      `json:"scan_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Targets     []jsonEntry `json:"targets"`
	Stats       jsonStats   `json:"stats"`
}

type jsonEntry struct {
	URL        string          `json:"url"`
	Vulnerable bool            `json:"vulnerable"`
	Findings   []probe.Finding `json:"findings"`
}

type jsonStats struct {
	Targets       int     `json:"targets"`
	Vulnerable    int     `json:"vulnerable"`
	VulnerablePct float64 `json:"vulnerable_pct"`
	Requests      int64   `json:"requests"`
	DurationSec   float64 `json:"duration_sec"`
}

// JSONWriter buffers every target report and emits a single envelope with a
// scan id and aggregate stats on WriteFooter.
type JSONWriter struct {
	w       io.Writer
	closer  io.Closer
	entries []jsonEntry
}

// NewJSONWriter creates a JSON output writer.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		closer = f
	}
	return &JSONWriter{w: w, closer: closer}, nil
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteResult(report *probe.TargetReport) error {
	findings := report.Findings
	if findings == nil {
		findings = []probe.Finding{}
	}
	j.entries = append(j.entries, jsonEntry{
		URL:        report.URL,
		Vulnerable: report.Vulnerable(),
		Findings:   findings,
	})
	return nil
}

func (j *JSONWriter) WriteFooter(stats Stats) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{
		ScanID:      uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Targets:     j.entries,
		Stats: jsonStats{
			Targets:       stats.Targets,
			Vulnerable:    stats.Vulnerable,
			VulnerablePct: stats.VulnerablePct(),
			Requests:      stats.TotalRequests,
			DurationSec:   stats.Duration.Seconds(),
		},
	})
}

func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
