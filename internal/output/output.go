package output

import (
	"time"

	"github.com/debugscan/debugscan/internal/probe"
)

// Stats holds aggregate scan statistics.
type Stats struct {
	Targets       int
	Vulnerable    int
	TotalRequests int64
	Duration      time.Duration
}

// VulnerablePct is the share of scanned targets with findings, 0-100.
func (s Stats) VulnerablePct() float64 {
	if s.Targets == 0 {
		return 0
	}
	return float64(s.Vulnerable) / float64(s.Targets) * 100
}

// RequestsPerSec is the average probe rate over the whole run.
func (s Stats) RequestsPerSec() float64 {
	secs := s.Duration.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.TotalRequests) / secs
}

// Writer is implemented by each output format.
type Writer interface {
	WriteHeader() error
	WriteResult(report *probe.TargetReport) error
	WriteFooter(stats Stats) error
	Close() error
}
