package output

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/debugscan/debugscan/internal/probe"
)

// CSVWriter emits one row per finding. Clean targets produce no rows: the
// CSV format exists to filter findings, not to list every target.
type CSVWriter struct {
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter creates a CSV output writer.
func NewCSVWriter(outputFile string) (*CSVWriter, error) {
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
	return &CSVWriter{w: csv.NewWriter(w), closer: closer}, nil
}

func (c *CSVWriter) WriteHeader() error {
	return c.w.Write([]string{"url", "technique", "fingerprint"})
}

func (c *CSVWriter) WriteResult(report *probe.TargetReport) error {
	for _, f := range report.Findings {
		if err := c.w.Write([]string{report.URL, f.Technique, f.Fingerprint}); err != nil {
			return err
		}
	}
	return nil
}

func (c *CSVWriter) WriteFooter(_ Stats) error {
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) Close() error {
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}
