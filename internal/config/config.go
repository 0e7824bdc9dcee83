package config

import "time"

// Options holds all configuration for a debugscan run.
type Options struct {
	// Target
	URL         string
	ListFile    string // newline-delimited target URLs
	CIDR        string
	Ports       []int // applied during CIDR expansion
	CatalogFile string // empty = built-in fingerprint catalog

	// Performance
	Workers int
	Timeout time.Duration

	// Probe behavior
	MaxBodyBytes    int64
	FollowRedirects bool

	// Output
	OutputFile   string
	OutputFormat string // "text", "json", "csv"
	Quiet        bool
	NoColor      bool
	Verbose      bool
	Silent       bool

	// HTTP
	Headers   map[string]string
	UserAgent string
	Proxy     string

	// Operations
	ResumeFile   string
	OnFindingCmd string
}
