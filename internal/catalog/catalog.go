// Package catalog holds the fingerprint dictionary a scan runs against:
// debug-indicator substrings, known debug endpoint paths, and the malformed
// payloads sent during probing. A Catalog is immutable once built.
package catalog

import "strings"

// Catalog is the fingerprint dictionary for one scan. Patterns are stored
// lowercase and iterated in declaration order, so the reported match for a
// given body is stable across runs.
type Catalog struct {
	patterns []string
	paths    []string
	payloads []string
}

// defaultPatterns lists the debug indicators checked against every response
// body, grouped by framework. All entries are lowercase.
var defaultPatterns = []string{
	// Python / Django / Flask
	"disallowedhost at",
	"traceback (most recent call last):",
	"django.template",
	"templatesyntaxerror",
	"werkzeug.exceptions",
	"jinja2.exceptions",
	"exception location:",
	"request method:",
	"request url:",
	"python version:",
	"valueerror:",
	"keyerror:",
	"typeerror:",

	// PHP / Laravel / Symfony / CakePHP
	"phpdebugbar",
	"laravel debugbar",
	"whoops! there was an error",
	"x-debug-token:",
	"symfony web debug toolbar",
	"symfony\\component\\",
	"debugkit",
	"parse error:",
	"fatal error:",
	"stack trace:",
	"in /var/www/",

	// Java
	"struts problem report",
	"java.lang.nullpointerexception",
	"at org.springframework",
	"exceptionreport",

	// Ruby / Rails
	"actioncontroller::routingerror",
	"activerecord::",
	"rails.root:",
	"rack.session",

	// Generic
	"internal server error",
}

// defaultPaths lists known debug endpoints probed relative to each target,
// in probing (and reporting) order.
var defaultPaths = []string{
	"symfony/profiler",
	"_profiler",
	"_profiler/phpinfo",
	"phpinfo.php",
	"info.php",
	"_debugbar",
	"telescope/requests",
	"_ignition/health-check",
	".env",
	"wp-json/wp/v2/debug",
	"wp-content/debug.log",
	"debug/default/view",
	"__debug__",
	"debug/pprof/",
	"actuator",
	"actuator/env",
	"rails/info/routes",
	"elmah.axd",
	"trace.axd",
	"server-status",
}

// defaultPayloads are deliberately broken JSON bodies. Frameworks running
// with debug enabled tend to echo parser stack traces for these.
var defaultPayloads = []string{
	`{"kk":"";`,
	`{"incomplete":true`,
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		patterns: defaultPatterns,
		paths:    defaultPaths,
		payloads: defaultPayloads,
	}
}

// Match reports the first fingerprint contained in body, ignoring case.
func (c *Catalog) Match(body string) (string, bool) {
	if body == "" {
		return "", false
	}
	lower := strings.ToLower(body)
	for _, p := range c.patterns {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}

// Patterns returns the fingerprint substrings in matching order.
func (c *Catalog) Patterns() []string { return c.patterns }

// Paths returns the known debug endpoint paths in probing order.
func (c *Catalog) Paths() []string { return c.paths }

// Payloads returns the malformed JSON bodies sent by the prober.
func (c *Catalog) Payloads() []string { return c.payloads }
