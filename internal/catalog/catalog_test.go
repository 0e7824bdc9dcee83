package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMatchCaseInsensitive(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"lowercase", "something phpdebugbar something", "phpdebugbar"},
		{"uppercase", "<HTML>PHPDEBUGBAR</HTML>", "phpdebugbar"},
		{"mixed case", "Traceback (Most Recent Call Last): ...", "traceback (most recent call last):"},
		{"embedded", `{"error":"java.lang.NullPointerException at Foo"}`, "java.lang.nullpointerexception"},
		{"windows path marker", "Warning: include() in /VAR/WWW/app.php", "in /var/www/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Match(tt.body)
			if !ok {
				t.Fatalf("Match(%q) = no match, want %q", tt.body, tt.want)
			}
			if got != tt.want {
				t.Errorf("Match(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestMatchNoFingerprint(t *testing.T) {
	c := Default()

	bodies := []string{
		"",
		"<html><body>Welcome to our shop</body></html>",
		"APP_DEBUG=true", // config value, not a registered fingerprint
	}

	for _, body := range bodies {
		if got, ok := c.Match(body); ok {
			t.Errorf("Match(%q) = %q, want no match", body, got)
		}
	}
}

func TestMatchFirstPatternWins(t *testing.T) {
	c := Default()
	patterns := c.Patterns()
	if len(patterns) < 10 {
		t.Fatalf("unexpectedly small catalog: %d patterns", len(patterns))
	}

	// Body contains a later pattern before an earlier one; catalog order
	// decides the winner, not position in the body.
	body := patterns[7] + " and then " + patterns[2]
	for i := 0; i < 50; i++ {
		got, ok := c.Match(body)
		if !ok {
			t.Fatal("expected a match")
		}
		if got != patterns[2] {
			t.Fatalf("iteration %d: Match = %q, want %q", i, got, patterns[2])
		}
	}
}

func TestDefaultCatalogShape(t *testing.T) {
	c := Default()

	if len(c.Paths()) != 20 {
		t.Errorf("expected 20 debug paths, got %d", len(c.Paths()))
	}
	if len(c.Payloads()) != 2 {
		t.Errorf("expected 2 malformed payloads, got %d", len(c.Payloads()))
	}
	for _, p := range c.Patterns() {
		if p != strings.ToLower(p) {
			t.Errorf("pattern %q is not lowercase", p)
		}
	}
	for _, p := range c.Paths() {
		if strings.HasPrefix(p, "/") {
			t.Errorf("path %q should be relative (no leading slash)", p)
		}
	}
}

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadReplacesProvidedSections(t *testing.T) {
	path := writeCatalogFile(t, `
patterns:
  - "Custom Marker:"
  - "  AnotherOne  "
paths:
  - /debug-console
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := c.Patterns(); len(got) != 2 || got[0] != "custom marker:" || got[1] != "anotherone" {
		t.Errorf("patterns not replaced/normalized: %v", got)
	}
	if got := c.Paths(); len(got) != 1 || got[0] != "debug-console" {
		t.Errorf("paths not replaced/trimmed: %v", got)
	}
	// Payloads section omitted, defaults kept.
	if got := c.Payloads(); len(got) != len(Default().Payloads()) {
		t.Errorf("payloads should keep defaults, got %v", got)
	}

	if _, ok := c.Match("xx CUSTOM MARKER: yy"); !ok {
		t.Error("loaded pattern should match case-insensitively")
	}
	if _, ok := c.Match("phpdebugbar"); ok {
		t.Error("default patterns should be gone after replacement")
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := writeCatalogFile(t, "patterns: [unterminated")
	if _, err := Load(bad); err == nil {
		t.Error("expected error for invalid YAML")
	}

	empty := writeCatalogFile(t, "# nothing here\n")
	if _, err := Load(empty); err == nil {
		t.Error("expected error for catalog with no sections")
	}
}
