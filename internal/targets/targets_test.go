package targets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/debugscan/debugscan/internal/config"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "targets.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeList(t, `
http://one.example

# a comment
two.example
https://three.example
http://one.example
`)

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := []string{"http://one.example", "http://two.example", "https://three.example"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "http://example.com"},
		{"http://example.com", "http://example.com"},
		{"https://example.com:8443", "https://example.com:8443"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolveMergesSourcesAndDedups(t *testing.T) {
	path := writeList(t, "http://one.example\nhttp://two.example\n")

	opts := &config.Options{
		URL:      "two.example",
		ListFile: path,
	}
	got, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	// -u comes first; the list's duplicate of it is dropped.
	want := []string{"http://two.example", "http://one.example"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveCIDR(t *testing.T) {
	opts := &config.Options{CIDR: "192.0.2.0/30", Ports: []int{80, 8080}}
	got, err := Resolve(opts)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	want := []string{
		"http://192.0.2.1",
		"http://192.0.2.1:8080",
		"http://192.0.2.2",
		"http://192.0.2.2:8080",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveNoTargets(t *testing.T) {
	if _, err := Resolve(&config.Options{}); err == nil {
		t.Fatal("expected error with no targets")
	}
}
