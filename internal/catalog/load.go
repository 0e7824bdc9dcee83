package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Patterns []string `yaml:"patterns"`
	Paths    []string `yaml:"paths"`
	Payloads []string `yaml:"payloads"`
}

// Load builds a catalog from a YAML file. Each section present in the file
// (patterns, paths, payloads) replaces the built-in one; omitted sections
// keep their defaults. Patterns are normalized to lowercase.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing catalog %s: %w", path, err)
	}
	if len(cf.Patterns) == 0 && len(cf.Paths) == 0 && len(cf.Payloads) == 0 {
		return nil, fmt.Errorf("catalog %s defines no patterns, paths or payloads", path)
	}

	c := Default()
	if len(cf.Patterns) > 0 {
		patterns := make([]string, 0, len(cf.Patterns))
		for _, p := range cf.Patterns {
			if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
				patterns = append(patterns, p)
			}
		}
		c.patterns = patterns
	}
	if len(cf.Paths) > 0 {
		paths := make([]string, 0, len(cf.Paths))
		for _, p := range cf.Paths {
			if p = strings.TrimSpace(p); p != "" {
				paths = append(paths, strings.TrimLeft(p, "/"))
			}
		}
		c.paths = paths
	}
	if len(cf.Payloads) > 0 {
		c.payloads = cf.Payloads
	}
	return c, nil
}
