// Package resume checkpoints which targets a scan has finished so an
// interrupted run can pick up where it stopped.
package resume

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// State tracks completed targets for one scan. It is keyed by a checksum of
// the full target list: a saved state only applies to a later run over the
// exact same list.
type State struct {
	Checksum  string   `json:"checksum"`
	Completed []string `json:"completed"`
	Total     int      `json:"total"`

	mu   sync.Mutex
	path string
	done map[string]struct{}
}

// Checksum fingerprints a target list for resume matching.
func Checksum(targets []string) string {
	sum := md5.Sum([]byte(strings.Join(targets, "\n")))
	return hex.EncodeToString(sum[:])
}

// New creates an empty state saved to path.
func New(path, checksum string, total int) *State {
	return &State{
		Checksum: checksum,
		Total:    total,
		path:     path,
		done:     make(map[string]struct{}),
	}
}

// Load reads a saved state from disk. A missing file is not an error and
// returns nil.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading resume file: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing resume file: %w", err)
	}

	s.path = path
	s.done = make(map[string]struct{}, len(s.Completed))
	for _, target := range s.Completed {
		s.done[target] = struct{}{}
	}
	return &s, nil
}

// MarkCompleted records a finished target. Safe for concurrent use.
func (s *State) MarkCompleted(target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.done[target]; !ok {
		s.done[target] = struct{}{}
		s.Completed = append(s.Completed, target)
	}
}

// FilterRemaining returns the targets not yet completed, in input order.
func (s *State) FilterRemaining(targets []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var remaining []string
	for _, target := range targets {
		if _, ok := s.done[target]; !ok {
			remaining = append(remaining, target)
		}
	}
	return remaining
}

// Save writes the state to disk.
func (s *State) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("serializing resume state: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

// Remove deletes the resume file, called when a scan runs to completion.
func (s *State) Remove() error {
	return os.Remove(s.path)
}
