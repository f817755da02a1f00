package tags

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Entry describes one tagged video.
type Entry struct {
	Path              string `json:"path"`
	PresenterQuadrant string `json:"presenter-quadrant"`
	SlidesQuadrant    string `json:"slides-quadrant"`
}

// Store is an immutable snapshot of the tag file.
type Store struct {
	entries map[string]Entry
}

// Load reads and parses a tag file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tags file: %w", err)
	}

	entries := make(map[string]Entry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse tags file: %w", err)
	}

	return &Store{entries: entries}, nil
}

// Lookup returns the entry for a video filename.
func (s *Store) Lookup(name string) (Entry, bool) {
	entry, ok := s.entries[name]
	return entry, ok
}

// Len returns the number of tagged videos.
func (s *Store) Len() int {
	return len(s.entries)
}

// References returns the names of videos whose source path contains the
// given marker substring, sorted for deterministic batch order. An empty
// marker selects every tagged video.
func (s *Store) References(marker string) []string {
	names := make([]string, 0, len(s.entries))
	for name, entry := range s.entries {
		if marker != "" && !strings.Contains(entry.Path, marker) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
