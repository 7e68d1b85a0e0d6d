package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"arxivdigest/internal/ports"
)

// SeenFile persists the set of delivered paper identifiers as a JSON
// array of strings. A missing file means an empty set; the set only
// grows unless the file is reset externally.
type SeenFile struct {
	path string
}

var _ ports.SeenStore = (*SeenFile)(nil)

// NewSeenFile points the store at path without touching the file.
func NewSeenFile(path string) *SeenFile {
	return &SeenFile{path: path}
}

// Load reads the identifier set; absent file yields an empty set.
func (s *SeenFile) Load() (map[string]bool, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seen file: %w", err)
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("parse seen file: %w", err)
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	return seen, nil
}

// Save writes the set back sorted and pretty-printed.
func (s *SeenFile) Save(seen map[string]bool) error {
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	raw, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("encode seen file: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("write seen file: %w", err)
	}
	return nil
}
