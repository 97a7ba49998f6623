// Package jsonfile stores a bundle as a single JSON document on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cognicore/examdex/pkg/examdex/artifact"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
)

// Store reads and writes one JSON file
type Store struct {
	path string
}

// Open returns a store for path. The file need not exist yet.
func Open(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path
func (s *Store) Path() string { return s.path }

// Close implements artifact.Store.
func (s *Store) Close() error { return nil }

// Save writes the bundle through a temporary file so readers never see a
// partial artifact.
func (s *Store) Save(ctx context.Context, b *artifact.Bundle) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Load reads the bundle. A missing file reports ErrNoData.
func (s *Store) Load(ctx context.Context) (*artifact.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s does not exist", internalerr.ErrNoData, s.path)
	}
	if err != nil {
		return nil, err
	}

	var b artifact.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return &b, nil
}
