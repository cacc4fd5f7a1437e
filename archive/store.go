package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrCorrupt reports a document that does not parse as JSON at all.
// Callers that scrape decide whether to start over from empty;
// callers that update existing records must treat it as fatal.
var ErrCorrupt = errors.New("archive is not valid JSON")

// Store reads and writes the archive document at a fixed path. Writers
// hold an advisory lock for the whole read-merge-write cycle so two
// maintenance programs cannot interleave their rewrites.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore returns a store for the document at path, creating the
// parent directory if needed.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the document location on disk.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the document is already on disk.
func (s *Store) Exists() bool {
	info, err := os.Stat(s.path)
	return err == nil && info.Mode().IsRegular()
}

// Lock takes the advisory lock guarding the document, blocking until
// it is free. The lock lives in a sidecar file next to the document.
func (s *Store) Lock() error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("failed to lock archive: %w", err)
	}
	return nil
}

// Unlock releases the advisory lock.
func (s *Store) Unlock() error {
	return s.lock.Unlock()
}

// Load reads the document. A missing file is an empty document, not an
// error. A file that does not parse wraps ErrCorrupt.
func (s *Store) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive %s: %w", s.path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.path, err)
	}
	return &doc, nil
}

// Save writes the document pretty-printed with both arrays present.
func (s *Store) Save(doc *Document) error {
	doc.normalize()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal archive: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write archive %s: %w", s.path, err)
	}
	return nil
}
