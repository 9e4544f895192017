// Package store provides the durable results file for pipeline runs.
// The file is rewritten after every completed step so that a crash mid
// pipeline leaves a recoverable partial record.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conveyor/conveyor/pkg/results"
	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// ErrStoreLocked indicates another process holds the results file
var ErrStoreLocked = errors.New("results store is locked by another process")

// ResultsStore persists a WorkflowResult as a YAML document at a fixed
// destination. The store assumes single-writer discipline, guarded by
// an advisory file lock.
type ResultsStore struct {
	path string
	lock *flock.Flock
}

// New creates a store for the given destination path
func New(path string) *ResultsStore {
	return &ResultsStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

// Path returns the destination path of the results file
func (s *ResultsStore) Path() string {
	return s.path
}

// Lock acquires the single-writer lock without blocking. It fails with
// ErrStoreLocked when another process holds the destination.
func (s *ResultsStore) Lock() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create results directory: %w", err)
	}
	got, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire results lock: %w", err)
	}
	if !got {
		return ErrStoreLocked
	}
	return nil
}

// Unlock releases the single-writer lock
func (s *ResultsStore) Unlock() error {
	return s.lock.Unlock()
}

// Save atomically writes the record to the destination
func (s *ResultsStore) Save(w *results.WorkflowResult) error {
	data, err := yaml.Marshal(w.Document())
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	// Write atomically
	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	if err := os.Rename(tempFile, s.path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename results file: %w", err)
	}

	return nil
}

// Load reads the record back from the destination. It returns nil when
// no results file exists yet. Reconstructed entries compare equal to
// the originals field for field.
func (s *ResultsStore) Load() (*results.WorkflowResult, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read results file: %w", err)
	}

	var doc results.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse results file: %w", err)
	}

	return results.FromDocument(doc), nil
}
