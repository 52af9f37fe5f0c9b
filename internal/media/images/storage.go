// Package images stores, decodes and describes the pictures that illustrate book
// categories.
package images

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no blob exists for an image ID.
var ErrNotFound = errors.New("image blob not found")

// Storage keeps image bytes keyed by image ID.
// Metadata (content type, dimensions) lives in the database, not here.
type Storage interface {
	Save(ctx context.Context, id, contentType string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Exists(ctx context.Context, id string) (bool, error)
	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, id string) error
}

// FileStorage keeps blobs as files under a single directory.
// Thread-safe for concurrent operations.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates basePath if needed and returns a storage rooted there.
func NewFileStorage(basePath string) (*FileStorage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}

	return &FileStorage{basePath: basePath}, nil
}

// Save writes the blob for id, replacing any previous content.
func (s *FileStorage) Save(_ context.Context, id, _ string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Write to a temp file first so readers never see a partial image.
	path := s.Path(id)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to move image file into place: %w", err)
	}

	return nil
}

// Get reads the blob for id.
func (s *FileStorage) Get(_ context.Context, id string) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}

	return data, nil
}

// Exists reports whether a blob is stored for id.
func (s *FileStorage) Exists(_ context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat image file: %w", err)
}

// Delete removes the blob for id.
func (s *FileStorage) Delete(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}

	return nil
}

// Path returns the filesystem path of id's blob.
func (s *FileStorage) Path(id string) string {
	return filepath.Join(s.basePath, id+".img")
}

// MemoryStorage keeps blobs in a map. Used by tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStorage returns an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{blobs: make(map[string][]byte)}
}

func (s *MemoryStorage) Save(_ context.Context, id, _ string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[id] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStorage) Get(_ context.Context, id string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return append([]byte(nil), data...), nil
}

func (s *MemoryStorage) Exists(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[id]
	return ok, nil
}

func (s *MemoryStorage) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, id)
	return nil
}

// Len returns the number of stored blobs.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// ETag computes a strong validator for blob bytes.
func ETag(data []byte) string {
	return fmt.Sprintf(`"%x"`, sha256.Sum256(data))
}

func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("ID cannot be empty")
	}
	return nil
}
