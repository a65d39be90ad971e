package kvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Local implements Store using the local filesystem, one file per key.
type Local struct {
	basePath string
}

// NewLocal creates a filesystem-backed store rooted at basePath.
func NewLocal(basePath string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", basePath, err)
	}

	return &Local{basePath: basePath}, nil
}

// Get retrieves the value stored at key.
func (s *Local) Get(ctx context.Context, key string) (string, bool, error) {
	content, err := os.ReadFile(s.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}

	return string(content), true, nil
}

// Set stores value at key, replacing any previous value.
func (s *Local) Set(ctx context.Context, key, value string) error {
	fullPath := s.keyToPath(key)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Write to a temp file and rename so readers never see partial writes
	tmp := fullPath + ".tmp"
	if err := os.WriteFile(tmp, []byte(value), 0644); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	if err := os.Rename(tmp, fullPath); err != nil {
		return fmt.Errorf("failed to commit key %s: %w", key, err)
	}

	return nil
}

// Remove deletes the value stored at key. Missing keys are not an error.
func (s *Local) Remove(ctx context.Context, key string) error {
	if err := os.Remove(s.keyToPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// BasePath returns the base path for this store
func (s *Local) BasePath() string {
	return s.basePath
}

// keyToPath converts a storage key to a filesystem path
func (s *Local) keyToPath(key string) string {
	// Clean the key to prevent path traversal
	cleanKey := filepath.Clean(key)
	cleanKey = strings.ReplaceAll(cleanKey, "..", "")
	cleanKey = strings.TrimPrefix(cleanKey, "/")
	cleanKey = strings.TrimPrefix(cleanKey, "\\")

	return filepath.Join(s.basePath, cleanKey+".json")
}
