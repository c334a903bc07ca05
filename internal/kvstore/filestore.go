package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// FileStore persists one pretty-printed JSON file per key under a base
// directory, mirroring the data/ layout the teacher dashboard's operators
// already know how to inspect and back up by hand.
type FileStore struct {
	baseDir string
	log     zerolog.Logger
}

// NewFileStore creates the base directory if needed and returns the store.
func NewFileStore(baseDir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	log.Info().Str("dir", baseDir).Msg("File store ready")

	return &FileStore{
		baseDir: baseDir,
		log:     log.With().Str("component", "filestore").Logger(),
	}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.baseDir, filepath.FromSlash(key)+".json")
}

// Get reads and unmarshals the document at key.
func (s *FileStore) Get(_ context.Context, key string, dst interface{}) error {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// Put writes the document atomically: marshal to a temp file in the target
// directory, then rename over the destination.
func (s *FileStore) Put(_ context.Context, key string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	dest := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", key, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".kv-*.tmp")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", key, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

// Delete removes the document file; missing files are ignored.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// List returns the keys under prefix (a directory in this backend).
func (s *FileStore) List(_ context.Context, prefix string) ([]string, error) {
	dir := filepath.Join(s.baseDir, filepath.FromSlash(prefix))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(prefix, "/")+"/"+strings.TrimSuffix(name, ".json"))
	}
	return keys, nil
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error { return nil }
