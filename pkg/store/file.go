package store

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	errs "github.com/matzehuels/gridcalc/pkg/errors"
)

// FileStore is a file-based sheet store for CLI use.
// Sheets are stored as <id>.json files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based sheet store.
// If baseDir is empty, defaults to ~/.config/gridcalc/sheets/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "create store dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

// DefaultDir returns the directory used when no dir is configured.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "get home dir")
	}
	return filepath.Join(home, ".config", "gridcalc", "sheets"), nil
}

func (s *FileStore) sheetPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := errs.ValidateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.sheetPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, backendErr("read", id, err)
	}
	return data, nil
}

func (s *FileStore) Put(ctx context.Context, id string, data []byte) error {
	if err := errs.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.baseDir, "."+id+".*.tmp")
	if err != nil {
		return backendErr("write", id, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return backendErr("write", id, err)
	}
	if err := tmp.Close(); err != nil {
		return backendErr("write", id, err)
	}
	if err := os.Rename(tmp.Name(), s.sheetPath(id)); err != nil {
		return backendErr("write", id, err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errs.ValidateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.sheetPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return backendErr("remove", id, err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeReadWrite, err, "read store dir")
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for sheet files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
