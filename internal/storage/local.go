package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStorage keeps avatars on the local filesystem. It is meant for
// single-node deployments and development; a cloud-bucket implementation
// can replace it behind the same interface.
type LocalStorage struct {
	avatarsDir string
}

func NewLocalStorage(uploadsDir string) (*LocalStorage, error) {
	avatarsDir := filepath.Join(uploadsDir, "avatars")
	if err := os.MkdirAll(avatarsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create avatars directory: %w", err)
	}
	return &LocalStorage{avatarsDir: avatarsDir}, nil
}

// path resolves key inside the avatars directory. Keys are generated
// server-side, but stripping to the base name keeps a stray "../" from
// ever escaping the directory.
func (s *LocalStorage) path(key string) string {
	return filepath.Join(s.avatarsDir, filepath.Base(key))
}

func (s *LocalStorage) Save(key string, r io.Reader) error {
	f, err := os.Create(s.path(key))
	if err != nil {
		return fmt.Errorf("failed to create avatar file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return fmt.Errorf("failed to write avatar file: %w", err)
	}
	return f.Close()
}

func (s *LocalStorage) Open(key string) (io.ReadCloser, error) {
	return os.Open(s.path(key))
}

func (s *LocalStorage) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete avatar file: %w", err)
	}
	return nil
}
