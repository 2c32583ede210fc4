package storage

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrFileNotFound is returned when deleting or resolving an upload that does
// not exist (or a name that tries to escape the uploads directory).
var ErrFileNotFound = errors.New("file not found")

// FileStore keeps uploaded media on disk under one directory, with
// server-assigned unique names. Files are only ever removed by an explicit
// delete; there is no garbage collection.
type FileStore struct {
	UploadsDir string
}

// ResolveStoragePath picks the first candidate directory that can actually
// be created and written to (some runtimes mount read-only paths), probing
// with a throwaway file. Falls back to a directory under the OS temp dir.
func ResolveStoragePath(candidates []string) string {
	for _, dir := range candidates {
		if writable(dir) {
			log.Printf("Using storage path: %s", dir)
			return dir
		}
		log.Printf("Warning: cannot use storage path %s", dir)
	}

	fallback := filepath.Join(os.TempDir(), "rcs-uploads")
	_ = os.MkdirAll(fallback, 0o755)
	log.Printf("Using fallback storage path: %s", fallback)
	return fallback
}

func writable(dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false
	}
	probe := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(probe, []byte("test"), 0o644); err != nil {
		return false
	}
	_ = os.Remove(probe)
	return true
}

func NewFileStore(uploadsDir string) (*FileStore, error) {
	if err := os.MkdirAll(uploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &FileStore{UploadsDir: uploadsDir}, nil
}

// UniqueName assigns a collision-free filename keeping the original
// extension: "<unix-millis>-<random><ext>".
func (s *FileStore) UniqueName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
}

func (s *FileStore) Save(name string, data []byte) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func (s *FileStore) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return err
	}
	return nil
}

func (s *FileStore) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Path resolves a stored filename, rejecting anything that is not a bare
// name inside the uploads directory.
func (s *FileStore) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) {
		return "", ErrFileNotFound
	}
	return filepath.Join(s.UploadsDir, name), nil
}
