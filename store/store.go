// Package store implements the cloud file-store collaborator: a
// session-scoped client that reads and writes named text blobs inside a
// named folder.
//
// The backing storage is any hackpadfs filesystem, so the same client
// runs against an in-memory fs in tests and an OS (or remote) fs in
// production. The folder and its files are created on first write.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/hack-pad/hackpadfs"
)

// Store errors.
var (
	// ErrEmptyFolder is returned when connecting without a folder name.
	ErrEmptyFolder = errors.New("store: empty folder name")

	// ErrEmptyName is returned for blob operations without a name.
	ErrEmptyName = errors.New("store: empty blob name")
)

// Store is a handle to one folder of named text blobs. Obtain it once per
// session via Connect.
type Store struct {
	fsys   hackpadfs.FS
	folder string
}

// Connect performs the once-per-session handshake against the backing
// filesystem and returns a handle scoped to the named folder. The folder
// itself is not created until the first Put.
func Connect(fsys hackpadfs.FS, folder string) (*Store, error) {
	if folder == "" {
		return nil, ErrEmptyFolder
	}
	// Probe the filesystem root so misconfiguration surfaces here, at
	// session setup, instead of on the first blob operation.
	if _, err := hackpadfs.Stat(fsys, "."); err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	return &Store{fsys: fsys, folder: folder}, nil
}

// Folder returns the folder name the store is scoped to.
func (s *Store) Folder() string {
	return s.folder
}

// Put writes a named text blob, creating the folder and the file as
// needed and truncating any previous content.
func (s *Store) Put(name, text string) error {
	if name == "" {
		return ErrEmptyName
	}
	if err := hackpadfs.MkdirAll(s.fsys, s.folder, 0o755); err != nil {
		return fmt.Errorf("store: create folder %q: %w", s.folder, err)
	}

	f, err := hackpadfs.OpenFile(s.fsys, path.Join(s.folder, name),
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("store: open %q: %w", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := hackpadfs.WriteFile(f, []byte(text)); err != nil {
		return fmt.Errorf("store: write %q: %w", name, err)
	}
	return nil
}

// Get reads a named text blob.
func (s *Store) Get(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyName
	}
	f, err := s.fsys.Open(path.Join(s.folder, name))
	if err != nil {
		return "", fmt.Errorf("store: open %q: %w", name, err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("store: read %q: %w", name, err)
	}
	return string(data), nil
}
