package storage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// DirStorage keeps one file per entry under a root directory, for
// endpoints that share a filesystem (a mounted cloud folder, an NFS
// share). Entry names are stored as their unpadded URL-safe Base64
// rendering; files whose name is not valid Base64 are treated as foreign
// and skipped by List.
//
// Write goes through a temporary file followed by a rename, which gives
// the atomic create-or-replace the protocol requires on POSIX
// filesystems.
type DirStorage struct {
	root string
}

// NewDirStorage opens (creating if necessary) a directory-backed storage.
func NewDirStorage(root string) (*DirStorage, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewDirStorage",
		"root":     root,
	}).Debug("Opened directory storage")
	return &DirStorage{root: root}, nil
}

// fileName renders an entry name as an on-disk file name.
func fileName(name []byte) string {
	return base64.RawURLEncoding.EncodeToString(name)
}

// List enumerates all entries, skipping foreign and in-flight files.
func (d *DirStorage) List() ([][]byte, error) {
	dirents, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage directory: %w", err)
	}

	var names [][]byte
	for _, ent := range dirents {
		if ent.IsDir() || strings.HasPrefix(ent.Name(), ".") {
			continue
		}
		name, err := base64.RawURLEncoding.DecodeString(ent.Name())
		if err != nil {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

// Read returns the entry data, or ErrEntryNotFound.
func (d *DirStorage) Read(name []byte) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.root, fileName(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read entry: %w", err)
	}
	return data, nil
}

// Write atomically creates or replaces an entry via temp file + rename.
func (d *DirStorage) Write(name, data []byte) error {
	if len(name) > MaxNameSize {
		return ErrNameTooLong
	}

	tmp, err := os.CreateTemp(d.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write entry: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(d.root, fileName(name))); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to commit entry: %w", err)
	}
	return nil
}

// Delete removes an entry; absence is not an error.
func (d *DirStorage) Delete(name []byte) error {
	err := os.Remove(filepath.Join(d.root, fileName(name)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}
