package state

import (
	"bytes"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/storagep2p/protocol"
)

// FileStore persists connection states under a data directory, one file
// per connection named "<hex local>-<hex remote>". Each file holds a gob
// encoded counter pair and is replaced via temp file + rename, so a
// crashed write leaves either the old counters or the new.
type FileStore struct {
	root string
}

// stateRecord is the on-disk representation of a counter pair.
type stateRecord struct {
	RX uint64
	TX uint64
}

// NewFileStore opens (creating if necessary) a directory-backed store.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewFileStore",
		"root":     root,
	}).Debug("Opened file state store")
	return &FileStore{root: root}, nil
}

// stateFileName renders a connection ID as an on-disk file name.
func stateFileName(id protocol.ConnectionID) string {
	return id.Local.String() + "-" + id.Remote.String()
}

// parseStateFileName is the inverse of stateFileName. Foreign files yield
// an error and are skipped by List.
func parseStateFileName(name string) (protocol.ConnectionID, error) {
	localHex, remoteHex, found := strings.Cut(name, "-")
	if !found {
		return protocol.ConnectionID{}, fmt.Errorf("not a state file name: %q", name)
	}

	localRaw, err := hex.DecodeString(localHex)
	if err != nil {
		return protocol.ConnectionID{}, fmt.Errorf("not a state file name: %q", name)
	}
	remoteRaw, err := hex.DecodeString(remoteHex)
	if err != nil {
		return protocol.ConnectionID{}, fmt.Errorf("not a state file name: %q", name)
	}

	local, err := protocol.AddressFromBytes(localRaw)
	if err != nil {
		return protocol.ConnectionID{}, fmt.Errorf("not a state file name: %q", name)
	}
	remote, err := protocol.AddressFromBytes(remoteRaw)
	if err != nil {
		return protocol.ConnectionID{}, fmt.Errorf("not a state file name: %q", name)
	}
	return protocol.ConnectionID{Local: local, Remote: remote}, nil
}

// List returns all connections with a state file, skipping foreign files.
func (f *FileStore) List() ([]protocol.ConnectionID, error) {
	dirents, err := os.ReadDir(f.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list state directory: %w", err)
	}

	var ids []protocol.ConnectionID
	for _, ent := range dirents {
		if ent.IsDir() || strings.HasPrefix(ent.Name(), ".") {
			continue
		}
		id, err := parseStateFileName(ent.Name())
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Load returns the stored state, or the zero state if absent.
func (f *FileStore) Load(id protocol.ConnectionID) (protocol.ConnectionState, error) {
	data, err := os.ReadFile(filepath.Join(f.root, stateFileName(id)))
	if errors.Is(err, fs.ErrNotExist) {
		return protocol.ConnectionState{}, nil
	}
	if err != nil {
		return protocol.ConnectionState{}, fmt.Errorf("failed to read state: %w", err)
	}

	var rec stateRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&rec); err != nil {
		return protocol.ConnectionState{}, fmt.Errorf("failed to decode state: %w", err)
	}
	return protocol.ConnectionState{RX: rec.RX, TX: rec.TX}, nil
}

// Store overwrites the state for a connection via temp file + rename.
func (f *FileStore) Store(id protocol.ConnectionID, s protocol.ConnectionState) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(stateRecord{RX: s.RX, TX: s.TX}); err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(f.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write state: %w", err)
	}

	if err := os.Rename(tmpPath, filepath.Join(f.root, stateFileName(id))); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to commit state: %w", err)
	}
	return nil
}

// Delete removes a connection's state; absence is not an error.
func (f *FileStore) Delete(id protocol.ConnectionID) error {
	err := os.Remove(filepath.Join(f.root, stateFileName(id)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete state: %w", err)
	}
	return nil
}
