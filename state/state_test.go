package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/storagep2p/protocol"
)

func testConnection(t *testing.T, local, remote byte) protocol.ConnectionID {
	t.Helper()
	l, err := protocol.AddressFromBytes([]byte{local})
	require.NoError(t, err)
	r, err := protocol.AddressFromBytes([]byte{remote})
	require.NoError(t, err)
	return protocol.ConnectionID{Local: l, Remote: r}
}

// storeUnderTest runs the shared Store contract suite against an
// implementation.
func storeUnderTest(t *testing.T, store Store) {
	conn := testConnection(t, 0x01, 0x02)

	// Absent entries load as the zero state.
	s, err := store.Load(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.ConnectionState{}, s)

	ids, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, ids)

	// Store and load back.
	require.NoError(t, store.Store(conn, protocol.ConnectionState{RX: 3, TX: 5}))
	s, err = store.Load(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.ConnectionState{RX: 3, TX: 5}, s)

	ids, err = store.List()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, conn, ids[0])

	// The reverse direction is a distinct connection.
	s, err = store.Load(conn.Reverse())
	require.NoError(t, err)
	assert.Equal(t, protocol.ConnectionState{}, s)

	// Overwrite.
	require.NoError(t, store.Store(conn, protocol.ConnectionState{RX: 4, TX: 5}))
	s, err = store.Load(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.ConnectionState{RX: 4, TX: 5}, s)

	// Delete returns the connection to the zero state; repeat is a no-op.
	require.NoError(t, store.Delete(conn))
	require.NoError(t, store.Delete(conn))
	s, err = store.Load(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.ConnectionState{}, s)

	ids, err = store.List()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestMemoryStoreContract(t *testing.T) {
	storeUnderTest(t, NewMemoryStore())
}

func TestFileStoreContract(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	storeUnderTest(t, store)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	root := t.TempDir()
	conn := testConnection(t, 0x0A, 0x0B)

	store, err := NewFileStore(root)
	require.NoError(t, err)
	require.NoError(t, store.Store(conn, protocol.ConnectionState{RX: 11, TX: 22}))

	reopened, err := NewFileStore(root)
	require.NoError(t, err)
	s, err := reopened.Load(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.ConnectionState{RX: 11, TX: 22}, s)

	ids, err := reopened.List()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, conn, ids[0])
}

func TestFileStoreSkipsForeignFiles(t *testing.T) {
	root := t.TempDir()
	store, err := NewFileStore(root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hi"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".tmp-999"), []byte("wip"), 0o600))
	require.NoError(t, store.Store(testConnection(t, 0x01, 0x02), protocol.ConnectionState{TX: 1}))

	ids, err := store.List()
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}
