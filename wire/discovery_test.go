package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/storagep2p/protocol"
	"github.com/opd-ai/storagep2p/state"
	"github.com/opd-ai/storagep2p/storage"
)

func TestScanFindsPeersWithPendingTraffic(t *testing.T) {
	a, b := endpointA(t), endpointB(t)
	c, err := protocol.AddressFromBytes([]byte{0x03})
	require.NoError(t, err)

	store := storage.NewMemoryStorage()

	// B and C both have traffic parked for A; A also has outbound traffic
	// to B, which must not count as inbound.
	sendOne := func(local, remote protocol.Address, msg string) {
		t.Helper()
		sender := NewSender(protocol.ConnectionID{Local: local, Remote: remote}, state.NewMemoryStore(), store)
		require.NoError(t, sender.Send([]byte(msg)))
	}
	sendOne(b, a, "from b 0")
	sendOne(c, a, "from c 0")
	sendOne(a, b, "to b 0")

	conns, err := NewDiscovery(store).Scan(a)
	require.NoError(t, err)
	require.Len(t, conns, 2)

	found := make(map[protocol.Address]bool)
	for _, conn := range conns {
		assert.Equal(t, a, conn.Local)
		found[conn.Remote] = true
	}
	assert.True(t, found[b])
	assert.True(t, found[c])
}

func TestScanDeduplicatesPerPeer(t *testing.T) {
	a, b := endpointA(t), endpointB(t)
	store := storage.NewMemoryStorage()
	sender := NewSender(protocol.ConnectionID{Local: b, Remote: a}, state.NewMemoryStore(), store)
	for i := 0; i < 5; i++ {
		require.NoError(t, sender.Send([]byte{byte(i)}))
	}

	conns, err := NewDiscovery(store).Scan(a)
	require.NoError(t, err)
	assert.Len(t, conns, 1)
}

func TestScanIgnoresForeignEntries(t *testing.T) {
	store := storage.NewMemoryStorage()
	require.NoError(t, store.Write([]byte{0xFF, 0x00, 0xDE, 0xAD}, []byte("not a header")))

	conns, err := NewDiscovery(store).Scan(endpointA(t))
	require.NoError(t, err)
	assert.Empty(t, conns)
}

func TestScanOnEmptyStorage(t *testing.T) {
	conns, err := NewDiscovery(storage.NewMemoryStorage()).Scan(endpointA(t))
	require.NoError(t, err)
	assert.Empty(t, conns)
}
