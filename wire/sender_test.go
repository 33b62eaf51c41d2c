package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/storagep2p/protocol"
	"github.com/opd-ai/storagep2p/state"
	"github.com/opd-ai/storagep2p/storage"
)

// endpointA / endpointB are the fixed addresses of the test peers.
func endpointA(t *testing.T) protocol.Address {
	t.Helper()
	addr, err := protocol.AddressFromBytes(bytes.Repeat([]byte{0x01}, protocol.MaxAddressSize))
	require.NoError(t, err)
	return addr
}

func endpointB(t *testing.T) protocol.Address {
	t.Helper()
	addr, err := protocol.AddressFromBytes(bytes.Repeat([]byte{0x02}, protocol.MaxAddressSize))
	require.NoError(t, err)
	return addr
}

func TestSendStoresUnderDeterministicName(t *testing.T) {
	a, b := endpointA(t), endpointB(t)
	conn := protocol.ConnectionID{Local: a, Remote: b}
	states := state.NewMemoryStore()
	store := storage.NewMemoryStorage()

	sender := NewSender(conn, states, store)
	require.NoError(t, sender.Send([]byte("hello")))

	// The entry lives under the encoded header (A, B, 0).
	name := protocol.EncodeHeader(protocol.MessageHeader{Sender: a, Receiver: b, Counter: 0})
	data, err := store.Read(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	st, err := states.Load(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.ConnectionState{RX: 0, TX: 1}, st)
}

func TestSendAdvancesCounterByOnePerSuccess(t *testing.T) {
	conn := protocol.ConnectionID{Local: endpointA(t), Remote: endpointB(t)}
	states := state.NewMemoryStore()
	store := storage.NewMemoryStorage()
	sender := NewSender(conn, states, store)

	for i := 0; i < 5; i++ {
		require.NoError(t, sender.Send([]byte{byte(i)}))
		st, err := states.Load(conn)
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), st.TX)
	}
	assert.Equal(t, 5, store.Len())
}

func TestSendIsIdempotentOnError(t *testing.T) {
	conn := protocol.ConnectionID{Local: endpointA(t), Remote: endpointB(t)}
	states := state.NewMemoryStore()
	inner := storage.NewMemoryStorage()
	faulty := storage.NewFaultyStorage(inner, 0, 1)
	sender := NewSender(conn, states, faulty)

	faulty.FailNext(1)
	assert.ErrorIs(t, sender.Send([]byte("m1")), storage.ErrInjectedFault)

	// Neither the storage nor the counter advanced.
	assert.Zero(t, inner.Len())
	st, err := states.Load(conn)
	require.NoError(t, err)
	assert.Zero(t, st.TX)
}

func TestSendRetryAfterInjectedFailures(t *testing.T) {
	conn := protocol.ConnectionID{Local: endpointA(t), Remote: endpointB(t)}
	states := state.NewMemoryStore()
	inner := storage.NewMemoryStorage()
	faulty := storage.NewFaultyStorage(inner, 0, 1)
	sender := NewSender(conn, states, faulty)

	// The first two attempts fail, the third succeeds.
	faulty.FailNext(2)
	var attempts int
	for {
		attempts++
		if err := sender.Send([]byte("m1")); err == nil {
			break
		}
	}
	assert.Equal(t, 3, attempts)

	st, err := states.Load(conn)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), st.TX)
	assert.Equal(t, 1, inner.Len())

	name := protocol.EncodeHeader(protocol.MessageHeader{
		Sender: conn.Local, Receiver: conn.Remote, Counter: 0,
	})
	data, err := inner.Read(name)
	require.NoError(t, err)
	assert.Equal(t, []byte("m1"), data)
}
