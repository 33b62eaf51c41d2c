package wire

import (
	"errors"
	"fmt"

	"github.com/opd-ai/storagep2p/protocol"
	"github.com/opd-ai/storagep2p/state"
	"github.com/opd-ai/storagep2p/storage"
)

// Viewer is the read-only capability over the inbound direction of one
// connection. It never mutates counters or storage.
type Viewer struct {
	conn   protocol.ConnectionID
	states state.Store
	store  storage.Storage
}

// NewViewer binds a viewer to a connection, a state store and a storage.
func NewViewer(conn protocol.ConnectionID, states state.Store, store storage.Storage) *Viewer {
	return &Viewer{conn: conn, states: states, store: store}
}

// inboundName derives the entry name of the inbound message at counter.
func (v *Viewer) inboundName(counter uint64) []byte {
	return protocol.EncodeHeader(protocol.MessageHeader{
		Sender:   v.conn.Remote,
		Receiver: v.conn.Local,
		Counter:  counter,
	})
}

// Peek returns the message at logical offset rx+nth if it is already
// present in the storage. ok is false when the slot is still empty; that
// is not an error.
func (v *Viewer) Peek(nth uint64) (msg []byte, ok bool, err error) {
	st, err := v.states.Load(v.conn)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load connection state: %w", err)
	}

	msg, err = v.store.Read(v.inboundName(st.RX + nth))
	if errors.Is(err, storage.ErrEntryNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return msg, true, nil
}

// Pending returns how many inbound messages are ready for consumption:
// the smallest k such that the message at rx+k is absent, probed against
// one List snapshot.
func (v *Viewer) Pending() (uint64, error) {
	st, err := v.states.Load(v.conn)
	if err != nil {
		return 0, fmt.Errorf("failed to load connection state: %w", err)
	}
	names, err := v.store.List()
	if err != nil {
		return 0, err
	}

	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[string(name)] = struct{}{}
	}

	var k uint64
	for {
		if _, ok := present[string(v.inboundName(st.RX + k))]; !ok {
			return k, nil
		}
		k++
	}
}
