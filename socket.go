package storagep2p

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/storagep2p/protocol"
	"github.com/opd-ai/storagep2p/state"
	"github.com/opd-ai/storagep2p/storage"
	"github.com/opd-ai/storagep2p/wire"
)

// Socket bundles a state store and a blob storage into the per-endpoint
// API: every operation takes the connection it acts on, and the wire
// components are derived on the fly.
//
// A Socket itself holds no mutable state; all state lives in the two
// backends. Callers must serialize concurrent operations that touch the
// same (connection, direction) pair; anything else may run concurrently.
type Socket struct {
	states state.Store
	store  storage.Storage
}

// NewSocket creates a socket over a state store and a storage.
func NewSocket(states state.Store, store storage.Storage) *Socket {
	return &Socket{states: states, store: store}
}

// Send writes msg as the next outgoing message on conn.
func (s *Socket) Send(conn protocol.ConnectionID, msg []byte) error {
	return wire.NewSender(conn, s.states, s.store).Send(msg)
}

// Peek returns the inbound message at logical offset rx+nth on conn, if
// present. It never consumes.
func (s *Socket) Peek(conn protocol.ConnectionID, nth uint64) ([]byte, bool, error) {
	return wire.NewViewer(conn, s.states, s.store).Peek(nth)
}

// Pending returns how many inbound messages on conn are ready for
// consumption.
func (s *Socket) Pending(conn protocol.ConnectionID) (uint64, error) {
	return wire.NewViewer(conn, s.states, s.store).Pending()
}

// CanReceive reports whether the next inbound message on conn is already
// present in the storage.
func (s *Socket) CanReceive(conn protocol.ConnectionID) (bool, error) {
	_, ok, err := s.Peek(conn, 0)
	return ok, err
}

// Receive fetches and consumes the next inbound message on conn. If no
// message is pending it returns storage.ErrEntryNotFound.
func (s *Socket) Receive(conn protocol.ConnectionID) ([]byte, error) {
	return wire.NewReceiver(conn, s.states, s.store).Receive()
}

// ReceiveFunc consumes the next inbound message on conn through fn,
// advancing the counter only when fn returns nil.
func (s *Socket) ReceiveFunc(conn protocol.ConnectionID, fn func(msg []byte) error) error {
	return wire.NewReceiver(conn, s.states, s.store).ReceiveFunc(fn)
}

// GC reclaims consumed inbound entries on conn.
func (s *Socket) GC(conn protocol.ConnectionID) error {
	return wire.NewReceiver(conn, s.states, s.store).GC()
}

// Connections returns the connections known to the local state store.
func (s *Socket) Connections() ([]protocol.ConnectionID, error) {
	return s.states.List()
}

// Discover returns the union of the locally known connections and a
// fresh storage scan for traffic addressed to local: every connection
// this endpoint has state for, plus every peer with pending messages.
func (s *Socket) Discover(local protocol.Address) ([]protocol.ConnectionID, error) {
	known, err := s.states.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list known connections: %w", err)
	}
	scanned, err := wire.NewDiscovery(s.store).Scan(local)
	if err != nil {
		return nil, err
	}

	seen := make(map[protocol.ConnectionID]struct{}, len(known)+len(scanned))
	var conns []protocol.ConnectionID
	for _, id := range append(known, scanned...) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		conns = append(conns, id)
	}
	return conns, nil
}

// Destroy wipes a connection: every blob in either direction between the
// two parties, then the local state entry. The storage sweep loops until
// a pass finds nothing left, so an entry the peer writes while a pass is
// running is caught by a later pass; an entry written after the final,
// empty pass has listed the storage is not deleted. Counters are lost;
// the operation is not idempotent in
// effect but is re-runnable on error, because state is cleared only once
// the storage is clean.
//
// The peer is unaware of the wipe and keeps its own state; it must
// destroy its view of the connection itself.
func (s *Socket) Destroy(conn protocol.ConnectionID) error {
	logrus.WithFields(logrus.Fields{
		"function":   "Socket.Destroy",
		"connection": conn.String(),
	}).Info("Destroying connection")

	for {
		names, err := s.store.List()
		if err != nil {
			return err
		}

		deleted := 0
		for _, name := range names {
			header, err := protocol.ParseHeader(name)
			if err != nil {
				continue
			}
			outbound := header.Sender == conn.Local && header.Receiver == conn.Remote
			inbound := header.Sender == conn.Remote && header.Receiver == conn.Local
			if !outbound && !inbound {
				continue
			}
			if err := s.store.Delete(name); err != nil {
				return err
			}
			deleted++
		}
		if deleted == 0 {
			break
		}
	}

	if err := s.states.Delete(conn); err != nil {
		return fmt.Errorf("failed to clear connection state: %w", err)
	}
	return nil
}
