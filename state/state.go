package state

import "github.com/opd-ai/storagep2p/protocol"

// Store is the connection counter persistence capability consumed by the
// protocol core.
//
// Load returns the zero state for connections that have never been
// stored. Store overwrites the full counter pair. Delete removes a
// connection's entry entirely, returning it to the zero state; deleting
// an absent entry is not an error.
type Store interface {
	List() ([]protocol.ConnectionID, error)
	Load(id protocol.ConnectionID) (protocol.ConnectionState, error)
	Store(id protocol.ConnectionID, s protocol.ConnectionState) error
	Delete(id protocol.ConnectionID) error
}
