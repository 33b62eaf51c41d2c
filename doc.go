// Package storagep2p implements ordered, reliable, peer-to-peer message
// streams between endpoints that share nothing but a mostly-dumb blob
// store (a cloud folder, a shared filesystem, a mailbox). The store only
// has to support list, read, atomic write and delete over entries keyed
// by short byte names; there is no lock service, no rendezvous server and
// no clock.
//
// Each message is one blob whose name is the canonical encoding of
// (sender, receiver, counter). Both peers derive names independently from
// persistent per-connection counters, which gives FIFO, exactly-once,
// duplicate-free delivery: the sender writes counter tx and advances it,
// the receiver reads counter rx, advances it, and garbage-collects what
// it has consumed. Because every name is written by exactly one endpoint
// and deleted by exactly one endpoint, arbitrarily many endpoints can
// share a storage without locking.
//
// # Getting started
//
// Bundle a state store and a storage into a Socket and exchange messages
// over a connection:
//
//	local, _ := protocol.NewAddress()
//	remote, _ := protocol.AddressFromBytes(peerBytes)
//	conn := protocol.ConnectionID{Local: local, Remote: remote}
//
//	sock := storagep2p.NewSocket(state.NewMemoryStore(), sharedStorage)
//
//	if err := sock.Send(conn, []byte("hello")); err != nil {
//	    log.Fatal(err)
//	}
//
//	// On the peer, under conn.Reverse():
//	msg, err := peer.Receive(peerConn)
//
// Every operation is synchronous and idempotent on error: a failed call
// leaves counters and storage untouched, so callers retry with their own
// backoff until the storage cooperates. Delivery order holds per
// direction of a connection; the two directions, and distinct
// connections, are unordered relative to each other.
package storagep2p
