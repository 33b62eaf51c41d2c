package protocol

// ConnectionID names one direction-aware view of a wire connection: the
// pair (Local, Remote). Directionality is significant: (A,B) and (B,A)
// are distinct IDs describing the same wire connection as seen from the
// two endpoints. ConnectionID is comparable and usable as a map key.
type ConnectionID struct {
	Local  Address
	Remote Address
}

// Reverse returns the peer's view of the same wire connection.
func (c ConnectionID) Reverse() ConnectionID {
	return ConnectionID{Local: c.Remote, Remote: c.Local}
}

// String renders the connection as "local->remote" in hex.
func (c ConnectionID) String() string {
	return c.Local.String() + "->" + c.Remote.String()
}

// ConnectionState holds the two monotonic counters of a connection.
//
// RX counts the messages already consumed from remote to local; it is the
// counter of the next expected inbound message. TX counts the messages
// already sent from local to remote; it is the counter of the next
// outbound message. Both start at zero and advance by exactly one per
// successful operation. The zero value is the state of a connection that
// has never exchanged traffic.
type ConnectionState struct {
	RX uint64
	TX uint64
}
