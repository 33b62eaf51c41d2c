package wire

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/storagep2p/protocol"
	"github.com/opd-ai/storagep2p/state"
	"github.com/opd-ai/storagep2p/storage"
)

// Sender writes the outbound direction of one connection.
type Sender struct {
	conn   protocol.ConnectionID
	states state.Store
	store  storage.Storage
}

// NewSender binds a sender to a connection, a state store and a storage.
func NewSender(conn protocol.ConnectionID, states state.Store, store storage.Storage) *Sender {
	return &Sender{conn: conn, states: states, store: store}
}

// Send writes msg as the next outgoing message and advances tx.
//
// The entry name is a pure function of the connection and the current tx
// counter, so a retry after a failed attempt overwrites its own prior
// write with identical bytes. If the caller retries with different bytes
// at the same tx, last writer wins. On error at any step neither the
// storage nor the counter has advanced.
func (s *Sender) Send(msg []byte) error {
	st, err := s.states.Load(s.conn)
	if err != nil {
		return fmt.Errorf("failed to load connection state: %w", err)
	}

	header := protocol.MessageHeader{
		Sender:   s.conn.Local,
		Receiver: s.conn.Remote,
		Counter:  st.TX,
	}
	if err := s.store.Write(protocol.EncodeHeader(header), msg); err != nil {
		return err
	}

	st.TX++
	if err := s.states.Store(s.conn, st); err != nil {
		return fmt.Errorf("failed to commit tx counter: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Sender.Send",
		"connection": s.conn.String(),
		"counter":    header.Counter,
		"size":       len(msg),
	}).Debug("Sent message")
	return nil
}
