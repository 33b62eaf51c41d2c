package wire

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/storagep2p/protocol"
	"github.com/opd-ai/storagep2p/state"
	"github.com/opd-ai/storagep2p/storage"
)

// Receiver consumes the inbound direction of one connection. It embeds
// the read-only Viewer capability and adds consumption and garbage
// collection.
type Receiver struct {
	*Viewer
}

// NewReceiver binds a receiver to a connection, a state store and a
// storage.
func NewReceiver(conn protocol.ConnectionID, states state.Store, store storage.Storage) *Receiver {
	return &Receiver{Viewer: NewViewer(conn, states, store)}
}

// Receive fetches and consumes the message at rx. If the message is not
// yet present it returns storage.ErrEntryNotFound and nothing changes;
// use Peek for the non-error probe. On success rx advances by one and
// consumed predecessors are garbage collected opportunistically.
func (r *Receiver) Receive() ([]byte, error) {
	return r.consume(nil)
}

// ReceiveFunc fetches the message at rx and hands it to fn BEFORE
// advancing the counter; rx moves iff fn returns nil. The caller may thus
// run fn any number of times over the same bytes until its side effect
// succeeds, and the message is consumed exactly once.
func (r *Receiver) ReceiveFunc(fn func(msg []byte) error) error {
	_, err := r.consume(fn)
	return err
}

// consume implements Receive and ReceiveFunc. The rx counter commits
// strictly after the read and the handler have both succeeded.
func (r *Receiver) consume(fn func(msg []byte) error) ([]byte, error) {
	st, err := r.states.Load(r.conn)
	if err != nil {
		return nil, fmt.Errorf("failed to load connection state: %w", err)
	}

	msg, err := r.store.Read(r.inboundName(st.RX))
	if err != nil {
		return nil, err
	}
	if fn != nil {
		if err := fn(msg); err != nil {
			return nil, err
		}
	}

	st.RX++
	if err := r.states.Store(r.conn, st); err != nil {
		return nil, fmt.Errorf("failed to commit rx counter: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Receiver.consume",
		"connection": r.conn.String(),
		"counter":    st.RX - 1,
		"size":       len(msg),
	}).Debug("Consumed message")

	// The message is consumed either way; a failed sweep is re-runnable.
	if err := r.GC(); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":   "Receiver.consume",
			"connection": r.conn.String(),
			"error":      err.Error(),
		}).Warn("Opportunistic garbage collection failed")
	}
	return msg, nil
}

// GC deletes every inbound entry this endpoint has already consumed:
// entries whose header parses, whose sender is the remote peer, whose
// receiver is this endpoint, and whose counter is strictly below the rx
// snapshot taken before the sweep. Everything else (outbound traffic,
// other parties, foreign blobs, the next expected message) is left
// untouched. GC is idempotent and aborts on the first delete failure;
// the remaining work is picked up by any later sweep.
func (r *Receiver) GC() error {
	st, err := r.states.Load(r.conn)
	if err != nil {
		return fmt.Errorf("failed to load connection state: %w", err)
	}
	names, err := r.store.List()
	if err != nil {
		return err
	}

	for _, name := range names {
		header, err := protocol.ParseHeader(name)
		if err != nil {
			// Foreign file sharing the storage.
			continue
		}
		if header.Sender != r.conn.Remote || header.Receiver != r.conn.Local {
			continue
		}
		if header.Counter >= st.RX {
			continue
		}
		if err := r.store.Delete(name); err != nil {
			return err
		}
	}
	return nil
}
