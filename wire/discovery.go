package wire

import (
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/storagep2p/protocol"
	"github.com/opd-ai/storagep2p/storage"
)

// Discovery finds connections with pending inbound traffic by scanning
// the shared storage.
type Discovery struct {
	store storage.Storage
}

// NewDiscovery binds a discovery scanner to a storage.
func NewDiscovery(store storage.Storage) *Discovery {
	return &Discovery{store: store}
}

// Scan lists the storage and returns the deduplicated set of connections
// that have at least one stored message addressed to local. Entry names
// that do not decode as headers are foreign files and skipped silently.
func (d *Discovery) Scan(local protocol.Address) ([]protocol.ConnectionID, error) {
	names, err := d.store.List()
	if err != nil {
		return nil, err
	}

	seen := make(map[protocol.ConnectionID]struct{})
	var conns []protocol.ConnectionID
	for _, name := range names {
		header, err := protocol.ParseHeader(name)
		if err != nil {
			continue
		}
		if header.Receiver != local {
			continue
		}

		id := protocol.ConnectionID{Local: local, Remote: header.Sender}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		conns = append(conns, id)
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Discovery.Scan",
		"local":       local.String(),
		"connections": len(conns),
	}).Debug("Scanned storage for peers")
	return conns, nil
}
