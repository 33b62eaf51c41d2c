// Package wire implements the StorageP2P connection protocol: FIFO,
// exactly-once, duplicate-free message delivery between two endpoints
// that share nothing but a dumb blob store.
//
// Each component binds one connection to a state store and a blob
// storage:
//
//   - Sender writes the next outgoing message under its deterministic
//     header name and advances tx on success.
//   - Viewer is the read-only capability: Peek and Pending never mutate
//     anything.
//   - Receiver extends Viewer with Receive, ReceiveFunc and GC.
//   - Discovery scans the storage for connections with pending traffic.
//
// Every mutating operation is idempotent on error: the counter commits
// strictly after the storage operation succeeds, so a failed call leaves
// both the storage and the counters exactly as they were and the caller
// can simply retry. The library never retries internally; callers wrap
// operations in their own retry loop with backoff.
//
// Ownership keeps concurrent endpoints off each other's keys: only the
// sender of a direction ever writes a name, and only its receiver ever
// deletes one. Operations on one (connection, direction) pair must be
// serialized by the caller; distinct pairs may run concurrently.
package wire
