// Package state persists the per-connection counter pairs of a local
// endpoint.
//
// The store follows get-or-insert semantics: a connection that has never
// been stored loads as the default {0,0} state, so Load never
// distinguishes "absent" from "never used". Load does not create an
// entry; List reports only connections that have been stored. Writes must be crash
// consistent at the granularity of a single connection (a crashed write
// leaves either the old counters or the new, never a torn value) but
// need not be atomic across connections.
//
// The store is local to one endpoint and single-writer per connection;
// unlike the blob storage it is never shared between peers.
package state
