// Package protocol defines the addressing primitives of the StorageP2P
// protocol: endpoint addresses, directed connection identifiers, per-
// connection counter state, and the canonical message header codec.
//
// The entire wire state of a StorageP2P connection is "the set of blobs
// whose names are encoded message headers". A header is the triple
// (sender, receiver, counter); its encoding must therefore be canonical,
// deterministic and injective, because the encoded bytes double as the
// storage entry name that both peers derive independently.
//
// # Header encoding
//
// Headers are encoded as a fixed-order tag-length-value sequence:
//
//	0x01 <len> <sender bytes>    1..24 bytes
//	0x02 <len> <receiver bytes>  1..24 bytes
//	0x03 0x08  <counter>         big-endian uint64
//
// The worst-case image is 62 bytes raw and 83 bytes after unpadded
// URL-safe Base64, comfortably below the 100-byte entry name budget that
// storage adapters enforce. ParseHeader accepts nothing but the exact
// canonical image of some header, so foreign blobs sharing a storage are
// cleanly distinguishable from protocol traffic.
package protocol
