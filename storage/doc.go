// Package storage defines the blob store capability the StorageP2P core
// consumes, together with the adapters shipped with this module.
//
// The store is deliberately dumb. Four operations (list, read, atomic
// write, delete) over entries keyed by short byte names are all the
// protocol ever asks for; the atomic create-or-replace contract of Write
// is the only synchronization primitive in the whole system. Every
// operation may fail transiently, and each individual mutation either
// succeeds cleanly or fails with no side effect.
//
// Shipped adapters:
//
//   - MemoryStorage: process-local map behind a RWMutex, shared by all
//     endpoints of a test or fuzz run.
//   - FaultyStorage: decorator injecting synthetic I/O errors, for
//     exercising retry discipline.
//   - DirStorage: one file per entry under a root directory, with
//     rename-based atomic replace.
//   - BlobStorage: an Azure Blob Storage container.
//
// Adapters that require printable names (DirStorage, BlobStorage) store
// entries under the unpadded URL-safe Base64 rendering of the name;
// binary-capable adapters keep raw bytes.
package storage
