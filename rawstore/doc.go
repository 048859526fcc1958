// Package rawstore provides the raw storage capability the appstorage
// handle layer operates through.
//
// Store is the interface for existence checks, creation, streaming I/O,
// deletion and enumeration on resolved path strings. Implementations
// must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - OSStore: the host filesystem
//   - MemStore: an in-memory backend for tests and sandboxes
//   - LimitedStore: a decorator bounding concurrency and operation rate
//
// # Custom Implementations
//
// Implement the Store interface to bind a different backend. Streams
// returned by OpenStream must be seekable and must report their
// capabilities truthfully; the handle layer relies on both.
package rawstore
