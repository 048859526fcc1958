// Package appstorage provides a portable abstraction over host
// filesystem storage: typed folder and file handles with a
// deterministic creation-collision protocol, built on a minimal raw
// storage capability.
//
// # Quick Start
//
//	ctx := context.Background()
//	root, _ := appstorage.AppLocal(ctx, "myapp")
//
//	file, _ := root.CreateFile(ctx, "notes.txt", appstorage.GenerateUniqueName)
//	_ = file.WriteAllText(ctx, "hello")
//	text, _ := file.ReadAllText(ctx)
//
// # Collision Policies
//
// Every create takes a CollisionPolicy deciding what happens when the
// name is already taken:
//
//	FailIfExists        fail with ErrAlreadyExists
//	ReplaceExisting     discard the existing entry
//	OpenIfExists        return a handle to the existing entry
//	GenerateUniqueName  pick "base (2).ext", "base (3).ext", …
//
// # Backends
//
// Handles operate through rawstore.Store. The default is the host
// filesystem; rawstore.MemStore gives a fully in-memory sandbox and
// rawstore.LimitedStore bounds concurrency and operation rate:
//
//	store := rawstore.NewMemStore("/sandbox")
//	root, _ := appstorage.Open(ctx, "/sandbox", appstorage.WithStore(store))
//
// Handles are values over resolved paths, not cached snapshots:
// operations on a handle whose target was deleted fail with *IOError
// instead of answering stale data. Concurrent operations on the same
// path race at the backend level; the package adds no locking of its
// own.
package appstorage
