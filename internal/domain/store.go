package domain

import "context"

// CacheStore is the local read cache of previously fetched planets.
// Only the sync repository writes to it; any number of readers may observe it.
type CacheStore interface {
	// All returns the cached planets in insertion order
	All() ([]Planet, error)

	// Observe emits the current snapshot, then a fresh snapshot after every write.
	// The channel is closed when ctx is done or the store is closed.
	Observe(ctx context.Context) <-chan []Planet

	// ReplaceAll atomically swaps the cache contents for planets
	ReplaceAll(planets []Planet) error

	// Insert upserts planets; an existing URL keeps its position
	Insert(planets []Planet) error

	// Clear removes every cached planet
	Clear() error

	Close() error
}
