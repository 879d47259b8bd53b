package db

// DatabaseProvider abstracts the low-level key-value operations the state
// store needs, so the store does not depend on a specific backend.
type DatabaseProvider interface {
	// Get retrieves a value by key, nil if the key does not exist
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair
	Put(key, value []byte) error

	// Delete removes a key-value pair
	Delete(key []byte) error

	// Has checks if a key exists
	Has(key []byte) (bool, error)

	// IteratePrefix calls fn for every key with the given prefix in key
	// order. fn returns false to stop the iteration.
	IteratePrefix(prefix []byte, fn func(key, value []byte) bool) error

	// Batch returns a new batch for atomic operations
	Batch() DatabaseBatch

	// Close closes the database connection
	Close() error
}

// DatabaseBatch provides atomic batch operations
type DatabaseBatch interface {
	Put(key, value []byte)
	Delete(key []byte)

	// Write commits all operations in the batch at once
	Write() error

	Reset()
}
