// package store provides durable key-value persistence for credentials
// and cached upstream responses.
//
// Core components depend only on the [KV] interface; production uses the
// SQLite implementation, tests use the in-memory one.
package store

// KV is a bucketed key-value store. Buckets group related keys so a
// whole family can be dropped at once (e.g. every cache entry).
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(bucket, key string) ([]byte, bool, error)

	// Put stores a value, overwriting any existing entry.
	Put(bucket, key string, value []byte) error

	// Delete removes a single key. Deleting a missing key is not an error.
	Delete(bucket, key string) error

	// DeletePrefix removes every key in the bucket with the given prefix.
	DeletePrefix(bucket, prefix string) error

	// Keys lists the keys in the bucket with the given prefix.
	Keys(bucket, prefix string) ([]string, error)

	// Clear removes every key in the bucket.
	Clear(bucket string) error
}

// Bucket names used by the application.
const (
	BucketAuth  = "auth"
	BucketCache = "cache"
)
