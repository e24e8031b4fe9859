package backstage

import "context"

// Cache is the durable key-value persistence shared by the calendar store
// and the specification registry. Values are opaque strings (JSON blobs or
// timestamps); interpretation belongs to the caller.
type Cache interface {
	// Get returns the value stored under key.
	// Returns ENOTFOUND if the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}
