// Package clientstate persists small per-user state blobs (cart contents,
// saved location) as key to JSON mappings. Stores serialize only durable
// fields; in-flight flags never reach a Storage implementation.
package clientstate

import "context"

// Storage is the persistence capability injected into state stores. Load
// returns (nil, nil) when no state has been saved under the key.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
}
