// Package storage defines the local persistent key-value store the vault
// relies on for durability. Implementations must keep values opaque.
package storage

import "context"

// KV is a minimal durable key-value store.
//
// Get returns a map holding only the requested keys that exist; absent keys
// are simply missing from the result, not an error. Set writes every pair in
// one transaction. Delete removes keys and ignores those that do not exist.
type KV interface {
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	Set(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
