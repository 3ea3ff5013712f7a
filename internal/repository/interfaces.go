package repository

import "context"

// KeyValueStore is the storage boundary: a flat key to text mapping.
// Get returns ErrNotFound when the key is absent. Set replaces the whole value
// in one write, so a reader never observes a partially written value.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
