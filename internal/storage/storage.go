package storage

import (
	"context"
	"errors"
)

// Store is a string-valued key-value store used for durable on-device
// state: the per-session cart and the fallback order collection.
// Consumers treat values that fail to parse the same as absent keys.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

var ErrKeyNotFound = errors.New("key not found")
