// Package kv provides the keyed slot storage that backs the record set and the
// session pointer. Backends only need whole-value get/set/delete semantics;
// there is no partial update and no cross-key transaction.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the slot has never been written or was deleted.
var ErrNotFound = errors.New("kv: key not found")

// Store is a flat string key-value namespace.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Healthy(ctx context.Context) bool
}
