// Package cache provides typed key-value caches with a Redis backend and an
// in-process backend.
package cache

import "context"

// Cache stores values of a single type. Get reports a miss with ok == false
// and a nil error.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (v T, ok bool, err error)
	Set(ctx context.Context, key string, v T) error
	Delete(ctx context.Context, key string) error
}
