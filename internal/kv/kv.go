// Package kv is the persisted key-value store the storefront keeps
// session-scoped state in: cart snapshots under "cart:<session>" and the
// admin console token under "takesmart_admin_token". Writes are
// best-effort; callers are expected to keep working when the store is
// unavailable.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
