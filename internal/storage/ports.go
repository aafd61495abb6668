// Package storage provides durable local key-value stores with whole-value
// overwrite semantics.
package storage

import (
	"context"
	"errors"
)

// ErrCorrupt reports a storage medium whose content cannot be decoded.
var ErrCorrupt = errors.New("storage content is corrupt")

// Ports for outbound adapters.
type (
	// Reader returns the value stored under key. ok is false when the key has
	// never been written.
	Reader interface {
		Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	}

	// Writer replaces the whole value stored under key.
	Writer interface {
		Put(ctx context.Context, key string, value []byte) error
	}

	KV interface {
		Reader
		Writer
	}
)
