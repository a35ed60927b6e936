// Package storage provides the key/value persistence the state stores write through.
// It plays the role a browser's local storage plays for a single client: string values
// under fixed keys, no expiry, last writer wins.
package storage

import (
	"context" // Request-scoped calls
	"errors"  // Sentinel errors
)

// ErrEmptyKey is returned when an operation is attempted with a blank key
var ErrEmptyKey = errors.New("storage: empty key")

// Store is a string key/value store
type Store interface {
	// Get returns the value under key and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error
	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}

// Namespace scopes every key of store under the given client id
func Namespace(store Store, clientID string) Store {
	return &namespaced{store: store, prefix: "client:" + clientID + ":"} // e.g. client:<id>:cart
}

type namespaced struct {
	store  Store  // Shared backing store
	prefix string // Prepended to every key
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	return n.store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return n.store.Delete(ctx, n.prefix+key)
}
