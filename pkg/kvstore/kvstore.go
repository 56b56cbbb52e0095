// Package kvstore defines the string-keyed JSON document store behind the
// identity catalog and session state. Implementations must tolerate absent
// keys; callers default to empty collections.
package kvstore

import "context"

// Well-known keys of the identity store.
const (
	KeyUsers                   = "users"
	KeyTenants                 = "tenants"
	KeyCurrentUser             = "currentUser"
	KeyHasConfiguredDataSource = "hasConfiguredDataSource"
)

// Store is the persistence port. Values are JSON-serialized.
type Store interface {
	// Get unmarshals the value stored under key into v. It returns false
	// with a nil error when the key is absent.
	Get(ctx context.Context, key string, v any) (bool, error)

	// Set marshals v and stores it under key, replacing any prior value.
	Set(ctx context.Context, key string, v any) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
