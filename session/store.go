package session

import "context"

// Store persists a single opaque credential.
//
// Load returns errors.ErrNoCredential when nothing is stored.
// Clear on an empty store is not an error.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
