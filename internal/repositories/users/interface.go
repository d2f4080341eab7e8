// Package users persists user record files, one JSON document per
// normalized username.
package users

import "context"

// Repository stores raw record file bytes. It knows nothing about the format;
// decoding and validation belong to the vault package.
type Repository interface {
	// Exists reports whether a record file is stored for username.
	Exists(ctx context.Context, username string) (bool, error)

	// Load returns the stored bytes or common.ErrUserNotFound.
	Load(ctx context.Context, username string) ([]byte, error)

	// Save replaces the record file as a whole. A failed Save leaves the
	// previous content untouched.
	Save(ctx context.Context, username string, data []byte) error
}
