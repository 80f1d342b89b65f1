package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"
)

// Store persists session data by id. Implementations must be safe for
// concurrent use; they are shared by every request.
type Store[Data any] interface {
	// Get returns the data stored under id. found is false when the id is
	// unknown or expired; err is reserved for backend failures.
	Get(ctx context.Context, id string) (data Data, found bool, err error)
	// Set stores data under id for ttl.
	Set(ctx context.Context, id string, data Data, ttl time.Duration) error
	// Delete removes id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// GenerateID returns a fresh random session id.
	GenerateID() string
	// ValidateID reports whether id is well formed, before any lookup.
	ValidateID(id string) bool
}

// IDLength is the length of ids produced by GenerateID.
const IDLength = 32

// GenerateID returns 24 random bytes as 32 characters of unpadded base64url.
func GenerateID() string {
	var b [IDLength * 3 / 4]byte
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateID reports whether id has the shape produced by GenerateID.
func ValidateID(id string) bool {
	if len(id) != IDLength {
		return false
	}
	_, err := base64.RawURLEncoding.DecodeString(id)
	return err == nil
}
