package identity

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
)

// IDGenerator produces process-unique opaque identifiers.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random (v4) UUIDs.
type UUIDGenerator struct{}

// NewID returns a new UUID in canonical text form.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// HexGenerator issues short 8-character hex identifiers.
// Useful where a compact id reads better than a UUID, e.g. in tests and logs.
type HexGenerator struct{}

// NewID returns 4 random bytes hex-encoded.
func (HexGenerator) NewID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failure is unrecoverable
		panic("crypto/rand: " + err.Error())
	}
	return hex.EncodeToString(b)
}
