package session

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewID returns a fresh random session id: the hex SHA-256 digest of a
// version 4 UUID.
func NewID() string {
	u := uuid.New()
	sum := sha256.Sum256(u[:])
	return hex.EncodeToString(sum[:])
}
