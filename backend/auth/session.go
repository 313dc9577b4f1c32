package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "Session"

// NormalizeEmail trims whitespace and lowercases an email address. All
// storage, lookups and session derivation go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SessionToken derives the session cookie value for a user: the hex SHA-256
// of the normalized email. Deterministic, so the same user always gets the
// same token and resolution needs no server-side session store.
func SessionToken(email string) string {
	sum := sha256.Sum256([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}
