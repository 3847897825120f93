package token

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	"github.com/golang-jwt/jwt/v5"
)

// Record is the persisted trace of an issued token. Only a one-way hash of
// the token is kept; Hint is a short, non-secret digest prefix used to
// narrow the scan before the full hash is verified.
type Record struct {
	TokenHash string `json:"tokenHash"`
	Username  string `json:"username"`
	Client    string `json:"client"`
	Hint      string `json:"hint,omitempty"`
}

// Claims is the signed payload.
type Claims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// Options binds a token to a subject (username) and an audience (client id).
type Options struct {
	Subject  string
	Audience string
}

// Fingerprint is a fixed-length digest of a token, short enough for bcrypt.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return base64.RawStdEncoding.EncodeToString(sum[:])
}

// Hint returns the bucket hint for token.
func Hint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:2])
}
