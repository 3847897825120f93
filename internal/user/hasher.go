package user

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used in production.
const DefaultCost = 12

var (
	ErrHashMismatch  = errors.New("hash does not match")
	ErrMalformedHash = errors.New("malformed stored hash")
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
	// Check distinguishes a plain mismatch from a corrupt stored hash.
	Check(hash, pw string) error
}

// BcryptHasher implementation. Input is reduced to base64(SHA-256) first so
// secrets longer than bcrypt's 72-byte limit are accepted and stay distinct.
type BcryptHasher struct{ Cost int }

func prehash(pw string) []byte {
	sum := sha256.Sum256([]byte(pw))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword(prehash(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(pw)) == nil
}

func (b BcryptHasher) Check(hash, pw string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), prehash(pw))
	if err == nil {
		return nil
	}
	var (
		prefixErr  bcrypt.InvalidHashPrefixError
		versionErr bcrypt.HashVersionTooNewError
		costErr    bcrypt.InvalidCostError
	)
	if errors.Is(err, bcrypt.ErrHashTooShort) || errors.As(err, &prefixErr) ||
		errors.As(err, &versionErr) || errors.As(err, &costErr) {
		return ErrMalformedHash
	}
	return ErrHashMismatch
}
