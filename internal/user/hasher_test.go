package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("pw")
	require.NoError(t, err)

	again, err := h.Hash("pw")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salt must differ per call")

	assert.True(t, h.Verify(hash, "pw"))
	assert.False(t, h.Verify(hash, "wrong"))
}

func TestBcryptHasher_Check(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	hash, err := h.Hash("pw")
	require.NoError(t, err)

	assert.NoError(t, h.Check(hash, "pw"))
	assert.ErrorIs(t, h.Check(hash, "nope"), ErrHashMismatch)
	assert.ErrorIs(t, h.Check("short", "pw"), ErrMalformedHash)
	assert.ErrorIs(t, h.Check("x2a$04$abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyzab", "pw"), ErrMalformedHash)
}

func TestBcryptHasher_LongSecrets(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}
	long := strings.Repeat("a", 200)

	hash, err := h.Hash(long)
	require.NoError(t, err)
	assert.NoError(t, h.Check(hash, long))
	assert.ErrorIs(t, h.Check(hash, strings.Repeat("a", 72)), ErrHashMismatch)
	assert.False(t, h.Verify(hash, strings.Repeat("a", 199)+"b"))
}
