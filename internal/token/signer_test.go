package token

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKeysOnce sync.Once
	testKeys     *Keys
)

// sharedKeys avoids generating an RSA key per test.
func sharedKeys(t *testing.T) *Keys {
	t.Helper()
	testKeysOnce.Do(func() {
		k, err := GenerateKeys(2048)
		if err != nil {
			panic(err)
		}
		testKeys = k
	})
	return testKeys
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSignVerify_RoundTrip(t *testing.T) {
	clock := &fakeClock{now: t0}
	s := NewSigner(sharedKeys(t), "pitchside", clock.Now)
	opts := Options{Subject: "alice", Audience: "web"}

	tok, err := s.Sign("u-1", opts)
	require.NoError(t, err)

	claims, err := s.Verify(tok, opts)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "pitchside", claims.Issuer)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, jwt.ClaimStrings{"web"}, claims.Audience)
	assert.Equal(t, t0.Add(Validity).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestSign_TokensAreDistinct(t *testing.T) {
	clock := &fakeClock{now: t0}
	s := NewSigner(sharedKeys(t), "pitchside", clock.Now)
	opts := Options{Subject: "alice", Audience: "web"}

	a, err := s.Sign("u-1", opts)
	require.NoError(t, err)
	b, err := s.Sign("u-1", opts)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_ClaimMismatch(t *testing.T) {
	clock := &fakeClock{now: t0}
	s := NewSigner(sharedKeys(t), "pitchside", clock.Now)
	tok, err := s.Sign("u-1", Options{Subject: "alice", Audience: "web"})
	require.NoError(t, err)

	_, err = s.Verify(tok, Options{Subject: "bob", Audience: "web"})
	assert.ErrorIs(t, err, ErrClaimMismatch)

	_, err = s.Verify(tok, Options{Subject: "alice", Audience: "mobile"})
	assert.ErrorIs(t, err, ErrClaimMismatch)

	other := NewSigner(sharedKeys(t), "someone-else", clock.Now)
	_, err = other.Verify(tok, Options{Subject: "alice", Audience: "web"})
	assert.ErrorIs(t, err, ErrClaimMismatch)
}

func TestVerify_Expiry(t *testing.T) {
	clock := &fakeClock{now: t0}
	s := NewSigner(sharedKeys(t), "pitchside", clock.Now)
	opts := Options{Subject: "alice", Audience: "web"}
	tok, err := s.Sign("u-1", opts)
	require.NoError(t, err)

	clock.Set(t0.Add(Validity - time.Second))
	_, err = s.Verify(tok, opts)
	require.NoError(t, err)

	clock.Set(t0.Add(Validity))
	_, err = s.Verify(tok, opts)
	assert.ErrorIs(t, err, ErrExpired)

	clock.Set(t0.Add(Validity + time.Hour))
	_, err = s.Verify(tok, opts)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_InvalidSignature(t *testing.T) {
	clock := &fakeClock{now: t0}
	s := NewSigner(sharedKeys(t), "pitchside", clock.Now)
	opts := Options{Subject: "alice", Audience: "web"}
	tok, err := s.Sign("u-1", opts)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)
	_, err = s.Verify(tampered, opts)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	otherKeys, err := GenerateKeys(2048)
	require.NoError(t, err)
	foreign := NewSigner(otherKeys, "pitchside", clock.Now)
	tok2, err := foreign.Sign("u-1", opts)
	require.NoError(t, err)
	_, err = s.Verify(tok2, opts)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Malformed(t *testing.T) {
	s := NewSigner(sharedKeys(t), "pitchside", nil)
	_, err := s.Verify("not-a-token", Options{Subject: "alice", Audience: "web"})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestJWKS_PublishesKey(t *testing.T) {
	keys := sharedKeys(t)
	s := NewSigner(keys, "pitchside", nil)
	set := s.JWKS()
	list, ok := set["keys"].([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	jwk := list[0].(map[string]any)
	assert.Equal(t, "RS256", jwk["alg"])
	assert.Equal(t, keys.Kid, jwk["kid"])
	assert.Equal(t, "AQAB", jwk["e"])
}

func TestLoadKeys(t *testing.T) {
	keys := sharedKeys(t)
	privPEM, pubPEM, err := keys.EncodePEM()
	require.NoError(t, err)

	loaded, err := LoadKeys(privPEM, pubPEM)
	require.NoError(t, err)
	assert.True(t, loaded.Private.Equal(keys.Private))
	assert.Equal(t, keys.Kid, loaded.Kid)

	derived, err := LoadKeys(privPEM, nil)
	require.NoError(t, err)
	assert.True(t, derived.Public.Equal(keys.Public))

	_, err = LoadKeys(nil, nil)
	assert.ErrorIs(t, err, ErrNoSigningKey)

	other, err := GenerateKeys(2048)
	require.NoError(t, err)
	_, otherPub, err := other.EncodePEM()
	require.NoError(t, err)
	_, err = LoadKeys(privPEM, otherPub)
	assert.Error(t, err)

}

func TestFingerprintAndHint(t *testing.T) {
	a := Fingerprint("token-a")
	assert.Equal(t, a, Fingerprint("token-a"))
	assert.NotEqual(t, a, Fingerprint("token-b"))
	assert.Less(t, len(a), 72)
	assert.Len(t, Hint("token-a"), 4)
	assert.Equal(t, Hint("token-a"), Hint("token-a"))
}
