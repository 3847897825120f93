package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSigningKey = errors.New("no signing key configured")

// Keys is the RS256 key pair used to sign and verify tokens.
type Keys struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
	Kid     string
}

// NewKeys wraps a private key and derives the public half and key id.
func NewKeys(k *rsa.PrivateKey) *Keys {
	return &Keys{Private: k, Public: &k.PublicKey, Kid: keyID(&k.PublicKey)}
}

// GenerateKeys creates a fresh key pair.
func GenerateKeys(bits int) (*Keys, error) {
	k, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, err
	}
	return NewKeys(k), nil
}

// LoadKeys parses PEM encoded keys. The public key is optional and derived
// from the private key when omitted; when given it must match.
func LoadKeys(privatePEM, publicPEM []byte) (*Keys, error) {
	if len(privatePEM) == 0 {
		return nil, ErrNoSigningKey
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	keys := NewKeys(priv)
	if len(publicPEM) > 0 {
		pub, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		if !pub.Equal(&priv.PublicKey) {
			return nil, errors.New("public key does not match private key")
		}
	}
	return keys, nil
}

// EncodePEM returns the PKCS#8 private key and PKIX public key.
func (k *Keys) EncodePEM() (privatePEM, publicPEM []byte, err error) {
	privDER, err := x509.MarshalPKCS8PrivateKey(k.Private)
	if err != nil {
		return nil, nil, err
	}
	pubDER, err := x509.MarshalPKIXPublicKey(k.Public)
	if err != nil {
		return nil, nil, err
	}
	privatePEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privatePEM, publicPEM, nil
}

// keyID is base64 of the first 8 bytes of SHA256 of the public key.
func keyID(pub *rsa.PublicKey) string {
	der, _ := x509.MarshalPKIXPublicKey(pub)
	h := sha256.Sum256(der)
	return base64.RawURLEncoding.EncodeToString(h[:8])
}
