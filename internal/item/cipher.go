package item

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32
)

var ErrDecrypt = errors.New("cannot decrypt item")

// Params tunes the Argon2id key derivation.
type Params struct {
	Time    uint32 `yaml:"time"`
	Memory  uint32 `yaml:"memory"` // KiB
	Threads uint8  `yaml:"threads"`
}

// DefaultParams is the OWASP Argon2id baseline (19 MiB, t=2, p=1). Reading
// "*" derives one key per stored item.
var DefaultParams = Params{Time: 2, Memory: 19 * 1024, Threads: 1}

// Cipher encrypts values under a caller passphrase. Each value gets its own
// salt and nonce; the output is base64(salt || nonce || sealed).
// At most one derivation per CPU runs at a time, which bounds KDF memory to
// GOMAXPROCS * Params.Memory however many requests are in flight.
type Cipher struct {
	params Params
	slots  chan struct{}
}

func NewCipher(p Params) *Cipher {
	if p.Time == 0 || p.Memory == 0 || p.Threads == 0 {
		p = DefaultParams
	}
	return &Cipher{params: p, slots: make(chan struct{}, runtime.GOMAXPROCS(0))}
}

func (c *Cipher) Seal(plaintext []byte, passphrase string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	aead, err := c.aead(passphrase, salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open returns ErrDecrypt for a wrong passphrase or damaged ciphertext.
func (c *Cipher) Open(encoded, passphrase string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(raw) < saltSize {
		return nil, ErrDecrypt
	}
	aead, err := c.aead(passphrase, raw[:saltSize])
	if err != nil {
		return nil, err
	}
	rest := raw[saltSize:]
	if len(rest) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrDecrypt
	}
	nonce, sealed := rest[:aead.NonceSize()], rest[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

func (c *Cipher) aead(passphrase string, salt []byte) (cipher.AEAD, error) {
	c.slots <- struct{}{}
	key := argon2.IDKey([]byte(passphrase), salt, c.params.Time, c.params.Memory, c.params.Threads, keySize)
	<-c.slots
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
