// Package encryption provides the AEAD ciphers used to protect cassettes at rest.
package encryption

import (
	"bytes"
	"crypto/cipher"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// Supported cipher kinds.
const (
	KindAESGCM           = "aesgcm"
	KindChaCha20Poly1305 = "chacha20poly1305"
)

// Crypter contains the AEAD cipher to use for encryption and decryption.
type Crypter struct {
	aead           cipher.AEAD
	nonceGenerator NonceGenerator
	kind           string
}

// NonceGenerator defines the behaviour of a Nonce Generator type.
type NonceGenerator interface {
	Generate() ([]byte, error)
}

// NewCrypter creates a new initialised Crypter.
func NewCrypter(aead cipher.AEAD, kind string, nonceGenerator NonceGenerator) *Crypter {
	return &Crypter{
		aead:           aead,
		kind:           kind,
		nonceGenerator: nonceGenerator,
	}
}

// CrypterProvider builds a Crypter from a raw key.
type CrypterProvider func(key []byte) (*Crypter, error)

// ProviderFor returns the CrypterProvider for a cipher kind.
func ProviderFor(kind string) (CrypterProvider, error) {
	switch kind {
	case KindAESGCM:
		return NewAESGCMWithRandomNonceGenerator, nil
	case KindChaCha20Poly1305, "":
		return NewChaCha20Poly1305WithRandomNonceGenerator, nil
	default:
		return nil, NewErrCrypto("unknown cipher kind: " + kind)
	}
}

// NewCrypterFromKeyFile reads a key file and builds the Crypter of the given kind.
// The key is used as is. A single line ending is dropped only when the raw
// key has no valid size and the stripped one does.
func NewCrypterFromKeyFile(kind, keyFile string) (*Crypter, error) {
	provider, err := ProviderFor(kind)
	if err != nil {
		return nil, err
	}

	key, err := os.ReadFile(keyFile)
	if err != nil {
		return nil, errors.Wrap(err, "key file")
	}

	return provider(keyFromFile(kind, key))
}

func keyFromFile(kind string, key []byte) []byte {
	if isValidKeySize(kind, len(key)) {
		return key
	}

	trimmed := bytes.TrimSuffix(key, []byte("\n"))
	trimmed = bytes.TrimSuffix(trimmed, []byte("\r"))
	if len(trimmed) < len(key) && isValidKeySize(kind, len(trimmed)) {
		return trimmed
	}

	return key
}

func isValidKeySize(kind string, size int) bool {
	if kind == KindAESGCM {
		return size == 16 || size == 32
	}

	return size == chacha20poly1305.KeySize
}

// Kind returns the name of the cipher.
func (c Crypter) Kind() string {
	return c.kind
}

// Encrypt seals plaintext with a freshly generated nonce.
func (c Crypter) Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error) {
	nonce, err = c.nonceGenerator.Generate()
	if err != nil {
		return nil, nil, err
	}

	ciphertext = c.aead.Seal(nil, nonce, plaintext, nil)

	return ciphertext, nonce, nil
}

// Decrypt opens ciphertext. The nonce must be the one produced by Encrypt.
func (c Crypter) Decrypt(ciphertext, nonce []byte) ([]byte, error) {
	if len(nonce) != c.aead.NonceSize() {
		return nil, NewErrCrypto("invalid nonce size")
	}

	text, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, c.kind)
	}

	return text, nil
}
