package encryption

import (
	"bytes"
	"crypto/rand"
	"io"

	"github.com/pkg/errors"
)

// RandomNonceGenerator is a random generator of nonce of the specified size.
type RandomNonceGenerator struct {
	size int
}

// NewRandomNonceGenerator creates a new initialised RandomNonceGenerator of specified size.
func NewRandomNonceGenerator(size int) *RandomNonceGenerator {
	return &RandomNonceGenerator{
		size: size,
	}
}

// Generate returns a new random nonce.
// For a 12-byte nonce, never use more than 2^32 random nonces with a given key.
func (ng RandomNonceGenerator) Generate() ([]byte, error) {
	nonce := make([]byte, ng.size)

	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, errors.WithStack(err)
	}

	return nonce, nil
}

// validateNonceGenerator draws a few nonces and rejects generators that fail,
// produce the wrong size or repeat themselves.
func validateNonceGenerator(ng NonceGenerator, size int) error {
	const draws = 3

	var previous [][]byte

	for i := 0; i < draws; i++ {
		nonce, err := ng.Generate()
		if err != nil {
			return errors.Wrap(err, "nonceGenerator failure")
		}

		if len(nonce) != size {
			return NewErrCrypto("nonceGenerator produces nonces of the wrong size")
		}

		for _, p := range previous {
			if bytes.Equal(p, nonce) {
				return NewErrCrypto("nonceGenerator produces frequent duplicates")
			}
		}

		previous = append(previous, nonce)
	}

	return nil
}
