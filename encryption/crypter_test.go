package encryption_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seborama/vcrfixture/encryption"
)

func TestCrypter_RoundTrip(t *testing.T) {
	tt := []*struct {
		name     string
		provider encryption.CrypterProvider
		key      []byte
		kind     string
	}{
		{
			name:     "aes-gcm 256",
			provider: encryption.NewAESGCMWithRandomNonceGenerator,
			key:      []byte("this is a test key______________"),
			kind:     encryption.KindAESGCM,
		},
		{
			name:     "aes-gcm 128",
			provider: encryption.NewAESGCMWithRandomNonceGenerator,
			key:      []byte("16 bytes key____"),
			kind:     encryption.KindAESGCM,
		},
		{
			name:     "xchacha20-poly1305",
			provider: encryption.NewChaCha20Poly1305WithRandomNonceGenerator,
			key:      []byte("this is a test key______________"),
			kind:     encryption.KindChaCha20Poly1305,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			crypter, err := tc.provider(tc.key)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, crypter.Kind())

			inputData := []byte("My little secret!")

			ciphertext, nonce, err := crypter.Encrypt(inputData)
			require.NoError(t, err)
			assert.NotEqual(t, inputData, ciphertext)

			plaintext, err := crypter.Decrypt(ciphertext, nonce)
			require.NoError(t, err)
			assert.Equal(t, inputData, plaintext)
		})
	}
}

func TestCrypter_BadKeySize(t *testing.T) {
	_, err := encryption.NewAESGCM([]byte("short"), nil)
	require.Error(t, err)
	assert.IsType(t, &encryption.ErrCrypto{}, err)

	_, err = encryption.NewChaCha20Poly1305([]byte("short"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key size")
}

func TestCrypter_DecryptWithWrongKey(t *testing.T) {
	c1, err := encryption.NewChaCha20Poly1305WithRandomNonceGenerator([]byte("this is a test key______________"))
	require.NoError(t, err)
	c2, err := encryption.NewChaCha20Poly1305WithRandomNonceGenerator([]byte("this is another key_____________"))
	require.NoError(t, err)

	ciphertext, nonce, err := c1.Encrypt([]byte("data"))
	require.NoError(t, err)

	_, err = c2.Decrypt(ciphertext, nonce)
	require.Error(t, err)
}

func TestNewCrypterFromKeyFile(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "test.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("this is a test key______________\n"), 0o600))

	crypter, err := encryption.NewCrypterFromKeyFile(encryption.KindAESGCM, keyFile)
	require.NoError(t, err)
	assert.Equal(t, encryption.KindAESGCM, crypter.Kind())

	crypter, err = encryption.NewCrypterFromKeyFile("", keyFile)
	require.NoError(t, err)
	assert.Equal(t, encryption.KindChaCha20Poly1305, crypter.Kind())

	_, err = encryption.NewCrypterFromKeyFile("rot13", keyFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown cipher kind")

	_, err = encryption.NewCrypterFromKeyFile(encryption.KindAESGCM, keyFile+".missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key file")
}

func TestNewCrypterFromKeyFile_BinaryKey(t *testing.T) {
	tt := []*struct {
		name string
		kind string
		key  []byte
	}{
		{name: "aes-gcm key ending with a newline", kind: encryption.KindAESGCM, key: append([]byte(" 23456789012345678901234567890"), '\r', '\n')},
		{name: "aes-gcm 128 key ending with a newline", kind: encryption.KindAESGCM, key: append([]byte("\t23456789012345"), '\n')},
		{name: "chacha key surrounded by whitespace bytes", kind: encryption.KindChaCha20Poly1305, key: append([]byte("\v234567890123456789012345678901"), '\n')},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			keyFile := filepath.Join(t.TempDir(), "binary.key")
			require.NoError(t, os.WriteFile(keyFile, tc.key, 0o600))

			fromFile, err := encryption.NewCrypterFromKeyFile(tc.kind, keyFile)
			require.NoError(t, err)

			provider, err := encryption.ProviderFor(tc.kind)
			require.NoError(t, err)
			direct, err := provider(tc.key)
			require.NoError(t, err)

			ciphertext, nonce, err := direct.Encrypt([]byte("data"))
			require.NoError(t, err)

			plaintext, err := fromFile.Decrypt(ciphertext, nonce)
			require.NoError(t, err)
			assert.Equal(t, "data", string(plaintext))
		})
	}
}
