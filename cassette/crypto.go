package cassette

import (
	"bytes"

	"github.com/pkg/errors"
)

// encryptedMarker prefixes encrypted cassettes. It is followed by
// len(kind) | kind | len(nonce) | nonce | ciphertext.
var encryptedMarker = []byte("$ENC:V1$")

func isEncrypted(data []byte) bool {
	return bytes.HasPrefix(data, encryptedMarker)
}

func encrypt(crypter Crypter, data []byte) ([]byte, error) {
	ciphertext, nonce, err := crypter.Encrypt(data)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt cassette")
	}

	kind := crypter.Kind()
	if len(kind) > 255 || len(nonce) > 255 {
		return nil, errors.New("cipher kind or nonce too long")
	}

	var out bytes.Buffer
	out.Write(encryptedMarker)
	out.WriteByte(byte(len(kind)))
	out.WriteString(kind)
	out.WriteByte(byte(len(nonce)))
	out.Write(nonce)
	out.Write(ciphertext)

	return out.Bytes(), nil
}

func decrypt(crypter Crypter, data []byte) ([]byte, error) {
	rest := data[len(encryptedMarker):]

	kind, rest, err := readChunk(rest)
	if err != nil {
		return nil, errors.Wrap(err, "cipher kind")
	}

	if string(kind) != crypter.Kind() {
		return nil, errors.Errorf("cassette was encrypted with '%s' but the cipher is '%s'", kind, crypter.Kind())
	}

	nonce, ciphertext, err := readChunk(rest)
	if err != nil {
		return nil, errors.Wrap(err, "nonce")
	}

	plaintext, err := crypter.Decrypt(ciphertext, nonce)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt cassette")
	}

	return plaintext, nil
}

func readChunk(data []byte) (chunk, rest []byte, err error) {
	if len(data) < 1 {
		return nil, nil, errors.New("truncated data")
	}

	n := int(data[0])
	if len(data) < 1+n {
		return nil, nil, errors.New("truncated data")
	}

	return data[1 : 1+n], data[1+n:], nil
}
