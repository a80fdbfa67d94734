package cassette

import (
	"github.com/pkg/errors"

	"github.com/seborama/vcrfixture/compression"
)

// Description summarises a stored cassette.
type Description struct {
	Name       string
	Size       int
	Encrypted  bool
	LongPlay   bool
	Serializer string

	// Tracks is -1 when the cassette is encrypted and no cipher was supplied.
	Tracks int
}

// Describe reads a cassette and summarises it. An encrypted cassette is
// described without its tracks when no crypter is given.
func Describe(name string, options ...Option) (*Description, error) {
	k7 := NewCassette(name, options...)

	data, err := k7.store.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cassette '%s'", name)
	}

	d := &Description{
		Name:       name,
		Size:       len(data),
		Encrypted:  isEncrypted(data),
		LongPlay:   k7.IsLongPlay() || compression.IsCompressed(data),
		Serializer: k7.serializer.Name(),
		Tracks:     -1,
	}

	if d.Encrypted && k7.crypter == nil {
		return d, nil
	}

	tracks, err := k7.decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to interpret cassette '%s'", name)
	}

	d.Tracks = len(tracks)

	return d, nil
}
