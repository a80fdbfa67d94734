// Package cassette loads, holds and persists the tracks of a recorder session.
package cassette

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/seborama/vcrfixture/cassette/track"
	"github.com/seborama/vcrfixture/compression"
	"github.com/seborama/vcrfixture/fileio"
	"github.com/seborama/vcrfixture/stats"
)

// FileIO is the storage a cassette is read from and written to.
type FileIO interface {
	MkdirAll(path string, perm os.FileMode) error
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	IsNotExist(err error) bool
}

// Crypter encrypts and decrypts cassette content.
type Crypter interface {
	Encrypt(plaintext []byte) (ciphertext, nonce []byte, err error)
	Decrypt(ciphertext, nonce []byte) ([]byte, error)
	Kind() string
}

// Cassette contains a set of tracks.
type Cassette struct {
	Tracks []track.Track

	name       string
	store      FileIO
	crypter    Crypter
	serializer Serializer

	trackSliceMutex *sync.RWMutex
	existed         bool
	dirty           bool
	tracksLoaded    int32
	tracksDiscarded int32
	tracksRecorded  int32
	tracksPlayed    int32
}

// Option configures a Cassette.
type Option func(*Cassette)

// WithStore sets the storage of the cassette. The default is the local filesystem.
func WithStore(store FileIO) Option {
	return func(k7 *Cassette) {
		if store != nil {
			k7.store = store
		}
	}
}

// WithCrypter encrypts the cassette at rest.
func WithCrypter(crypter Crypter) Option {
	return func(k7 *Cassette) {
		k7.crypter = crypter
	}
}

// WithSerializer sets the serializer used to encode the cassette.
// The default is chosen from the cassette name (see SerializerForPath).
func WithSerializer(serializer Serializer) Option {
	return func(k7 *Cassette) {
		if serializer != nil {
			k7.serializer = serializer
		}
	}
}

// NewCassette creates a ready to use, empty cassette.
func NewCassette(name string, options ...Option) *Cassette {
	k7 := Cassette{
		name:            name,
		store:           fileio.NewOSFile(),
		serializer:      SerializerForPath(name),
		trackSliceMutex: &sync.RWMutex{},
	}

	for _, option := range options {
		option(&k7)
	}

	return &k7
}

// LoadCassette reads a cassette from its store.
// A cassette that does not exist yet is returned empty, with Exists() false.
func LoadCassette(name string, options ...Option) (*Cassette, error) {
	k7 := NewCassette(name, options...)

	data, err := k7.store.ReadFile(name)
	if k7.store.IsNotExist(err) {
		return k7, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cassette '%s'", name)
	}

	k7.existed = true

	tracks, err := k7.decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to interpret cassette '%s'", name)
	}

	k7.Tracks = tracks
	k7.tracksLoaded = int32(len(tracks))

	return k7, nil
}

// DumpCassette returns the decrypted, decompressed content of a cassette.
func DumpCassette(name string, options ...Option) ([]byte, error) {
	k7 := NewCassette(name, options...)

	data, err := k7.store.ReadFile(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cassette '%s'", name)
	}

	return k7.unwrap(data)
}

// Name retrieves the cassette name, i.e. its path in the store.
func (k7 *Cassette) Name() string {
	return k7.name
}

// Exists reports whether the cassette was found in its store when loaded.
func (k7 *Cassette) Exists() bool {
	return k7.existed
}

// IsLongPlay returns true if the cassette content is compressed.
func (k7 *Cassette) IsLongPlay() bool {
	return strings.HasSuffix(k7.name, ".gz")
}

// IsDirty reports whether tracks were recorded since the cassette was loaded.
func (k7 *Cassette) IsDirty() bool {
	k7.trackSliceMutex.RLock()
	defer k7.trackSliceMutex.RUnlock()

	return k7.dirty
}

// Stats returns the cassette's Stats.
func (k7 *Cassette) Stats() *stats.Stats {
	if k7 == nil {
		return nil
	}

	k7.trackSliceMutex.RLock()
	defer k7.trackSliceMutex.RUnlock()

	return &stats.Stats{
		TotalTracks:     int32(len(k7.Tracks)),
		TracksLoaded:    k7.tracksLoaded,
		TracksDiscarded: k7.tracksDiscarded,
		TracksRecorded:  k7.tracksRecorded,
		TracksPlayed:    k7.tracksPlayed,
	}
}

// NumberOfTracks returns the number of tracks contained in the cassette.
func (k7 *Cassette) NumberOfTracks() int32 {
	if k7 == nil {
		return 0
	}

	k7.trackSliceMutex.RLock()
	defer k7.trackSliceMutex.RUnlock()

	return int32(len(k7.Tracks))
}

// Track returns a copy of the requested track. '0' is the first track.
func (k7 *Cassette) Track(trackNumber int32) track.Track {
	k7.trackSliceMutex.RLock()
	defer k7.trackSliceMutex.RUnlock()

	return k7.Tracks[trackNumber]
}

// Rewrite passes every track through fn, replacing it with the result.
// Tracks for which fn returns nil are dropped and counted as discarded.
// It is meant to be called right after loading.
func (k7 *Cassette) Rewrite(fn func(*track.Track) *track.Track) {
	k7.trackSliceMutex.Lock()
	defer k7.trackSliceMutex.Unlock()

	kept := k7.Tracks[:0]
	for i := range k7.Tracks {
		trk := fn(&k7.Tracks[i])
		if trk == nil {
			k7.tracksDiscarded++
			continue
		}
		kept = append(kept, *trk)
	}

	dropped := int32(len(k7.Tracks) - len(kept))
	k7.Tracks = kept

	k7.tracksLoaded -= dropped
	if k7.tracksLoaded < 0 {
		k7.tracksLoaded = 0
	}
}

// ReplayMatching finds the first track accepted by match and marks it as
// replayed. Tracks already replayed are skipped unless allowRepeats is true.
// The returned track is a copy.
func (k7 *Cassette) ReplayMatching(match func(*track.Track) bool, allowRepeats bool) (*track.Track, bool) {
	k7.trackSliceMutex.Lock()
	defer k7.trackSliceMutex.Unlock()

	for i := range k7.Tracks {
		trk := &k7.Tracks[i]
		if trk.IsReplayed() && !allowRepeats {
			continue
		}

		if match(trk) {
			trk.SetReplayed(true)
			k7.tracksPlayed++

			replayed := *trk
			replayed.Response = trk.Response.Clone()
			replayed.Request = *trk.Request.Clone()

			return &replayed, true
		}
	}

	return nil, false
}

// AddTrack records a new track on the cassette.
// The track is not mutated here, it must be mutated before being passed in.
func (k7 *Cassette) AddTrack(trk *track.Track) {
	k7.trackSliceMutex.Lock()
	defer k7.trackSliceMutex.Unlock()

	// a live track must not be replayed to the session that recorded it
	trk.SetReplayed(true)

	// the request attached to the response only exists at replaying time
	if trk.Response != nil {
		trk.Response.Request = nil
	}

	k7.Tracks = append(k7.Tracks, *trk)
	k7.tracksRecorded++
	k7.dirty = true
}

// DiscardTrack accounts for a track that a hook refused to record.
func (k7 *Cassette) DiscardTrack() {
	k7.trackSliceMutex.Lock()
	defer k7.trackSliceMutex.Unlock()

	k7.tracksDiscarded++
}

// Save writes the cassette to its store if new tracks were recorded.
func (k7 *Cassette) Save() error {
	k7.trackSliceMutex.Lock()
	defer k7.trackSliceMutex.Unlock()

	if !k7.dirty {
		return nil
	}

	data, err := k7.encode(k7.Tracks)
	if err != nil {
		return errors.Wrapf(err, "failed to encode cassette '%s'", k7.name)
	}

	if err := k7.store.MkdirAll(filepath.Dir(k7.name), 0o750); err != nil {
		return errors.Wrapf(err, "failed to create cassette directory for '%s'", k7.name)
	}

	if err := k7.store.WriteFile(k7.name, data, 0o640); err != nil {
		return errors.Wrapf(err, "failed to write cassette '%s'", k7.name)
	}

	k7.dirty = false
	k7.existed = true

	return nil
}

func (k7 *Cassette) encode(tracks []track.Track) ([]byte, error) {
	data, err := k7.serializer.Marshal(toCassetteFile(tracks))
	if err != nil {
		return nil, err
	}

	if k7.IsLongPlay() {
		if data, err = compression.Compress(data); err != nil {
			return nil, err
		}
	}

	if k7.crypter != nil {
		if data, err = encrypt(k7.crypter, data); err != nil {
			return nil, err
		}
	}

	return data, nil
}

func (k7 *Cassette) decode(data []byte) ([]track.Track, error) {
	data, err := k7.unwrap(data)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var f cassetteFile
	if err := k7.serializer.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	return f.toTracks()
}

// unwrap decrypts and decompresses raw cassette data.
func (k7 *Cassette) unwrap(data []byte) ([]byte, error) {
	var err error

	if isEncrypted(data) {
		if k7.crypter == nil {
			return nil, errors.New("cassette is encrypted but no cipher was supplied")
		}

		if data, err = decrypt(k7.crypter, data); err != nil {
			return nil, err
		}
	}

	if compression.IsCompressed(data) {
		if data, err = compression.Decompress(data); err != nil {
			return nil, err
		}
	}

	return data, nil
}
