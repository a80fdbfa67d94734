package cassette_test

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seborama/vcrfixture/cassette"
	"github.com/seborama/vcrfixture/cassette/track"
	"github.com/seborama/vcrfixture/encryption"
)

func newTrack(t *testing.T, method, rawURL string, status int, body []byte) *track.Track {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	return track.NewTrack(
		&track.Request{
			Method: method,
			URL:    u,
			Proto:  "HTTP/1.1",
			Header: http.Header{"Accept": {"application/json"}},
		},
		&track.Response{
			Status:     http.StatusText(status),
			StatusCode: status,
			Proto:      "HTTP/1.1",
			Header:     http.Header{"Content-Type": {"text/plain"}},
			Body:       body,
		},
		nil,
	)
}

func TestCassette_SaveAndLoad(t *testing.T) {
	tt := []*struct {
		name      string
		extension string
		options   func(t *testing.T) []cassette.Option
	}{
		{name: "yaml", extension: ".yaml"},
		{name: "json", extension: ".json"},
		{name: "yaml long play", extension: ".yaml.gz"},
		{name: "json long play", extension: ".json.gz"},
		{
			name:      "encrypted yaml",
			extension: ".yaml",
			options: func(t *testing.T) []cassette.Option {
				crypter, err := encryption.NewChaCha20Poly1305WithRandomNonceGenerator([]byte("12345678901234567890123456789012"))
				require.NoError(t, err)
				return []cassette.Option{cassette.WithCrypter(crypter)}
			},
		},
		{
			name:      "encrypted json long play",
			extension: ".json.gz",
			options: func(t *testing.T) []cassette.Option {
				crypter, err := encryption.NewAESGCMWithRandomNonceGenerator([]byte("1234567890123456"))
				require.NoError(t, err)
				return []cassette.Option{cassette.WithCrypter(crypter)}
			},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var opts []cassette.Option
			if tc.options != nil {
				opts = tc.options(t)
			}

			name := filepath.Join(t.TempDir(), "nested", uuid.NewString()+tc.extension)

			k7, err := cassette.LoadCassette(name, opts...)
			require.NoError(t, err)
			assert.False(t, k7.Exists())

			k7.AddTrack(newTrack(t, http.MethodGet, "http://example.com/path?q=1", http.StatusOK, []byte("hello")))
			k7.AddTrack(newTrack(t, http.MethodPost, "http://example.com/bin", http.StatusCreated, []byte{0xff, 0x00, 0xfe}))
			require.True(t, k7.IsDirty())
			require.NoError(t, k7.Save())
			assert.False(t, k7.IsDirty())

			loaded, err := cassette.LoadCassette(name, opts...)
			require.NoError(t, err)
			assert.True(t, loaded.Exists())
			require.EqualValues(t, 2, loaded.NumberOfTracks())
			assert.EqualValues(t, 2, loaded.Stats().TracksLoaded)

			first := loaded.Track(0)
			assert.Equal(t, http.MethodGet, first.Request.Method)
			assert.Equal(t, "http://example.com/path?q=1", first.Request.URL.String())
			assert.Equal(t, 1, first.Request.ProtoMajor)
			assert.Equal(t, 1, first.Request.ProtoMinor)
			assert.Equal(t, []byte("hello"), first.Response.Body)
			assert.False(t, first.IsReplayed())

			second := loaded.Track(1)
			if diff := cmp.Diff([]byte{0xff, 0x00, 0xfe}, second.Response.Body); diff != "" {
				t.Errorf("binary body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCassette_RecordedError(t *testing.T) {
	name := filepath.Join(t.TempDir(), "error.yaml")

	k7 := cassette.NewCassette(name)
	k7.AddTrack(track.NewTrack(&track.Request{Method: http.MethodGet}, nil, &url.Error{Op: "Get", URL: "x", Err: os.ErrDeadlineExceeded}))
	require.NoError(t, k7.Save())

	loaded, err := cassette.LoadCassette(name)
	require.NoError(t, err)
	require.EqualValues(t, 1, loaded.NumberOfTracks())

	trk := loaded.Track(0)
	assert.Nil(t, trk.Response)
	require.NotNil(t, trk.ErrType)
	assert.Equal(t, "*url.Error", *trk.ErrType)
	assert.Error(t, trk.GetError())
}

func TestCassette_SaveOnlyWhenDirty(t *testing.T) {
	name := filepath.Join(t.TempDir(), "clean.yaml")

	k7 := cassette.NewCassette(name)
	require.NoError(t, k7.Save())

	_, err := os.Stat(name)
	assert.True(t, os.IsNotExist(err))
}

func TestCassette_EncryptedWithoutCipher(t *testing.T) {
	name := filepath.Join(t.TempDir(), "secret.yaml")

	crypter, err := encryption.NewChaCha20Poly1305WithRandomNonceGenerator([]byte("12345678901234567890123456789012"))
	require.NoError(t, err)

	k7 := cassette.NewCassette(name, cassette.WithCrypter(crypter))
	k7.AddTrack(newTrack(t, http.MethodGet, "http://example.com", http.StatusOK, nil))
	require.NoError(t, k7.Save())

	_, err = cassette.LoadCassette(name)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cipher")

	other, err := encryption.NewAESGCMWithRandomNonceGenerator([]byte("1234567890123456"))
	require.NoError(t, err)

	_, err = cassette.LoadCassette(name, cassette.WithCrypter(other))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chacha20poly1305")

	data, err := cassette.DumpCassette(name, cassette.WithCrypter(crypter))
	require.NoError(t, err)
	assert.Contains(t, string(data), "http://example.com")
}

func TestCassette_Rewrite(t *testing.T) {
	k7 := cassette.NewCassette("unused.yaml")
	k7.AddTrack(newTrack(t, http.MethodGet, "http://example.com/keep", http.StatusOK, nil))
	k7.AddTrack(newTrack(t, http.MethodGet, "http://example.com/drop", http.StatusOK, nil))

	k7.Rewrite(func(trk *track.Track) *track.Track {
		if trk.Request.URL.Path == "/drop" {
			return nil
		}
		trk.Response.StatusCode = http.StatusAccepted
		return trk
	})

	require.EqualValues(t, 1, k7.NumberOfTracks())
	assert.Equal(t, http.StatusAccepted, k7.Track(0).Response.StatusCode)
	assert.EqualValues(t, 1, k7.Stats().TracksDiscarded)
}

func TestCassette_ReplayMatching(t *testing.T) {
	name := filepath.Join(t.TempDir(), "replay.yaml")

	k7 := cassette.NewCassette(name)
	k7.AddTrack(newTrack(t, http.MethodGet, "http://example.com/a", http.StatusOK, []byte("a1")))
	k7.AddTrack(newTrack(t, http.MethodGet, "http://example.com/a", http.StatusOK, []byte("a2")))
	require.NoError(t, k7.Save())

	loaded, err := cassette.LoadCassette(name)
	require.NoError(t, err)

	isA := func(trk *track.Track) bool { return trk.Request.URL.Path == "/a" }

	trk, ok := loaded.ReplayMatching(isA, false)
	require.True(t, ok)
	assert.Equal(t, []byte("a1"), trk.Response.Body)

	trk, ok = loaded.ReplayMatching(isA, false)
	require.True(t, ok)
	assert.Equal(t, []byte("a2"), trk.Response.Body)

	_, ok = loaded.ReplayMatching(isA, false)
	assert.False(t, ok)

	trk, ok = loaded.ReplayMatching(isA, true)
	require.True(t, ok)
	assert.Equal(t, []byte("a1"), trk.Response.Body)

	assert.EqualValues(t, 3, loaded.Stats().TracksPlayed)
}

func TestCassette_ReadErrorIsReported(t *testing.T) {
	dir := t.TempDir()

	// a directory cannot be read as a file
	_, err := cassette.LoadCassette(dir)
	require.Error(t, err)
}

func TestDescribe(t *testing.T) {
	dir := t.TempDir()

	crypter, err := encryption.NewChaCha20Poly1305WithRandomNonceGenerator([]byte("12345678901234567890123456789012"))
	require.NoError(t, err)

	plain := cassette.NewCassette(filepath.Join(dir, "plain.json.gz"))
	plain.AddTrack(newTrack(t, http.MethodGet, "http://example.com", http.StatusOK, nil))
	require.NoError(t, plain.Save())

	secret := cassette.NewCassette(filepath.Join(dir, "secret.yaml"), cassette.WithCrypter(crypter))
	secret.AddTrack(newTrack(t, http.MethodGet, "http://example.com", http.StatusOK, nil))
	secret.AddTrack(newTrack(t, http.MethodGet, "http://example.com", http.StatusOK, nil))
	require.NoError(t, secret.Save())

	d, err := cassette.Describe(plain.Name())
	require.NoError(t, err)
	assert.Equal(t, 1, d.Tracks)
	assert.True(t, d.LongPlay)
	assert.False(t, d.Encrypted)
	assert.Equal(t, cassette.SerializerJSON, d.Serializer)

	d, err = cassette.Describe(secret.Name())
	require.NoError(t, err)
	assert.True(t, d.Encrypted)
	assert.Equal(t, -1, d.Tracks)

	d, err = cassette.Describe(secret.Name(), cassette.WithCrypter(crypter))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Tracks)
}

func TestCassette_TLSIsNotPersisted(t *testing.T) {
	name := filepath.Join(t.TempDir(), uuid.NewString()+".yaml")

	trk := newTrack(t, http.MethodGet, "https://example.com/secure", http.StatusOK, []byte("ok"))
	trk.Response.TLS = &tls.ConnectionState{Version: tls.VersionTLS13, HandshakeComplete: true}

	k7, err := cassette.LoadCassette(name)
	require.NoError(t, err)
	k7.AddTrack(trk)
	require.NoError(t, k7.Save())

	loaded, err := cassette.LoadCassette(name)
	require.NoError(t, err)
	require.EqualValues(t, 1, loaded.NumberOfTracks())

	replayed := loaded.Track(0)
	require.NotNil(t, replayed.Response)
	assert.Nil(t, replayed.Response.TLS)
	assert.Equal(t, "ok", string(replayed.Response.Body))
}
