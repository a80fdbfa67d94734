package vcr

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/seborama/vcrfixture/cassette"
	"github.com/seborama/vcrfixture/cassette/track"
	"github.com/seborama/vcrfixture/encryption"
)

// RecordMode controls when new tracks are recorded.
type RecordMode string

// Record modes.
const (
	RecordModeOnce        RecordMode = "once"
	RecordModeNewEpisodes RecordMode = "new_episodes"
	RecordModeNone        RecordMode = "none"
	RecordModeAll         RecordMode = "all"
)

// RecordModes lists the valid record modes.
var RecordModes = []RecordMode{RecordModeOnce, RecordModeNewEpisodes, RecordModeNone, RecordModeAll}

// ParseRecordMode validates s as a RecordMode.
func ParseRecordMode(s string) (RecordMode, error) {
	for _, m := range RecordModes {
		if string(m) == s {
			return m, nil
		}
	}

	return "", errors.Errorf("invalid record mode '%s', expected one of %s", s, joinModes(RecordModes))
}

func (m RecordMode) String() string {
	return string(m)
}

func joinModes(modes []RecordMode) string {
	names := make([]string, 0, len(modes))
	for _, m := range modes {
		names = append(names, string(m))
	}

	return strings.Join(names, ", ")
}

// PathTransformer rewrites the path of a cassette before it is opened.
type PathTransformer func(path string) string

// EnsureSuffix returns a PathTransformer that appends suffix to paths that
// do not already end with it.
func EnsureSuffix(suffix string) PathTransformer {
	return func(path string) string {
		if strings.HasSuffix(path, suffix) {
			return path
		}
		return path + suffix
	}
}

// BeforeRecordRequestHook rewrites a request before it is matched or
// recorded. Returning nil ignores the request: it goes to the live server
// and is never recorded.
type BeforeRecordRequestHook func(req *track.Request) *track.Request

// BeforeRecordResponseHook rewrites a response before it is recorded.
// resp is nil when the track holds a transport error.
// Returning nil discards the track.
type BeforeRecordResponseHook func(resp *track.Response) *track.Response

// DefaultMatchOn is the list of matchers used when none is configured.
var DefaultMatchOn = []string{"method", "scheme", "host", "port", "path", "query"}

// Setting defines an optional functional parameter as received by New() and UseCassette().
type Setting func(cfg *Config)

// Config holds the recorder configuration. Later settings override earlier ones,
// except for mutators, which accumulate.
type Config struct {
	CassetteLibraryDir    string
	PathTransformer       PathTransformer
	RecordMode            RecordMode
	Serializer            string
	MatchOn               []string
	FilterHeaders         []string
	FilterQueryParameters []string
	BeforeRecordRequest   BeforeRecordRequestHook
	BeforeRecordResponse  BeforeRecordResponseHook
	AllowPlaybackRepeats  bool
	Client                *http.Client
	Store                 cassette.FileIO
	Crypter               cassette.Crypter
	RecordingMutators     track.Mutators
	ReplayingMutators     track.Mutators
	Logger                *slog.Logger

	errs []error
}

// NewConfig applies settings over the defaults and validates the result.
func NewConfig(settings ...Setting) (*Config, error) {
	cfg := &Config{
		RecordMode: RecordModeOnce,
		MatchOn:    append([]string(nil), DefaultMatchOn...),
		Logger:     slog.Default(),
	}

	for _, setting := range settings {
		if setting != nil {
			setting(cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if len(cfg.errs) > 0 {
		return cfg.errs[0]
	}

	if _, err := ParseRecordMode(string(cfg.RecordMode)); err != nil {
		return err
	}

	if cfg.Serializer != "" {
		if _, err := cassette.SerializerFor(cfg.Serializer); err != nil {
			return err
		}
	}

	if _, err := matcherFromNames(cfg.MatchOn); err != nil {
		return err
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return nil
}

// WithCassetteLibraryDir sets the directory cassette names are relative to.
func WithCassetteLibraryDir(dir string) Setting {
	return func(cfg *Config) {
		cfg.CassetteLibraryDir = dir
	}
}

// WithPathTransformer sets the cassette path transformer.
func WithPathTransformer(fn PathTransformer) Setting {
	return func(cfg *Config) {
		cfg.PathTransformer = fn
	}
}

// WithRecordMode sets the record mode.
func WithRecordMode(mode RecordMode) Setting {
	return func(cfg *Config) {
		cfg.RecordMode = mode
	}
}

// WithSerializer forces the cassette serializer ("yaml" or "json").
// By default, it is derived from the cassette file extension.
func WithSerializer(name string) Setting {
	return func(cfg *Config) {
		cfg.Serializer = name
	}
}

// WithMatchOn replaces the list of request matchers.
func WithMatchOn(names ...string) Setting {
	return func(cfg *Config) {
		cfg.MatchOn = append([]string(nil), names...)
	}
}

// WithFilterHeaders removes the named request headers before recording and matching.
func WithFilterHeaders(keys ...string) Setting {
	return func(cfg *Config) {
		cfg.FilterHeaders = append([]string(nil), keys...)
	}
}

// WithFilterQueryParameters removes the named query parameters before recording and matching.
func WithFilterQueryParameters(names ...string) Setting {
	return func(cfg *Config) {
		cfg.FilterQueryParameters = append([]string(nil), names...)
	}
}

// WithBeforeRecordRequest sets the request hook.
func WithBeforeRecordRequest(hook BeforeRecordRequestHook) Setting {
	return func(cfg *Config) {
		cfg.BeforeRecordRequest = hook
	}
}

// WithBeforeRecordResponse sets the response hook.
func WithBeforeRecordResponse(hook BeforeRecordResponseHook) Setting {
	return func(cfg *Config) {
		cfg.BeforeRecordResponse = hook
	}
}

// WithAllowPlaybackRepeats lets a track be replayed more than once.
func WithAllowPlaybackRepeats(allow bool) Setting {
	return func(cfg *Config) {
		cfg.AllowPlaybackRepeats = allow
	}
}

// WithClient is an optional functional parameter to provide a VCR with
// a custom HTTP client.
func WithClient(httpClient *http.Client) Setting {
	return func(cfg *Config) {
		cfg.Client = httpClient
	}
}

// WithStore sets the storage cassettes are read from and written to.
func WithStore(store cassette.FileIO) Setting {
	return func(cfg *Config) {
		cfg.Store = store
	}
}

// WithCrypter encrypts cassettes at rest.
func WithCrypter(crypter cassette.Crypter) Setting {
	return func(cfg *Config) {
		cfg.Crypter = crypter
	}
}

// WithCipher encrypts cassettes with the key read from keyFile.
// kind is one of the encryption package's Kind constants.
func WithCipher(kind, keyFile string) Setting {
	return func(cfg *Config) {
		crypter, err := encryption.NewCrypterFromKeyFile(kind, keyFile)
		if err != nil {
			cfg.errs = append(cfg.errs, errors.Wrap(err, "cipher"))
			return
		}

		cfg.Crypter = crypter
	}
}

// WithTrackRecordingMutators is an optional functional parameter to provide a VCR with
// a set of track mutators applied when recording a track to a cassette.
func WithTrackRecordingMutators(mutators ...track.Mutator) Setting {
	return func(cfg *Config) {
		cfg.RecordingMutators = cfg.RecordingMutators.Add(mutators...)
	}
}

// WithTrackReplayingMutators is an optional functional parameter to provide a VCR with
// a set of track mutators applied when replaying a track to a cassette.
// Replaying happens AFTER the request has been matched. As such, while the track's Request could be
// mutated, it will have no effect.
func WithTrackReplayingMutators(mutators ...track.Mutator) Setting {
	return func(cfg *Config) {
		cfg.ReplayingMutators = cfg.ReplayingMutators.Add(mutators...)
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Setting {
	return func(cfg *Config) {
		cfg.Logger = logger
	}
}

// FailWith makes the configuration invalid. It lets setting producers
// (such as configuration file loaders) report errors lazily.
func FailWith(err error) Setting {
	return func(cfg *Config) {
		if err != nil {
			cfg.errs = append(cfg.errs, err)
		}
	}
}

func (cfg *Config) cassetteOptions() []cassette.Option {
	opts := []cassette.Option{
		cassette.WithStore(cfg.Store),
		cassette.WithCrypter(cfg.Crypter),
	}

	if cfg.Serializer != "" {
		// validated by NewConfig
		serializer, _ := cassette.SerializerFor(cfg.Serializer)
		opts = append(opts, cassette.WithSerializer(serializer))
	}

	return opts
}
