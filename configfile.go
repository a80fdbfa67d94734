package vcrfixture

import (
	"context"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/seborama/vcrfixture/fileio"
	"github.com/seborama/vcrfixture/vcr"
)

// Storage backends of the configuration file.
const (
	StorageFile = "file"
	StorageS3   = "s3"
)

// FileConfig is the TOML representation of a recorder configuration.
//
//	record_mode = "new_episodes"
//	match_on = ["method", "uri"]
//	filter_headers = ["Authorization"]
//
//	[cipher]
//	kind = "chacha20poly1305"
//	key_file = "testdata/cassette.key"
type FileConfig struct {
	CassetteLibraryDir    string   `toml:"cassette_library_dir"`
	PathSuffix            string   `toml:"path_suffix"`
	RecordMode            string   `toml:"record_mode"`
	Serializer            string   `toml:"serializer"`
	MatchOn               []string `toml:"match_on"`
	FilterHeaders         []string `toml:"filter_headers"`
	FilterQueryParameters []string `toml:"filter_query_parameters"`
	AllowPlaybackRepeats  bool     `toml:"allow_playback_repeats"`
	Cipher                Cipher   `toml:"cipher"`
	Storage               Storage  `toml:"storage"`
}

// Cipher configures cassette encryption.
type Cipher struct {
	Kind    string `toml:"kind"`
	KeyFile string `toml:"key_file"`
}

// Storage selects where cassettes are kept.
type Storage struct {
	Backend string `toml:"backend"`
}

// LoadConfig reads a TOML recorder configuration and returns the equivalent settings.
func LoadConfig(path string) ([]vcr.Setting, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer func() { _ = file.Close() }()

	var cfg FileConfig

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config '%s'", path)
	}

	return cfg.Settings()
}

// ConfigFile returns a vcr_config fixture reading path. Errors surface when
// the recorder is built.
func ConfigFile(path string) func() []vcr.Setting {
	return func() []vcr.Setting {
		settings, err := LoadConfig(path)
		if err != nil {
			return []vcr.Setting{vcr.FailWith(err)}
		}

		return settings
	}
}

// Settings converts the configuration to recorder settings. Only the fields
// that are set produce a setting.
func (c FileConfig) Settings() ([]vcr.Setting, error) {
	var settings []vcr.Setting

	if c.CassetteLibraryDir != "" {
		settings = append(settings, vcr.WithCassetteLibraryDir(c.CassetteLibraryDir))
	}

	if c.PathSuffix != "" {
		settings = append(settings, vcr.WithPathTransformer(vcr.EnsureSuffix(c.PathSuffix)))
	}

	if c.RecordMode != "" {
		mode, err := vcr.ParseRecordMode(c.RecordMode)
		if err != nil {
			return nil, err
		}
		settings = append(settings, vcr.WithRecordMode(mode))
	}

	if c.Serializer != "" {
		settings = append(settings, vcr.WithSerializer(c.Serializer))
	}

	if len(c.MatchOn) > 0 {
		settings = append(settings, vcr.WithMatchOn(c.MatchOn...))
	}

	if len(c.FilterHeaders) > 0 {
		settings = append(settings, vcr.WithFilterHeaders(c.FilterHeaders...))
	}

	if len(c.FilterQueryParameters) > 0 {
		settings = append(settings, vcr.WithFilterQueryParameters(c.FilterQueryParameters...))
	}

	if c.AllowPlaybackRepeats {
		settings = append(settings, vcr.WithAllowPlaybackRepeats(true))
	}

	if c.Cipher.KeyFile != "" {
		settings = append(settings, vcr.WithCipher(c.Cipher.Kind, c.Cipher.KeyFile))
	}

	switch c.Storage.Backend {
	case "", StorageFile:
		// local files are the recorder's default store

	case StorageS3:
		store, err := fileio.NewAWSFromEnv(context.Background())
		if err != nil {
			return nil, errors.Wrap(err, "s3 storage")
		}
		settings = append(settings, vcr.WithStore(store))

	default:
		return nil, errors.Errorf("unknown storage backend '%s'", c.Storage.Backend)
	}

	return settings, nil
}
