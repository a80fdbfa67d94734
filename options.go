package vcrfixture

import (
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/seborama/vcrfixture/vcr"
)

// Flag names registered on the test binary.
const (
	FlagRecordMode = "vcr-record"
	FlagDisableVCR = "disable-vcr"
)

// Environment variables read by OptionsFromEnv.
const (
	EnvRecordMode = "VCR_RECORD"
	EnvDisableVCR = "DISABLE_VCR"
)

// Options holds the operator overrides. They take precedence over any
// configuration in the test code.
type Options struct {
	// RecordMode overrides the record mode of every cassette. Empty when unset.
	RecordMode vcr.RecordMode

	// DisableVCR stops cassettes from being replayed or saved.
	DisableVCR bool
}

// RegisterFlags registers the recorder flags on fs.
// The returned Options is populated when fs is parsed.
func RegisterFlags(fs *flag.FlagSet) *Options {
	opts := &Options{}

	fs.Var(&recordModeValue{mode: &opts.RecordMode}, FlagRecordMode,
		"Set the recording mode for the HTTP recorder: "+joinRecordModes())
	fs.BoolVar(&opts.DisableVCR, FlagDisableVCR, false,
		"Run tests without playing back from, or recording to, cassettes")

	return opts
}

// OptionsFromEnv reads the options from the environment, after loading the
// given dotenv files, if any. Variables already set in the environment win over
// the files.
func OptionsFromEnv(files ...string) (Options, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Options{}, errors.Wrap(err, "failed to load environment files")
		}
	}

	var opts Options

	if v := os.Getenv(EnvRecordMode); v != "" {
		mode, err := vcr.ParseRecordMode(v)
		if err != nil {
			return Options{}, errors.Wrap(err, EnvRecordMode)
		}
		opts.RecordMode = mode
	}

	if v := os.Getenv(EnvDisableVCR); v != "" {
		disable, err := strconv.ParseBool(v)
		if err != nil {
			return Options{}, errors.Wrap(err, EnvDisableVCR)
		}
		opts.DisableVCR = disable
	}

	return opts, nil
}

// Merge returns o overridden by the fields set in other.
func (o Options) Merge(other Options) Options {
	if other.RecordMode != "" {
		o.RecordMode = other.RecordMode
	}

	if other.DisableVCR {
		o.DisableVCR = true
	}

	return o
}

// recordModeValue is a flag.Value that only accepts the known record modes.
type recordModeValue struct {
	mode *vcr.RecordMode
}

func (v *recordModeValue) String() string {
	if v == nil || v.mode == nil {
		return ""
	}

	return string(*v.mode)
}

func (v *recordModeValue) Set(s string) error {
	mode, err := vcr.ParseRecordMode(s)
	if err != nil {
		return err
	}

	*v.mode = mode

	return nil
}

func joinRecordModes() string {
	var s string
	for i, m := range vcr.RecordModes {
		if i > 0 {
			s += ", "
		}
		s += string(m)
	}

	return s
}
