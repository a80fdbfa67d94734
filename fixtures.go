package vcrfixture

import (
	"path/filepath"

	"github.com/seborama/vcrfixture/vcr"
)

// CassetteDirName is the directory, next to the test file, that holds the cassettes.
const CassetteDirName = "cassettes"

// Fixtures are the overridable building blocks of the recorder configuration.
// A nil field falls back to the enclosing scope, then to the default.
//
// CassetteDir and VCRConfig are module scoped: they are only honoured at
// module level. CassetteName and CassetteConfig are test scoped and may also
// be overridden by a group.
type Fixtures struct {
	// CassetteDir is vcr_cassette_dir. The default is <dir of the test file>/cassettes.
	CassetteDir func(module *Node) string

	// VCRConfig is vcr_config, the settings every cassette of the module starts from.
	VCRConfig func() []vcr.Setting

	// CassetteName is vcr_cassette_name. The default is <Group>.<test> or <test>.
	CassetteName func(r *Request) string

	// CassetteConfig is vcr_cassette_config, the per-test settings.
	CassetteConfig func(r *Request) []vcr.Setting
}

// override returns f with the fields set in o replacing its own.
func (f Fixtures) override(o Fixtures) Fixtures {
	if o.CassetteDir != nil {
		f.CassetteDir = o.CassetteDir
	}
	if o.VCRConfig != nil {
		f.VCRConfig = o.VCRConfig
	}
	if o.CassetteName != nil {
		f.CassetteName = o.CassetteName
	}
	if o.CassetteConfig != nil {
		f.CassetteConfig = o.CassetteConfig
	}

	return f
}

// testScoped keeps only the test scoped fixtures of f.
func (f Fixtures) testScoped() Fixtures {
	return Fixtures{
		CassetteName:   f.CassetteName,
		CassetteConfig: f.CassetteConfig,
	}
}

func defaultFixtures() Fixtures {
	return Fixtures{
		CassetteDir:    DefaultCassetteDir,
		VCRConfig:      func() []vcr.Setting { return nil },
		CassetteName:   DefaultCassetteName,
		CassetteConfig: func(*Request) []vcr.Setting { return nil },
	}
}

// DefaultCassetteDir is the default vcr_cassette_dir fixture.
func DefaultCassetteDir(module *Node) string {
	return filepath.Join(filepath.Dir(module.File), CassetteDirName)
}

// DefaultCassetteName is the default vcr_cassette_name fixture.
func DefaultCassetteName(r *Request) string {
	if group := r.GroupName(); group != "" {
		return group + "." + r.TestName()
	}

	return r.TestName()
}
