package vcr

import (
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/seborama/vcrfixture/cassette"
)

// VCR is a recorder configuration shared by the cassettes opened from it.
// It is safe for concurrent use.
type VCR struct {
	settings []Setting
	cfg      *Config
}

// New creates a VCR from settings.
func New(settings ...Setting) (*VCR, error) {
	cfg, err := NewConfig(settings...)
	if err != nil {
		return nil, errors.Wrap(err, "invalid VCR configuration")
	}

	return &VCR{
		settings: append([]Setting(nil), settings...),
		cfg:      cfg,
	}, nil
}

// Config returns a copy of the configuration of the VCR.
func (v *VCR) Config() Config {
	return *v.cfg
}

// UseCassette opens the named cassette. settings are applied over the VCR's.
// The cassette path is the transformed join of the cassette library directory and name.
// The returned ControlPanel must be closed to persist the recorded tracks.
func (v *VCR) UseCassette(name string, settings ...Setting) (*ControlPanel, error) {
	all := make([]Setting, 0, len(v.settings)+len(settings))
	all = append(all, v.settings...)
	all = append(all, settings...)

	cfg, err := NewConfig(all...)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid configuration for cassette '%s'", name)
	}

	path := CassettePath(cfg, name)

	pcb, err := newPrintedCircuitBoard(cfg)
	if err != nil {
		return nil, err
	}

	k7, err := cassette.LoadCassette(path, cfg.cassetteOptions()...)
	if err != nil {
		return nil, err
	}

	k7.Rewrite(pcb.filterLoadedTrack)

	cfg.Logger.Debug("cassette opened",
		slog.String("cassette", path),
		slog.String("record_mode", cfg.RecordMode.String()),
		slog.Bool("exists", k7.Exists()),
		slog.Int("tracks", int(k7.NumberOfTracks())))

	return newControlPanel(cfg, pcb, k7), nil
}

// CassettePath computes the path of the named cassette under cfg.
func CassettePath(cfg *Config, name string) string {
	path := name
	if cfg.CassetteLibraryDir != "" && !filepath.IsAbs(name) {
		path = filepath.Join(cfg.CassetteLibraryDir, name)
	}

	if cfg.PathTransformer != nil {
		path = cfg.PathTransformer(path)
	}

	return path
}

func newControlPanel(cfg *Config, pcb *printedCircuitBoard, k7 *cassette.Cassette) *ControlPanel {
	var client http.Client
	if cfg.Client != nil {
		client = *cfg.Client
	}

	transport := client.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	vcrT := &vcrTransport{
		pcb:        pcb,
		cassette:   k7,
		transport:  transport,
		recordMode: cfg.RecordMode,
		logger:     cfg.Logger,
	}
	client.Transport = vcrT

	return &ControlPanel{
		client: &client,
		cfg:    cfg,
	}
}
