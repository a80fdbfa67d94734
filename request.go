package vcrfixture

import (
	"log/slog"
	"net/http"
	"sync"
	"testing"

	"github.com/seborama/vcrfixture/vcr"
)

// Request gives a test access to its fixtures.
type Request struct {
	t        testing.TB
	module   *Module
	node     *Node
	fixtures Fixtures

	cassetteOnce sync.Once
	cassette     *vcr.ControlPanel
}

func newRequest(t testing.TB, module *Module, node *Node, fixtures Fixtures) *Request {
	return &Request{
		t:        t,
		module:   module,
		node:     node,
		fixtures: fixtures,
	}
}

// T returns the test the request belongs to.
func (r *Request) T() testing.TB {
	return r.t
}

// Node returns the test node.
func (r *Request) Node() *Node {
	return r.node
}

// ClosestMarker returns the marker called name closest to the test.
func (r *Request) ClosestMarker(name string) (Marker, bool) {
	return r.node.ClosestMarker(name)
}

// Options returns the operator options in effect.
func (r *Request) Options() Options {
	return r.module.plugin.Options()
}

// TestName returns the name of the test, relative to its group.
func (r *Request) TestName() string {
	return r.node.Name
}

// GroupName returns the name of the innermost group of the test, or "".
func (r *Request) GroupName() string {
	if group := r.node.Group(); group != nil {
		return group.Name
	}

	return ""
}

// CassetteDir resolves the vcr_cassette_dir fixture.
func (r *Request) CassetteDir() string {
	return r.module.CassetteDir()
}

// CassetteName resolves the vcr_cassette_name fixture.
func (r *Request) CassetteName() string {
	return r.fixtures.CassetteName(r)
}

// VCR resolves the vcr fixture. The test fails if the recorder cannot be built.
func (r *Request) VCR() *vcr.VCR {
	r.t.Helper()

	recorder, err := r.module.VCR()
	if err != nil {
		r.t.Fatalf("vcr: %+v", err)
	}

	return recorder
}

// CassetteSettings returns the vcr_cassette_config fixture merged with the
// closest marker and the operator options.
func (r *Request) CassetteSettings() []vcr.Setting {
	return updateSettings(r.fixtures.CassetteConfig(r), r.node, r.Options())
}

// Cassette resolves the vcr_cassette fixture: the cassette of the test.
// It is opened on first call and closed when the test and its subtests complete.
func (r *Request) Cassette() *vcr.ControlPanel {
	r.t.Helper()

	r.cassetteOnce.Do(func() {
		r.cassette = r.openCassette()
	})

	if r.cassette == nil {
		r.t.FailNow()
	}

	return r.cassette
}

// HTTPClient returns the HTTP client of the test's cassette.
func (r *Request) HTTPClient() *http.Client {
	r.t.Helper()

	return r.Cassette().HTTPClient()
}

func (r *Request) openCassette() *vcr.ControlPanel {
	r.t.Helper()

	name := r.CassetteName()
	logger := r.module.plugin.Logger()

	cp, err := r.VCR().UseCassette(name, r.CassetteSettings()...)
	if err != nil {
		r.t.Errorf("vcr: failed to open cassette '%s': %+v", name, err)
		return nil
	}

	logger.Debug("cassette in use",
		slog.String("test", r.t.Name()),
		slog.String("cassette", cp.Path()))

	r.t.Cleanup(func() {
		if err := cp.Close(); err != nil {
			r.t.Errorf("vcr: failed to close cassette '%s': %+v", cp.Path(), err)
			return
		}

		logger.Debug("cassette released",
			slog.String("test", r.t.Name()),
			slog.String("cassette", cp.Path()),
			slog.String("stats", cp.Stats().String()))
	})

	return cp
}
