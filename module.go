package vcrfixture

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/seborama/vcrfixture/vcr"
)

// Module is the module scope of a test file: it owns the recorder shared by
// the tests of the file.
type Module struct {
	plugin   *Plugin
	node     *Node
	fixtures Fixtures

	recorderOnce sync.Once
	recorder     *vcr.VCR
	recorderErr  error
}

// ModuleOption configures a Module.
type ModuleOption func(*Module)

// WithMarkers attaches markers to the module. They apply to all its tests.
func WithMarkers(markers ...Marker) ModuleOption {
	return func(m *Module) {
		m.node.Markers = append(m.node.Markers, markers...)
	}
}

// WithFixtures overrides fixtures at module level.
func WithFixtures(fixtures Fixtures) ModuleOption {
	return func(m *Module) {
		m.fixtures = m.fixtures.override(fixtures)
	}
}

// WithFile sets the test file of the module, which locates the default cassette directory.
func WithFile(path string) ModuleOption {
	return func(m *Module) {
		m.node.File = path
		m.node.Name = moduleName(path)
	}
}

func newModule(p *Plugin, file string, options ...ModuleOption) *Module {
	m := &Module{
		plugin: p,
		node: &Node{
			Name: moduleName(file),
			File: file,
			Kind: KindModule,
		},
		fixtures: defaultFixtures(),
	}

	for _, option := range options {
		option(m)
	}

	return m
}

func moduleName(file string) string {
	return strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
}

// Node returns the module node.
func (m *Module) Node() *Node {
	return m.node
}

// CassetteDir resolves the vcr_cassette_dir fixture.
func (m *Module) CassetteDir() string {
	return m.fixtures.CassetteDir(m.node)
}

// VCR resolves the vcr fixture: the recorder shared by the tests of the module.
// It is built on first use.
func (m *Module) VCR() (*vcr.VCR, error) {
	m.recorderOnce.Do(func() {
		base := []vcr.Setting{
			vcr.WithLogger(m.plugin.Logger()),
			vcr.WithCassetteLibraryDir(m.CassetteDir()),
			vcr.WithPathTransformer(vcr.EnsureSuffix(".yaml")),
		}
		base = append(base, m.fixtures.VCRConfig()...)

		m.recorder, m.recorderErr = vcr.New(updateSettings(base, m.node, m.plugin.Options())...)
		if m.recorderErr != nil {
			m.recorderErr = errors.Wrapf(m.recorderErr, "module '%s'", m.node.Name)
			return
		}

		m.plugin.Logger().Debug("recorder created",
			slog.String("module", m.node.Name),
			slog.String("cassette_dir", m.CassetteDir()))
	})

	return m.recorder, m.recorderErr
}

// Test runs fn as the body of the current test, t.
// When a vcr marker applies, the cassette is opened before fn and closed after the test.
func (m *Module) Test(t *testing.T, fn func(r *Request), markers ...Marker) {
	t.Helper()

	m.runTest(t, t.Name(), nil, m.fixtures.testScoped(), fn, markers)
}

// Run runs fn as the subtest name of t. See Test.
// Outside a group, nothing else qualifies the cassette, so its name is the
// full subtest name: TestX/test_qux is stored as cassettes/TestX/test_qux.yaml.
// Group.Run instead names the cassette <Group>.<subtest>, relative to t.
func (m *Module) Run(t *testing.T, name string, fn func(r *Request), markers ...Marker) bool {
	t.Helper()

	return t.Run(name, func(t *testing.T) {
		m.runTest(t, t.Name(), nil, m.fixtures.testScoped(), fn, markers)
	})
}

// Group declares a named group of tests, the equivalent of a test class.
func (m *Module) Group(name string, markers ...Marker) *Group {
	return &Group{
		module: m,
		node: &Node{
			Name:    name,
			File:    m.node.File,
			Kind:    KindGroup,
			Markers: append([]Marker(nil), markers...),
			Parent:  m.node,
		},
	}
}

func (m *Module) runTest(t *testing.T, name string, parent *Node, fixtures Fixtures, fn func(r *Request), markers []Marker) {
	t.Helper()

	if parent == nil {
		parent = m.node
	}

	node := &Node{
		Name:    name,
		File:    m.node.File,
		Kind:    KindTest,
		Markers: append([]Marker(nil), markers...),
		Parent:  parent,
	}

	r := newRequest(t, m, node, fixtures)

	if _, ok := node.ClosestMarker(MarkerName); ok {
		r.Cassette()
	}

	fn(r)
}

// Group is a named group of tests sharing markers and fixture overrides.
type Group struct {
	module   *Module
	node     *Node
	fixtures Fixtures
}

// Node returns the group node.
func (g *Group) Node() *Node {
	return g.node
}

// WithFixtures overrides the test scoped fixtures for the tests of the group.
func (g *Group) WithFixtures(fixtures Fixtures) *Group {
	g.fixtures = g.fixtures.override(fixtures.testScoped())
	return g
}

// Group declares a nested group.
func (g *Group) Group(name string, markers ...Marker) *Group {
	nested := g.module.Group(name, markers...)
	nested.node.Parent = g.node
	nested.fixtures = g.fixtures

	return nested
}

// Test runs fn as the body of the current test, t, as a member of the group.
// The test name is t.Name() relative to the group.
func (g *Group) Test(t *testing.T, fn func(r *Request), markers ...Marker) {
	t.Helper()

	g.module.runTest(t, g.relativeName(t.Name()), g.node, g.resolveFixtures(), fn, markers)
}

// Run runs fn as the subtest name of t, as a member of the group.
// The test name is relative to t, the group name qualifies the cassette.
func (g *Group) Run(t *testing.T, name string, fn func(r *Request), markers ...Marker) bool {
	t.Helper()

	parentName := t.Name()

	return t.Run(name, func(t *testing.T) {
		g.module.runTest(t, strings.TrimPrefix(t.Name(), parentName+"/"), g.node, g.resolveFixtures(), fn, markers)
	})
}

func (g *Group) resolveFixtures() Fixtures {
	return g.module.fixtures.testScoped().override(g.fixtures)
}

func (g *Group) relativeName(testName string) string {
	if rest, ok := strings.CutPrefix(testName, g.node.Name+"/"); ok {
		return rest
	}

	if i := strings.Index(testName, "/"+g.node.Name+"/"); i >= 0 {
		return testName[i+len(g.node.Name)+2:]
	}

	return testName[strings.LastIndex(testName, "/")+1:]
}
