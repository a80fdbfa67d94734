package vcrfixture

import (
	"flag"
	"log/slog"
	"runtime"
	"sort"
	"sync"
)

const markerDescription = "vcr: Mark the test as using the HTTP recorder."

// Plugin is the process-wide registration of the recorder options and markers.
type Plugin struct {
	flags  *Options
	env    Options
	logger *slog.Logger

	markersMutex sync.RWMutex
	markers      map[string]string
}

// PluginOption configures a Plugin.
type PluginOption func(*Plugin)

// WithPluginLogger sets the logger of the plugin and of the recorders it builds.
func WithPluginLogger(logger *slog.Logger) PluginOption {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithEnvOptions sets options that apply unless overridden by the flags.
// See OptionsFromEnv.
func WithEnvOptions(env Options) PluginOption {
	return func(p *Plugin) {
		p.env = env
	}
}

// Register registers the recorder flags on fs and the vcr marker.
// It is meant to be called once per test binary, typically with flag.CommandLine.
func Register(fs *flag.FlagSet, options ...PluginOption) *Plugin {
	return NewPlugin(RegisterFlags(fs), options...)
}

// NewPlugin creates a Plugin from already registered or hand-built options.
// A nil opts means no override.
func NewPlugin(opts *Options, options ...PluginOption) *Plugin {
	if opts == nil {
		opts = &Options{}
	}

	p := &Plugin{
		flags:   opts,
		logger:  slog.Default(),
		markers: map[string]string{},
	}

	for _, option := range options {
		option(p)
	}

	p.AddMarker(MarkerName, markerDescription)

	return p
}

// Options returns the effective operator options. They are read on every
// call because flags are parsed after the plugin is registered.
func (p *Plugin) Options() Options {
	return p.env.Merge(*p.flags)
}

// AddMarker registers a marker name with its description.
func (p *Plugin) AddMarker(name, description string) {
	p.markersMutex.Lock()
	defer p.markersMutex.Unlock()

	p.markers[name] = description
}

// Markers lists the descriptions of the registered markers, sorted by name.
func (p *Plugin) Markers() []string {
	p.markersMutex.RLock()
	defer p.markersMutex.RUnlock()

	names := make([]string, 0, len(p.markers))
	for name := range p.markers {
		names = append(names, name)
	}
	sort.Strings(names)

	descriptions := make([]string, 0, len(names))
	for _, name := range names {
		descriptions = append(descriptions, p.markers[name])
	}

	return descriptions
}

// Logger returns the logger of the plugin.
func (p *Plugin) Logger() *slog.Logger {
	return p.logger
}

// Module declares a module scope for the calling test file.
// The cassette directory is derived from the caller's file, unless WithFile is given.
func (p *Plugin) Module(options ...ModuleOption) *Module {
	var file string
	if _, callerFile, _, ok := runtime.Caller(1); ok {
		file = callerFile
	}

	return newModule(p, file, options...)
}
