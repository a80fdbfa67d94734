package vcrfixture

import "github.com/seborama/vcrfixture/vcr"

// MarkerName is the name of the marker that activates the recorder for a test.
const MarkerName = "vcr"

// Marker is an annotation attached to a test, a group or a module.
type Marker struct {
	Name     string
	Settings []vcr.Setting
}

// Mark returns a vcr marker carrying settings. Its settings override the
// vcr_config and vcr_cassette_config fixtures of the tests it applies to.
func Mark(settings ...vcr.Setting) Marker {
	return NewMarker(MarkerName, settings...)
}

// NewMarker returns a marker with an arbitrary name.
func NewMarker(name string, settings ...vcr.Setting) Marker {
	return Marker{
		Name:     name,
		Settings: append([]vcr.Setting(nil), settings...),
	}
}
