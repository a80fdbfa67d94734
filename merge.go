package vcrfixture

import (
	"github.com/seborama/vcrfixture/cassette/track"
	"github.com/seborama/vcrfixture/vcr"
)

// updateSettings layers over base, in order: the settings of the closest vcr
// marker of node, the record mode override and the disable override.
func updateSettings(base []vcr.Setting, node *Node, opts Options) []vcr.Setting {
	settings := append([]vcr.Setting(nil), base...)

	if marker, ok := node.ClosestMarker(MarkerName); ok {
		settings = append(settings, marker.Settings...)
	}

	if opts.RecordMode != "" {
		settings = append(settings, vcr.WithRecordMode(opts.RecordMode))
	}

	if opts.DisableVCR {
		settings = append(settings, disableSettings()...)
	}

	return settings
}

// disableSettings record new episodes but discard every response, so that
// nothing is played back nor saved.
func disableSettings() []vcr.Setting {
	return []vcr.Setting{
		vcr.WithRecordMode(vcr.RecordModeNewEpisodes),
		vcr.WithBeforeRecordResponse(discardResponse),
	}
}

func discardResponse(*track.Response) *track.Response {
	return nil
}
