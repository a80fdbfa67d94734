package stats

import "fmt"

// Stats holds information about a cassette and its recorder session.
type Stats struct {
	// TotalTracks is the number of tracks currently held by the cassette.
	TotalTracks int32

	// TracksLoaded is the number of tracks read from the cassette file and kept
	// after the before-record hooks were applied.
	TracksLoaded int32

	// TracksDiscarded is the number of tracks dropped by a before-record hook,
	// whether at load time or when recording.
	TracksDiscarded int32

	// TracksRecorded is the number of new tracks captured during the session.
	TracksRecorded int32

	// TracksPlayed is the number of tracks played back from the cassette.
	TracksPlayed int32
}

func (s Stats) String() string {
	return fmt.Sprintf("total=%d loaded=%d discarded=%d recorded=%d played=%d",
		s.TotalTracks, s.TracksLoaded, s.TracksDiscarded, s.TracksRecorded, s.TracksPlayed)
}
