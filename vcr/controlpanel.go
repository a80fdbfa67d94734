package vcr

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/seborama/vcrfixture/cassette/track"
	"github.com/seborama/vcrfixture/stats"
)

// ControlPanel holds the parts of a VCR that can be interacted with while
// a cassette is in use.
type ControlPanel struct {
	// client is the HTTP client associated with the cassette.
	client *http.Client
	cfg    *Config

	closeOnce sync.Once
	closeErr  error
}

// HTTPClient returns the http.Client that contains the VCR.
func (controlPanel *ControlPanel) HTTPClient() *http.Client {
	return controlPanel.client
}

// Stats returns Stats about the cassette and VCR session.
func (controlPanel *ControlPanel) Stats() *stats.Stats {
	return controlPanel.vcrTransport().cassette.Stats()
}

// NumberOfTracks returns the number of tracks contained in the cassette.
func (controlPanel *ControlPanel) NumberOfTracks() int32 {
	return controlPanel.vcrTransport().cassette.NumberOfTracks()
}

// Path returns the location of the cassette in its store.
func (controlPanel *ControlPanel) Path() string {
	return controlPanel.vcrTransport().cassette.Name()
}

// Config returns a copy of the configuration the cassette was opened with.
func (controlPanel *ControlPanel) Config() Config {
	return *controlPanel.cfg
}

// AddRecordingMutators adds a set of recording Track Mutator's to the VCR.
func (controlPanel *ControlPanel) AddRecordingMutators(trackMutators ...track.Mutator) {
	controlPanel.vcrTransport().pcb.addRecordingMutators(trackMutators...)
}

// AddReplayingMutators adds a set of replaying Track Mutator's to the VCR.
// Replaying happens AFTER the request has been matched. As such, while the track's Request
// could be mutated, it will have no effect.
// However, the Request data can be referenced as part of mutating the Response.
func (controlPanel *ControlPanel) AddReplayingMutators(trackMutators ...track.Mutator) {
	controlPanel.vcrTransport().pcb.addReplayingMutators(trackMutators...)
}

// Close ejects the cassette, saving it when new tracks were recorded.
// Requests made after Close fail with ErrCassetteClosed.
// Close is idempotent.
func (controlPanel *ControlPanel) Close() error {
	controlPanel.closeOnce.Do(func() {
		t := controlPanel.vcrTransport()
		t.closed.Store(true)

		dirty := t.cassette.IsDirty()
		controlPanel.closeErr = t.cassette.Save()

		if dirty && controlPanel.closeErr == nil {
			controlPanel.cfg.Logger.Info("cassette saved",
				slog.String("cassette", t.cassette.Name()),
				slog.String("stats", t.cassette.Stats().String()))
		}
	})

	return controlPanel.closeErr
}

func (controlPanel *ControlPanel) vcrTransport() *vcrTransport {
	return controlPanel.client.Transport.(*vcrTransport)
}
