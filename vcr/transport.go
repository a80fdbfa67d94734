package vcr

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/seborama/vcrfixture/cassette"
	"github.com/seborama/vcrfixture/cassette/track"
)

// vcrTransport is the heart of VCR. It implements
// http.RoundTripper that wraps over the default
// one provided by Go's http package or a custom one
// if provided with WithClient.
type vcrTransport struct {
	pcb        *printedCircuitBoard
	cassette   *cassette.Cassette
	transport  http.RoundTripper
	recordMode RecordMode
	logger     *slog.Logger
	closed     atomic.Bool
}

// RoundTrip is an implementation of http.RoundTripper.
func (t *vcrTransport) RoundTrip(httpRequest *http.Request) (*http.Response, error) {
	if t.closed.Load() {
		return nil, errors.Wrapf(ErrCassetteClosed, "%s %s", httpRequest.Method, httpRequest.URL)
	}

	liveRequest := track.ToRequest(track.CloneHTTPRequest(httpRequest))
	request := t.pcb.filterRequest(liveRequest.Clone())

	if request != nil && t.recordMode != RecordModeAll {
		httpResponse, found, err := t.pcb.seekTrack(t.cassette, request, liveRequest, httpRequest)
		if found {
			t.logger.Debug("replaying track",
				slog.String("cassette", t.cassette.Name()),
				slog.String("method", httpRequest.Method),
				slog.String("url", httpRequest.URL.String()))
			return httpResponse, err
		}
	}

	if request != nil && !t.canRecord() {
		return nil, errors.Wrapf(ErrCannotOverwriteExistingCassette,
			"no track matches %s %s in cassette '%s' with record mode '%s'",
			httpRequest.Method, httpRequest.URL, t.cassette.Name(), t.recordMode)
	}

	// Note: by convention resp should be nil if an error occurs with HTTP
	httpResponse, reqErr := t.transport.RoundTrip(httpRequest)

	if request == nil {
		return httpResponse, reqErr
	}

	newTrack := track.NewTrack(request, track.ToResponse(httpResponse), reqErr)

	if !t.pcb.filterResponse(newTrack) {
		t.cassette.DiscardTrack()
		t.logger.Debug("discarding track",
			slog.String("cassette", t.cassette.Name()),
			slog.String("method", httpRequest.Method),
			slog.String("url", httpRequest.URL.String()))
		return httpResponse, reqErr
	}

	t.pcb.mutateTrackRecording(newTrack)
	t.cassette.AddTrack(newTrack)

	t.logger.Debug("recording track",
		slog.String("cassette", t.cassette.Name()),
		slog.String("method", httpRequest.Method),
		slog.String("url", httpRequest.URL.String()))

	return httpResponse, reqErr
}

func (t *vcrTransport) canRecord() bool {
	switch t.recordMode {
	case RecordModeNone:
		return false
	case RecordModeOnce:
		return !t.cassette.Exists()
	default:
		return true
	}
}
