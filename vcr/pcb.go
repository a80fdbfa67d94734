package vcr

import (
	"net/http"
	"sync"

	"github.com/seborama/vcrfixture/cassette"
	"github.com/seborama/vcrfixture/cassette/track"
)

// printedCircuitBoard holds the facilities that influence how the
// recorder matches, records and replays tracks.
type printedCircuitBoard struct {
	requestMatcher        RequestMatcher
	filterHeaders         []string
	filterQueryParameters []string
	beforeRecordRequest   BeforeRecordRequestHook
	beforeRecordResponse  BeforeRecordResponseHook
	allowPlaybackRepeats  bool

	mutatorsMutex *sync.RWMutex

	// These mutators are applied before saving a track to a cassette.
	trackRecordingMutators track.Mutators

	// Replaying happens AFTER the request has been matched. As such, while the track's Request
	// could be mutated, it will have no effect.
	// However, the Request data can be referenced as part of mutating the Response.
	trackReplayingMutators track.Mutators
}

func newPrintedCircuitBoard(cfg *Config) (*printedCircuitBoard, error) {
	matcher, err := matcherFromNames(cfg.MatchOn)
	if err != nil {
		return nil, err
	}

	return &printedCircuitBoard{
		requestMatcher:         matcher,
		filterHeaders:          cfg.FilterHeaders,
		filterQueryParameters:  cfg.FilterQueryParameters,
		beforeRecordRequest:    cfg.BeforeRecordRequest,
		beforeRecordResponse:   cfg.BeforeRecordResponse,
		allowPlaybackRepeats:   cfg.AllowPlaybackRepeats,
		mutatorsMutex:          &sync.RWMutex{},
		trackRecordingMutators: cfg.RecordingMutators,
		trackReplayingMutators: cfg.ReplayingMutators,
	}, nil
}

// filterRequest applies the request filters and hook to req, in place.
// A nil result means the request must be ignored by the recorder.
func (pcb *printedCircuitBoard) filterRequest(req *track.Request) *track.Request {
	track.DeleteRequestHeaders(req, pcb.filterHeaders...)
	track.DeleteRequestQueryParameters(req, pcb.filterQueryParameters...)

	if pcb.beforeRecordRequest != nil {
		return pcb.beforeRecordRequest(req)
	}

	return req
}

// filterResponse applies the response hook. false means the track must be discarded.
func (pcb *printedCircuitBoard) filterResponse(trk *track.Track) bool {
	if pcb.beforeRecordResponse == nil {
		return true
	}

	resp := pcb.beforeRecordResponse(trk.Response)
	if resp == nil {
		return false
	}

	trk.Response = resp

	return true
}

// filterLoadedTrack passes a track read from a cassette through the same
// hooks as a track being recorded.
func (pcb *printedCircuitBoard) filterLoadedTrack(trk *track.Track) *track.Track {
	req := pcb.filterRequest(&trk.Request)
	if req == nil {
		return nil
	}
	trk.Request = *req

	if !pcb.filterResponse(trk) {
		return nil
	}

	return trk
}

// seekTrack replays the first unplayed track matching request.
// liveRequest is made available to the replaying mutators as the response's request.
func (pcb *printedCircuitBoard) seekTrack(k7 *cassette.Cassette, request, liveRequest *track.Request, httpRequest *http.Request) (*http.Response, bool, error) {
	trk, ok := k7.ReplayMatching(func(t *track.Track) bool {
		return pcb.requestMatcher(request, t.GetRequest())
	}, pcb.allowPlaybackRepeats)
	if !ok {
		return nil, false, nil
	}

	if trk.Response != nil {
		trk.Response.Request = liveRequest
	}

	pcb.mutateTrackReplaying(trk)

	resp, err := trk.GetResponse()
	if err != nil {
		return nil, true, err
	}

	return track.ToHTTPResponse(resp, httpRequest), true, nil
}

func (pcb *printedCircuitBoard) mutateTrackRecording(t *track.Track) {
	pcb.mutatorsMutex.RLock()
	defer pcb.mutatorsMutex.RUnlock()

	pcb.trackRecordingMutators.Mutate(t)
}

func (pcb *printedCircuitBoard) mutateTrackReplaying(t *track.Track) {
	pcb.mutatorsMutex.RLock()
	defer pcb.mutatorsMutex.RUnlock()

	pcb.trackReplayingMutators.Mutate(t)
}

func (pcb *printedCircuitBoard) addRecordingMutators(mutators ...track.Mutator) {
	pcb.mutatorsMutex.Lock()
	defer pcb.mutatorsMutex.Unlock()

	pcb.trackRecordingMutators = pcb.trackRecordingMutators.Add(mutators...)
}

func (pcb *printedCircuitBoard) addReplayingMutators(mutators ...track.Mutator) {
	pcb.mutatorsMutex.Lock()
	defer pcb.mutatorsMutex.Unlock()

	pcb.trackReplayingMutators = pcb.trackReplayingMutators.Add(mutators...)
}
