// Package track holds the request/response pairs recorded on a cassette.
package track

import (
	"errors"
	"fmt"
	"net"
)

// Track is a recording (HTTP Request + Response) in a cassette.
type Track struct {
	Request  Request
	Response *Response
	ErrType  *string
	ErrMsg   *string

	// replayed indicates whether the track has already been processed in the cassette playback.
	replayed bool
}

// NewTrack creates a new Track.
func NewTrack(req *Request, resp *Response, reqErr error) *Track {
	var reqErrType, reqErrMsg *string
	if reqErr != nil {
		errType := fmt.Sprintf("%T", reqErr)
		errMsg := reqErr.Error()
		reqErrType = &errType
		reqErrMsg = &errMsg
	}

	var reqValue Request
	if req != nil {
		reqValue = *req.Clone()
	}

	return &Track{
		Request:  reqValue,
		Response: resp.Clone(),
		ErrType:  reqErrType,
		ErrMsg:   reqErrMsg,
	}
}

// GetRequest returns the HTTP Request object of this track.
func (t *Track) GetRequest() *Request {
	return &t.Request
}

// GetResponse returns a copy of the recorded Response.
// The error returned is the transport error recorded with the track, if any.
func (t *Track) GetResponse() (*Response, error) {
	if err := t.GetError(); err != nil {
		// By convention, when an HTTP error occurred, the Response should be nil.
		return nil, err
	}

	return t.Response.Clone(), nil
}

// GetError rebuilds the transport error recorded with the track, if any.
func (t *Track) GetError() error {
	if t.ErrType == nil {
		return nil
	}

	var errMsg string
	if t.ErrMsg != nil {
		errMsg = *t.ErrMsg
	}

	switch *t.ErrType {
	case "*net.OpError":
		return &net.OpError{
			Op:  "vcr",
			Net: "vcr",
			Err: errors.New(*t.ErrType + ": " + errMsg),
		}

	default:
		return errors.New(*t.ErrType + ": " + errMsg)
	}
}

// IsReplayed returns true if the Track has already been replayed, otherwise
// it returns false.
func (t *Track) IsReplayed() bool {
	return t.replayed
}

// SetReplayed sets the replays status of the track.
func (t *Track) SetReplayed(replayed bool) {
	t.replayed = replayed
}
