package cassette

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/seborama/vcrfixture/cassette/track"
)

const cassetteFormatVersion = 1

const bodyEncodingBase64 = "base64"

// cassetteFile is the persisted form of a cassette.
type cassetteFile struct {
	Version      int           `yaml:"version" json:"version"`
	Interactions []interaction `yaml:"interactions" json:"interactions"`
}

type interaction struct {
	Request  wireRequest   `yaml:"request" json:"request"`
	Response *wireResponse `yaml:"response,omitempty" json:"response,omitempty"`
	Error    *wireError    `yaml:"error,omitempty" json:"error,omitempty"`
}

type wireRequest struct {
	Method       string              `yaml:"method" json:"method"`
	URL          string              `yaml:"url" json:"url"`
	Proto        string              `yaml:"proto,omitempty" json:"proto,omitempty"`
	Host         string              `yaml:"host,omitempty" json:"host,omitempty"`
	Headers      map[string][]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Body         string              `yaml:"body,omitempty" json:"body,omitempty"`
	BodyEncoding string              `yaml:"body_encoding,omitempty" json:"body_encoding,omitempty"`
	Trailers     map[string][]string `yaml:"trailers,omitempty" json:"trailers,omitempty"`
}

type wireResponse struct {
	Status           string              `yaml:"status" json:"status"`
	StatusCode       int                 `yaml:"status_code" json:"status_code"`
	Proto            string              `yaml:"proto,omitempty" json:"proto,omitempty"`
	Headers          map[string][]string `yaml:"headers,omitempty" json:"headers,omitempty"`
	Body             string              `yaml:"body,omitempty" json:"body,omitempty"`
	BodyEncoding     string              `yaml:"body_encoding,omitempty" json:"body_encoding,omitempty"`
	TransferEncoding []string            `yaml:"transfer_encoding,omitempty" json:"transfer_encoding,omitempty"`
	Uncompressed     bool                `yaml:"uncompressed,omitempty" json:"uncompressed,omitempty"`
	Trailers         map[string][]string `yaml:"trailers,omitempty" json:"trailers,omitempty"`
}

type wireError struct {
	Type    string `yaml:"type" json:"type"`
	Message string `yaml:"message" json:"message"`
}

func toCassetteFile(tracks []track.Track) cassetteFile {
	f := cassetteFile{
		Version:      cassetteFormatVersion,
		Interactions: make([]interaction, 0, len(tracks)),
	}

	for i := range tracks {
		f.Interactions = append(f.Interactions, toInteraction(&tracks[i]))
	}

	return f
}

func toInteraction(trk *track.Track) interaction {
	req := trk.Request

	var rawURL string
	if req.URL != nil {
		rawURL = req.URL.String()
	}

	in := interaction{
		Request: wireRequest{
			Method:   req.Method,
			URL:      rawURL,
			Proto:    req.Proto,
			Host:     req.Host,
			Headers:  req.Header,
			Trailers: req.Trailer,
		},
	}
	in.Request.Body, in.Request.BodyEncoding = encodeBody(req.Body)

	if resp := trk.Response; resp != nil {
		in.Response = &wireResponse{
			Status:           resp.Status,
			StatusCode:       resp.StatusCode,
			Proto:            resp.Proto,
			Headers:          resp.Header,
			TransferEncoding: resp.TransferEncoding,
			Uncompressed:     resp.Uncompressed,
			Trailers:         resp.Trailer,
		}
		in.Response.Body, in.Response.BodyEncoding = encodeBody(resp.Body)
	}

	if trk.ErrType != nil {
		in.Error = &wireError{Type: *trk.ErrType}
		if trk.ErrMsg != nil {
			in.Error.Message = *trk.ErrMsg
		}
	}

	return in
}

func (f cassetteFile) toTracks() ([]track.Track, error) {
	if f.Version > cassetteFormatVersion {
		return nil, errors.Errorf("unsupported cassette format version %d", f.Version)
	}

	tracks := make([]track.Track, 0, len(f.Interactions))

	for i, in := range f.Interactions {
		trk, err := in.toTrack()
		if err != nil {
			return nil, errors.Wrapf(err, "interaction %d", i)
		}

		tracks = append(tracks, *trk)
	}

	return tracks, nil
}

func (in interaction) toTrack() (*track.Track, error) {
	var reqURL *url.URL
	if in.Request.URL != "" {
		var err error
		if reqURL, err = url.Parse(in.Request.URL); err != nil {
			return nil, errors.Wrap(err, "request URL")
		}
	}

	reqBody, err := decodeBody(in.Request.Body, in.Request.BodyEncoding)
	if err != nil {
		return nil, errors.Wrap(err, "request body")
	}

	req := track.Request{
		Method:        in.Request.Method,
		URL:           reqURL,
		Proto:         in.Request.Proto,
		Header:        http.Header(in.Request.Headers),
		Body:          reqBody,
		ContentLength: int64(len(reqBody)),
		Host:          in.Request.Host,
		Trailer:       http.Header(in.Request.Trailers),
	}
	req.ProtoMajor, req.ProtoMinor, _ = http.ParseHTTPVersion(req.Proto)

	trk := &track.Track{Request: req}

	if in.Response != nil {
		respBody, err := decodeBody(in.Response.Body, in.Response.BodyEncoding)
		if err != nil {
			return nil, errors.Wrap(err, "response body")
		}

		resp := &track.Response{
			Status:           in.Response.Status,
			StatusCode:       in.Response.StatusCode,
			Proto:            in.Response.Proto,
			Header:           http.Header(in.Response.Headers),
			Body:             respBody,
			ContentLength:    int64(len(respBody)),
			TransferEncoding: in.Response.TransferEncoding,
			Uncompressed:     in.Response.Uncompressed,
			Trailer:          http.Header(in.Response.Trailers),
		}
		resp.ProtoMajor, resp.ProtoMinor, _ = http.ParseHTTPVersion(resp.Proto)

		trk.Response = resp
	}

	if in.Error != nil {
		errType, errMsg := in.Error.Type, in.Error.Message
		trk.ErrType = &errType
		trk.ErrMsg = &errMsg
	}

	return trk, nil
}

func encodeBody(body []byte) (string, string) {
	if utf8.Valid(body) {
		return string(body), ""
	}

	return base64.StdEncoding.EncodeToString(body), bodyEncodingBase64
}

func decodeBody(body, encoding string) ([]byte, error) {
	switch encoding {
	case "":
		if body == "" {
			return nil, nil
		}
		return []byte(body), nil

	case bodyEncodingBase64:
		data, err := base64.StdEncoding.DecodeString(body)
		return data, errors.WithStack(err)

	default:
		return nil, errors.Errorf("unknown body encoding '%s'", encoding)
	}
}
