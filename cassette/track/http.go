package track

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jinzhu/copier"
)

// Request is a track HTTP Request.
type Request struct {
	Method        string
	URL           *url.URL
	Proto         string
	ProtoMajor    int
	ProtoMinor    int
	Header        http.Header
	Body          []byte
	ContentLength int64
	Host          string
	Trailer       http.Header
}

// Clone returns a deep copy of r or nil if r is nil.
func (r *Request) Clone() *Request {
	if r == nil {
		return nil
	}

	return &Request{
		Method:        r.Method,
		URL:           cloneURL(r.URL),
		Proto:         r.Proto,
		ProtoMajor:    r.ProtoMajor,
		ProtoMinor:    r.ProtoMinor,
		Header:        r.Header.Clone(),
		Body:          cloneBytes(r.Body),
		ContentLength: r.ContentLength,
		Host:          r.Host,
		Trailer:       r.Trailer.Clone(),
	}
}

// ToRequest transcodes an HTTP Request to a track Request.
// The body of httpRequest is consumed and replaced with an identical reader.
func ToRequest(httpRequest *http.Request) *Request {
	if httpRequest == nil {
		return nil
	}

	// deal with body first because Trailers are sent after Body.Read returns io.EOF and Body.Close() was called.
	body := drainBody(&httpRequest.Body)

	return &Request{
		Method:        httpRequest.Method,
		URL:           cloneURL(httpRequest.URL),
		Proto:         httpRequest.Proto,
		ProtoMajor:    httpRequest.ProtoMajor,
		ProtoMinor:    httpRequest.ProtoMinor,
		Header:        httpRequest.Header.Clone(),
		Body:          body,
		ContentLength: httpRequest.ContentLength,
		Host:          httpRequest.Host,
		Trailer:       httpRequest.Trailer.Clone(),
	}
}

// Response is a track HTTP Response.
type Response struct {
	Status           string
	StatusCode       int
	Proto            string
	ProtoMajor       int
	ProtoMinor       int
	Header           http.Header
	Body             []byte
	ContentLength    int64
	TransferEncoding []string
	Uncompressed     bool
	Trailer          http.Header

	// TLS is kept for live responses and mutators; it is never persisted.
	TLS *tls.ConnectionState

	// Request is nil when recording. At replaying time only, it holds the
	// "current" HTTP request, for use by replaying mutators.
	Request *Request
}

// Clone returns a deep copy of r or nil if r is nil.
func (r *Response) Clone() *Response {
	if r == nil {
		return nil
	}

	return &Response{
		Status:           r.Status,
		StatusCode:       r.StatusCode,
		Proto:            r.Proto,
		ProtoMajor:       r.ProtoMajor,
		ProtoMinor:       r.ProtoMinor,
		Header:           r.Header.Clone(),
		Body:             cloneBytes(r.Body),
		ContentLength:    r.ContentLength,
		TransferEncoding: cloneStringSlice(r.TransferEncoding),
		Uncompressed:     r.Uncompressed,
		Trailer:          r.Trailer.Clone(),
		TLS:              cloneTLS(r.TLS),
		Request:          r.Request.Clone(),
	}
}

// ToResponse transcodes an HTTP Response to a track Response.
// The body of httpResponse is consumed and replaced with an identical reader.
func ToResponse(httpResponse *http.Response) *Response {
	if httpResponse == nil {
		return nil
	}

	body := drainBody(&httpResponse.Body)

	return &Response{
		Status:           httpResponse.Status,
		StatusCode:       httpResponse.StatusCode,
		Proto:            httpResponse.Proto,
		ProtoMajor:       httpResponse.ProtoMajor,
		ProtoMinor:       httpResponse.ProtoMinor,
		Header:           httpResponse.Header.Clone(),
		Body:             body,
		ContentLength:    httpResponse.ContentLength,
		TransferEncoding: cloneStringSlice(httpResponse.TransferEncoding),
		Uncompressed:     httpResponse.Uncompressed,
		Trailer:          httpResponse.Trailer.Clone(),
		TLS:              cloneTLS(httpResponse.TLS),
	}
}

// ToHTTPResponse builds the http.Response replayed to the client.
// httpRequest is attached as the response's Request with its body removed.
func ToHTTPResponse(response *Response, httpRequest *http.Request) *http.Response {
	if response == nil {
		return nil
	}

	proto, protoMajor, protoMinor := response.Proto, response.ProtoMajor, response.ProtoMinor
	if proto == "" {
		proto, protoMajor, protoMinor = "HTTP/1.1", 1, 1
	}

	status := response.Status
	if status == "" {
		status = strconv.Itoa(response.StatusCode) + " " + http.StatusText(response.StatusCode)
	}

	httpResponse := &http.Response{
		Status:           status,
		StatusCode:       response.StatusCode,
		Proto:            proto,
		ProtoMajor:       protoMajor,
		ProtoMinor:       protoMinor,
		Header:           response.Header.Clone(),
		Body:             io.NopCloser(bytes.NewReader(cloneBytes(response.Body))),
		ContentLength:    int64(len(response.Body)),
		TransferEncoding: cloneStringSlice(response.TransferEncoding),
		Uncompressed:     response.Uncompressed,
		Trailer:          response.Trailer.Clone(),
		TLS:              cloneTLS(response.TLS),
	}

	if httpResponse.Header == nil {
		httpResponse.Header = http.Header{}
	}

	if httpRequest != nil {
		// See notes on http.Response.Request - Body is nil because it has already been consumed.
		reqClone := httpRequest.Clone(httpRequest.Context())
		reqClone.Body = nil
		httpResponse.Request = reqClone
	}

	return httpResponse
}

// CloneHTTPRequest returns a deep copy of httpRequest whose body can be read
// independently of the original's.
func CloneHTTPRequest(httpRequest *http.Request) *http.Request {
	if httpRequest == nil {
		return nil
	}

	body := drainBody(&httpRequest.Body)

	httpRequestClone := httpRequest.Clone(httpRequest.Context())
	if httpRequest.Body != nil {
		httpRequestClone.Body = io.NopCloser(bytes.NewReader(body))
	}

	return httpRequestClone
}

// drainBody reads and closes *body, then replaces it with a reader over the same bytes.
func drainBody(body *io.ReadCloser) []byte {
	if body == nil || *body == nil || *body == http.NoBody {
		return nil
	}

	data, err := io.ReadAll(*body)
	if err != nil {
		slog.Error("drainBody - io.ReadAll", slog.String("error", err.Error()))
	}

	if err = (*body).Close(); err != nil {
		slog.Error("drainBody - Body.Close", slog.String("error", err.Error()))
	}

	*body = io.NopCloser(bytes.NewReader(data))

	return data
}

func cloneTLS(tlsCS *tls.ConnectionState) *tls.ConnectionState {
	if tlsCS == nil {
		return nil
	}

	var peerCertificatesClone []*x509.Certificate
	if err := copier.Copy(&peerCertificatesClone, tlsCS.PeerCertificates); err != nil {
		slog.Info("failed to deep copy tlsCS.PeerCertificates", slog.Any("error", err))

		peerCertificatesClone = tlsCS.PeerCertificates
	}

	var verifiedChainsClone [][]*x509.Certificate
	for _, certSlice := range tlsCS.VerifiedChains {
		var certSliceClone []*x509.Certificate

		if err := copier.Copy(&certSliceClone, certSlice); err != nil {
			slog.Info("failed to deep copy tlsCS.VerifiedChains", slog.Any("error", err))

			certSliceClone = certSlice
		}

		verifiedChainsClone = append(verifiedChainsClone, certSliceClone)
	}

	var signedCertificateTimestampsClone [][]byte
	for _, data := range tlsCS.SignedCertificateTimestamps {
		signedCertificateTimestampsClone = append(signedCertificateTimestampsClone, cloneBytes(data))
	}

	return &tls.ConnectionState{
		Version:                     tlsCS.Version,
		HandshakeComplete:           tlsCS.HandshakeComplete,
		DidResume:                   tlsCS.DidResume,
		CipherSuite:                 tlsCS.CipherSuite,
		NegotiatedProtocol:          tlsCS.NegotiatedProtocol,
		ServerName:                  tlsCS.ServerName,
		PeerCertificates:            peerCertificatesClone,
		VerifiedChains:              verifiedChainsClone,
		SignedCertificateTimestamps: signedCertificateTimestampsClone,
		OCSPResponse:                cloneBytes(tlsCS.OCSPResponse),
		TLSUnique:                   cloneBytes(tlsCS.TLSUnique),
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}

	c := make([]byte, len(b))
	copy(c, b)

	return c
}

func cloneStringSlice(stringSlice []string) []string {
	if stringSlice == nil {
		return nil
	}

	stringSliceClone := make([]string, len(stringSlice))
	copy(stringSliceClone, stringSlice)

	return stringSliceClone
}

func cloneURL(aURL *url.URL) *url.URL {
	if aURL == nil {
		return nil
	}

	urlClone := *aURL

	if aURL.User != nil {
		userClone := *aURL.User
		urlClone.User = &userClone
	}

	return &urlClone
}
