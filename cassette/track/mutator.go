package track

import (
	"net/http"
	"regexp"
)

// Predicate is a function signature that takes a Track and returns a boolean.
// It is used to construct conditional mutators.
type Predicate func(*Track) bool

// Any returns a predicate that is true when at least one of predicates is.
func Any(predicates ...Predicate) Predicate {
	return func(trk *Track) bool {
		for _, p := range predicates {
			if p(trk) {
				return true
			}
		}

		return false
	}
}

// All returns a predicate that is true when every one of predicates is.
func All(predicates ...Predicate) Predicate {
	return func(trk *Track) bool {
		for _, p := range predicates {
			if !p(trk) {
				return false
			}
		}

		return true
	}
}

// None is the equivalent of Not(Any(...)).
func None(predicates ...Predicate) Predicate {
	return Not(Any(predicates...))
}

// Not negates predicate.
func Not(predicate Predicate) Predicate {
	return func(trk *Track) bool {
		return !predicate(trk)
	}
}

// HasErr is true when the track records a transport error.
func HasErr() Predicate {
	return func(trk *Track) bool {
		return trk.ErrType != nil
	}
}

// HasNoErr is true when the track does not record a transport error.
func HasNoErr() Predicate {
	return Not(HasErr())
}

// HasAnyMethod is true when the track request method is one of methods.
func HasAnyMethod(methods ...string) Predicate {
	return func(trk *Track) bool {
		for _, m := range methods {
			if m == trk.Request.Method {
				return true
			}
		}

		return false
	}
}

// HasAnyStatusCode is true when the track response status code is one of codes.
func HasAnyStatusCode(codes ...int) Predicate {
	return func(trk *Track) bool {
		if trk.Response == nil {
			return false
		}

		for _, c := range codes {
			if trk.Response.StatusCode == c {
				return true
			}
		}

		return false
	}
}

// Mutator is a function signature for a Track mutator.
// A Mutator can be used to mutate a track at recording or replaying time.
//
// When recording, Response.Request is nil since the track already holds the
// Request. When replaying, Response.Request holds the current HTTP request.
type Mutator func(trk *Track)

// On applies the mutator only when predicate is true. Nil tracks are skipped.
func (tm Mutator) On(predicate Predicate) Mutator {
	return func(trk *Track) {
		if trk != nil && predicate(trk) {
			tm(trk)
		}
	}
}

// OnErr applies the mutator only when a transport error was recorded.
func (tm Mutator) OnErr() Mutator {
	return tm.On(HasErr())
}

// OnNoErr applies the mutator only when no transport error was recorded.
func (tm Mutator) OnNoErr() Mutator {
	return tm.On(HasNoErr())
}

// OnRequestMethod applies the mutator only to the given request methods.
func (tm Mutator) OnRequestMethod(methods ...string) Mutator {
	return tm.On(HasAnyMethod(methods...))
}

// OnRequestPath applies the mutator only when the request URL matches pathRegEx.
func (tm Mutator) OnRequestPath(pathRegEx string) Mutator {
	if pathRegEx == "" {
		pathRegEx = ".*"
	}

	re := regexp.MustCompile(pathRegEx)

	return tm.On(
		func(trk *Track) bool {
			return trk.Request.URL != nil && re.MatchString(trk.Request.URL.String())
		},
	)
}

// OnStatusCode applies the mutator only to the given response status codes.
func (tm Mutator) OnStatusCode(codes ...int) Mutator {
	return tm.On(HasAnyStatusCode(codes...))
}

// TrackRequestAddHeaderValue adds a header value to the track request.
func TrackRequestAddHeaderValue(key, value string) Mutator {
	return func(trk *Track) {
		if trk == nil {
			return
		}

		if trk.Request.Header == nil {
			trk.Request.Header = http.Header{}
		}

		trk.Request.Header.Add(key, value)
	}
}

// TrackRequestDeleteHeaderKeys deletes one or more header keys from the track request.
func TrackRequestDeleteHeaderKeys(keys ...string) Mutator {
	return func(trk *Track) {
		if trk != nil {
			DeleteRequestHeaders(&trk.Request, keys...)
		}
	}
}

// TrackRequestDeleteQueryParameters deletes one or more query parameters from the track request URL.
func TrackRequestDeleteQueryParameters(names ...string) Mutator {
	return func(trk *Track) {
		if trk != nil {
			DeleteRequestQueryParameters(&trk.Request, names...)
		}
	}
}

// TrackRequestChangeBody replaces the request body with fn(body).
func TrackRequestChangeBody(fn func(b []byte) []byte) Mutator {
	return func(trk *Track) {
		if trk != nil {
			trk.Request.Body = fn(trk.Request.Body)
		}
	}
}

// ResponseAddHeaderValue adds a header value to the response.
func ResponseAddHeaderValue(key, value string) Mutator {
	return func(trk *Track) {
		if trk == nil || trk.Response == nil {
			return
		}

		if trk.Response.Header == nil {
			trk.Response.Header = http.Header{}
		}

		trk.Response.Header.Add(key, value)
	}
}

// ResponseDeleteHeaderKeys deletes one or more header keys from the response.
func ResponseDeleteHeaderKeys(keys ...string) Mutator {
	return func(trk *Track) {
		if trk == nil || trk.Response == nil {
			return
		}

		for _, key := range keys {
			trk.Response.Header.Del(key)
		}
	}
}

// ResponseTransferHTTPHeaderKeys copies headers from the current request to the
// replayed response. It only has an effect as a replaying mutator.
func ResponseTransferHTTPHeaderKeys(keys ...string) Mutator {
	return func(trk *Track) {
		if trk == nil || trk.Response == nil || trk.Response.Request == nil {
			return
		}

		for _, key := range keys {
			values := trk.Response.Request.Header.Values(key)
			if values == nil {
				continue
			}

			if trk.Response.Header == nil {
				trk.Response.Header = http.Header{}
			}

			for _, v := range values {
				trk.Response.Header.Add(key, v)
			}
		}
	}
}

// ResponseChangeBody replaces the response body with fn(body).
func ResponseChangeBody(fn func(b []byte) []byte) Mutator {
	return func(trk *Track) {
		if trk != nil && trk.Response != nil {
			trk.Response.Body = fn(trk.Response.Body)
		}
	}
}

// ResponseDeleteTLS removes TLS data from the response.
// Cassettes never store TLS state, so a track replayed after reloading has
// none. Used as a recording mutator, it makes tracks replayed within the
// recording session look the same.
func ResponseDeleteTLS() Mutator {
	return func(trk *Track) {
		if trk != nil && trk.Response != nil {
			trk.Response.TLS = nil
		}
	}
}

// Mutators is a collection of Track Mutator's.
type Mutators []Mutator

// Add returns a new collection holding tms followed by mutators.
func (tms Mutators) Add(mutators ...Mutator) Mutators {
	out := make(Mutators, 0, len(tms)+len(mutators))
	out = append(out, tms...)

	return append(out, mutators...)
}

// Mutate applies all mutators in order to trk.
func (tms Mutators) Mutate(trk *Track) {
	for _, tm := range tms {
		tm(trk)
	}
}

// DeleteRequestHeaders removes the given header keys from req.
func DeleteRequestHeaders(req *Request, keys ...string) {
	if req == nil {
		return
	}

	for _, key := range keys {
		req.Header.Del(key)
	}
}

// DeleteRequestQueryParameters removes the given query parameters from req's URL.
func DeleteRequestQueryParameters(req *Request, names ...string) {
	if req == nil || req.URL == nil || req.URL.RawQuery == "" || len(names) == 0 {
		return
	}

	q := req.URL.Query()
	for _, name := range names {
		q.Del(name)
	}

	req.URL.RawQuery = q.Encode()
}
