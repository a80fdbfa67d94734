package vcr

import (
	"bytes"
	"net/url"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/seborama/vcrfixture/cassette/track"
)

// RequestMatcher is a function that performs request comparison between
// the incoming request and the request recorded on a track.
type RequestMatcher func(httpRequest, trackRequest *track.Request) bool

var namedMatchers = map[string]RequestMatcher{
	"method":  MethodMatcher,
	"scheme":  SchemeMatcher,
	"host":    HostMatcher,
	"port":    PortMatcher,
	"path":    PathMatcher,
	"query":   QueryMatcher,
	"uri":     URIMatcher,
	"headers": HeadersMatcher,
	"body":    BodyMatcher,
}

// MatcherNames returns the names accepted by MatcherFor, sorted.
func MatcherNames() []string {
	names := make([]string, 0, len(namedMatchers))
	for name := range namedMatchers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// MatcherFor returns the matcher registered under name.
func MatcherFor(name string) (RequestMatcher, error) {
	m, ok := namedMatchers[name]
	if !ok {
		return nil, errors.Errorf("unknown matcher '%s', expected one of %s", name, strings.Join(MatcherNames(), ", "))
	}

	return m, nil
}

// MatchAll returns a matcher that is true when every one of matchers is.
func MatchAll(matchers ...RequestMatcher) RequestMatcher {
	return func(httpRequest, trackRequest *track.Request) bool {
		if eitherIsXNil(httpRequest, trackRequest) {
			return false
		}
		if httpRequest == nil {
			return true
		}

		for _, m := range matchers {
			if !m(httpRequest, trackRequest) {
				return false
			}
		}

		return true
	}
}

func matcherFromNames(names []string) (RequestMatcher, error) {
	matchers := make([]RequestMatcher, 0, len(names))

	for _, name := range names {
		m, err := MatcherFor(name)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}

	return MatchAll(matchers...), nil
}

// MethodMatcher compares request methods.
func MethodMatcher(httpRequest, trackRequest *track.Request) bool {
	return httpRequest.Method == trackRequest.Method
}

// SchemeMatcher compares URL schemes.
func SchemeMatcher(httpRequest, trackRequest *track.Request) bool {
	return urlOf(httpRequest).Scheme == urlOf(trackRequest).Scheme
}

// HostMatcher compares host names, without the port.
func HostMatcher(httpRequest, trackRequest *track.Request) bool {
	return strings.EqualFold(urlOf(httpRequest).Hostname(), urlOf(trackRequest).Hostname())
}

// PortMatcher compares ports. A missing port defaults from the scheme.
func PortMatcher(httpRequest, trackRequest *track.Request) bool {
	return portOf(urlOf(httpRequest)) == portOf(urlOf(trackRequest))
}

// PathMatcher compares URL paths.
func PathMatcher(httpRequest, trackRequest *track.Request) bool {
	return urlOf(httpRequest).EscapedPath() == urlOf(trackRequest).EscapedPath()
}

// QueryMatcher compares query parameters, regardless of their order.
func QueryMatcher(httpRequest, trackRequest *track.Request) bool {
	return areValuesEqual(urlOf(httpRequest).Query(), urlOf(trackRequest).Query())
}

// URIMatcher compares full URLs.
func URIMatcher(httpRequest, trackRequest *track.Request) bool {
	return urlOf(httpRequest).String() == urlOf(trackRequest).String()
}

// HeadersMatcher compares request headers, regardless of the order of their values.
func HeadersMatcher(httpRequest, trackRequest *track.Request) bool {
	return areValuesEqual(httpRequest.Header, trackRequest.Header)
}

// BodyMatcher compares request bodies.
func BodyMatcher(httpRequest, trackRequest *track.Request) bool {
	return bytes.Equal(httpRequest.Body, trackRequest.Body)
}

var emptyURL = &url.URL{}

func urlOf(req *track.Request) *url.URL {
	if req.URL == nil {
		return emptyURL
	}
	return req.URL
}

func portOf(u *url.URL) string {
	if port := u.Port(); port != "" {
		return port
	}

	switch strings.ToLower(u.Scheme) {
	case "http":
		return "80"
	case "https":
		return "443"
	}

	return ""
}

// areValuesEqual compares multi-valued maps. Nil and empty maps are equal.
func areValuesEqual[M ~map[string][]string](values1, values2 M) bool {
	if len(values1) != len(values2) {
		return false
	}

	for key, v1 := range values1 {
		v2, ok := values2[key]
		if !ok || len(v1) != len(v2) {
			return false
		}

		m := make(map[string]int)
		for _, v := range v1 {
			m[v]++
		}
		for _, v := range v2 {
			m[v]--
		}
		for _, count := range m {
			if count != 0 {
				return false
			}
		}
	}

	return true
}

// eitherIsXNil returns true when either of the supplied requests
// is EXCLUSIVELY nil.
func eitherIsXNil(req1, req2 *track.Request) bool {
	return (req1 == nil) != (req2 == nil)
}
