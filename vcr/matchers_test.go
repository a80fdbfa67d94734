package vcr_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seborama/vcrfixture/cassette/track"
	"github.com/seborama/vcrfixture/vcr"
)

func trackRequest(t *testing.T, method, rawURL string, header http.Header, body string) *track.Request {
	t.Helper()

	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	return &track.Request{Method: method, URL: u, Header: header, Body: []byte(body)}
}

func TestMatchers(t *testing.T) {
	base := trackRequest(t, http.MethodGet, "http://example.com/a/b?x=1&y=2", http.Header{"A": {"1", "2"}}, "body")

	tt := []*struct {
		matcher string
		other   *track.Request
		want    bool
	}{
		{matcher: "method", other: trackRequest(t, http.MethodGet, "https://other.org", nil, ""), want: true},
		{matcher: "method", other: trackRequest(t, http.MethodPost, "http://example.com/a/b", nil, ""), want: false},
		{matcher: "scheme", other: trackRequest(t, http.MethodPost, "http://other.org", nil, ""), want: true},
		{matcher: "scheme", other: trackRequest(t, http.MethodGet, "https://example.com/a/b", nil, ""), want: false},
		{matcher: "host", other: trackRequest(t, http.MethodGet, "https://EXAMPLE.com:8080/z", nil, ""), want: true},
		{matcher: "host", other: trackRequest(t, http.MethodGet, "http://example.org/a/b", nil, ""), want: false},
		{matcher: "port", other: trackRequest(t, http.MethodGet, "http://other.org:80/", nil, ""), want: true},
		{matcher: "port", other: trackRequest(t, http.MethodGet, "https://example.com/a/b", nil, ""), want: false},
		{matcher: "path", other: trackRequest(t, http.MethodPut, "https://other.org/a/b", nil, ""), want: true},
		{matcher: "path", other: trackRequest(t, http.MethodGet, "http://example.com/a/c", nil, ""), want: false},
		{matcher: "query", other: trackRequest(t, http.MethodGet, "http://other.org/?y=2&x=1", nil, ""), want: true},
		{matcher: "query", other: trackRequest(t, http.MethodGet, "http://example.com/a/b?x=1", nil, ""), want: false},
		{matcher: "uri", other: trackRequest(t, http.MethodPost, "http://example.com/a/b?x=1&y=2", nil, ""), want: true},
		{matcher: "uri", other: trackRequest(t, http.MethodGet, "http://example.com/a/b?y=2&x=1", nil, ""), want: false},
		{matcher: "headers", other: trackRequest(t, http.MethodGet, "http://other.org", http.Header{"A": {"2", "1"}}, ""), want: true},
		{matcher: "headers", other: trackRequest(t, http.MethodGet, "http://example.com/a/b?x=1&y=2", http.Header{"A": {"1"}}, "body"), want: false},
		{matcher: "body", other: trackRequest(t, http.MethodPost, "http://other.org", nil, "body"), want: true},
		{matcher: "body", other: trackRequest(t, http.MethodGet, "http://example.com/a/b?x=1&y=2", nil, "other"), want: false},
	}

	for _, tc := range tt {
		t.Run(tc.matcher, func(t *testing.T) {
			m, err := vcr.MatcherFor(tc.matcher)
			require.NoError(t, err)
			assert.Equal(t, tc.want, m(base, tc.other))
		})
	}
}

func TestMatchers_NilHeadersEqualEmpty(t *testing.T) {
	assert.True(t, vcr.HeadersMatcher(
		&track.Request{Header: nil},
		&track.Request{Header: http.Header{}},
	))
}

func TestMatchAll(t *testing.T) {
	req := &track.Request{Method: http.MethodGet}

	m := vcr.MatchAll(vcr.MethodMatcher, vcr.BodyMatcher)
	assert.True(t, m(req, &track.Request{Method: http.MethodGet}))
	assert.False(t, m(req, &track.Request{Method: http.MethodGet, Body: []byte("x")}))
	assert.False(t, m(req, nil))
	assert.True(t, m(nil, nil))
}

func TestMatcherFor_Unknown(t *testing.T) {
	_, err := vcr.MatcherFor("colour")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "method")
}
