/*
Package vcr records HTTP interactions to cassettes and replays them.

A VCR is built from functional Settings. Each cassette opened with
UseCassette returns a ControlPanel whose HTTPClient routes requests
through the recorder:

	recorder, err := vcr.New(
		vcr.WithCassetteLibraryDir("testdata/cassettes"),
		vcr.WithPathTransformer(vcr.EnsureSuffix(".yaml")),
	)
	...
	cp, err := recorder.UseCassette("TestSomething")
	...
	defer cp.Close()

	resp, err := cp.HTTPClient().Get("https://example.com")

The record mode decides what happens to requests that have no matching
track on the cassette:

	once          replay an existing cassette, record only when it did not exist
	new_episodes  replay matching tracks, record the others
	none          replay only, unmatched requests fail
	all           never replay, record every request

Request matching is done by name (see MatcherFor): method, scheme, host,
port, path, query, uri, headers and body.

Tracks pass through the before-record hooks when they are recorded and
when a cassette is loaded, so a hook that returns nil both prevents
recording and prevents playback.
*/
package vcr
