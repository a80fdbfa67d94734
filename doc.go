/*
Package vcrfixture wires the vcr recorder into Go tests.

A test file declares a Module; tests marked with the "vcr" marker get a
cassette opened before their body runs and closed when they finish:

	var vcrModule = vcrfixture.Register(flag.CommandLine).Module()

	func TestSearch(t *testing.T) {
		vcrModule.Test(t, func(r *vcrfixture.Request) {
			resp, err := r.HTTPClient().Get("https://example.com/search?q=go")
			...
		}, vcrfixture.Mark())
	}

The cassette of TestSearch is <dir of the test file>/cassettes/TestSearch.yaml.

Two flags are registered on the test binary:

	-vcr-record=once|new_episodes|none|all  overrides the record mode of every test
	-disable-vcr                            nothing is replayed from or saved to cassettes

Settings are merged in this order, later ones winning: the defaults (the
cassette directory and a ".yaml" suffix), the vcr_config fixture, the settings
of the closest vcr marker, -vcr-record and -disable-vcr.
*/
package vcrfixture
