package vcr

import "github.com/pkg/errors"

// ErrCannotOverwriteExistingCassette is returned when a request has no
// matching track and the record mode does not allow recording it.
var ErrCannotOverwriteExistingCassette = errors.New("cannot overwrite existing cassette")

// ErrCassetteClosed is returned by requests made on a closed cassette.
var ErrCassetteClosed = errors.New("cassette is closed")
