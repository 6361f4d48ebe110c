// Package native binds the bridge to the external libecdsa_verifier library
// through cgo.
//
// The binding is only compiled with cgo enabled and the ksignative build tag:
//
//	CGO_LDFLAGS="-L/path/to/lib" go build -tags ksignative ./...
//
// Otherwise New returns ErrUnavailable. The library resolves its artifact
// file names against the process working directory.
package native

import "errors"

// ErrUnavailable is returned by New when the binary was built without the
// native binding.
var ErrUnavailable = errors.New("native engine not available: build with cgo and -tags ksignative")
