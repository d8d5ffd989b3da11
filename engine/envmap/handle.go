// Package envmap owns the environment-lighting side of the engine: the lighting-only
// room fragment used as an environment source, the CPU prefilter that turns it into a
// mip-chained cube map, and the per-context Cache that holds the GPU handle built from it.
package envmap

import "errors"

var (
	// ErrEmptySource is returned when a build is requested without an environment source.
	ErrEmptySource = errors.New("envmap: environment source is nil")

	// ErrInvalidQuality is returned when the prefilter blur (sigma) is not a positive finite number.
	ErrInvalidQuality = errors.New("envmap: quality must be a positive, finite blur radius")

	// ErrNilHandle is returned by Cache.Resolve when a build reports success but yields no handle.
	ErrNilHandle = errors.New("envmap: build returned a nil handle")
)

// Handle is a disposable GPU resource holding a prefiltered environment map.
// A Handle is only valid on the render context that created it.
type Handle interface {
	// Label returns a debug label identifying the handle and its owning context.
	//
	// Returns:
	//   - string: the debug label
	Label() string

	// Release frees the GPU memory backing the handle. The handle must not be used afterwards.
	Release()
}
