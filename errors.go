// errors.go
package assimpsys

import (
	"fmt"

	"github.com/arc-language/assimpsys/pkg/bindgen"
	"github.com/arc-language/assimpsys/pkg/cmake"
	"github.com/arc-language/assimpsys/pkg/core"
	"github.com/arc-language/assimpsys/pkg/pkgconfig"
	"github.com/arc-language/assimpsys/pkg/resolver"
	"github.com/arc-language/assimpsys/pkg/source"
)

var (
	// ErrLibraryNotFound indicates pkg-config could not find the library. For a buildable
	// entry it only selects the bundled build; it fails a run only for a required entry
	// that cannot be built.
	ErrLibraryNotFound = pkgconfig.ErrNotFound

	// ErrMissingEnv indicates a required build environment variable is unset
	ErrMissingEnv = core.ErrMissingEnv

	// ErrBuildFailed indicates the cmake build of the bundled source failed
	ErrBuildFailed = cmake.ErrBuildFailed

	// ErrBindingsGeneration indicates the header-to-binding generator failed
	ErrBindingsGeneration = bindgen.ErrBindingsGeneration

	// ErrEnumerate indicates the bundled source tree could not be walked
	ErrEnumerate = source.ErrEnumerate

	// ErrSourceMissing indicates neither the bundled source tree nor an archive of it exists
	ErrSourceMissing = resolver.ErrSourceMissing
)

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Library string // Library name if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Library != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Library, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
