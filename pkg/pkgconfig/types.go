package pkgconfig

import (
	"context"
	"errors"
)

// ErrNotFound indicates the library is absent, has the wrong version, or pkg-config
// itself is unavailable. Callers treat all three the same way.
var ErrNotFound = errors.New("library not found by pkg-config")

// Query names a pkg-config module and an optional exact version
type Query struct {
	Name         string // pkg-config module name, e.g. "assimp"
	ExactVersion string // empty means any version
}

// Library is what pkg-config reports for a module
type Library struct {
	Name         string
	Version      string   // --modversion
	LinkPaths    []string // -L directories
	Libs         []string // -l names
	IncludePaths []string // -I directories
}

// Prober looks a library up through pkg-config
type Prober interface {
	Probe(ctx context.Context, q Query) (*Library, error)
}
