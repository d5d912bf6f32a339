// Package resolver decides where the native library comes from: an installed copy found
// through pkg-config, or a static build of the bundled source.
package resolver

import (
	"context"
	"errors"

	"github.com/arc-language/assimpsys/pkg/cmake"
	"github.com/arc-language/assimpsys/pkg/core"
	"github.com/arc-language/assimpsys/pkg/registry"
)

// ErrSourceMissing indicates neither the bundled source tree nor an archive of it exists
var ErrSourceMissing = errors.New("bundled source not found")

// Origin records how a library was obtained
type Origin string

const (
	OriginSystem  Origin = "system"
	OriginBundled Origin = "bundled"
)

// LibraryDescriptor is what the rest of the build needs to know about a resolved library
type LibraryDescriptor struct {
	Name         string
	IncludePaths []string
	LinkPaths    []string
	Libs         []string
	Origin       Origin
	Version      string
}

// Compiler builds an entry's bundled source and installs it into the output directory
type Compiler interface {
	Compile(ctx context.Context, src string, bc core.BuildConfig, entry *registry.Entry) (*cmake.Install, error)
}
