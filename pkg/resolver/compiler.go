package resolver

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/arc-language/assimpsys/internal/shell"
	"github.com/arc-language/assimpsys/pkg/cmake"
	"github.com/arc-language/assimpsys/pkg/core"
	"github.com/arc-language/assimpsys/pkg/registry"
)

// CMakeCompiler is the Compiler backed by cmake
type CMakeCompiler struct {
	Tool   string
	Runner shell.Runner
	Logger *log.Logger
}

// Compile builds src with the entry's cache definitions
func (c *CMakeCompiler) Compile(ctx context.Context, src string, bc core.BuildConfig, entry *registry.Entry) (*cmake.Install, error) {
	cfg := cmake.New(src, bc).
		Tool(c.Tool).
		Runner(c.Runner).
		Logger(c.Logger)

	for _, key := range entry.SortedDefines() {
		cfg.Define(key, entry.Defines[key])
	}
	if entry.CXX11 {
		cfg.CXX11()
	}

	return cfg.Build(ctx)
}
