package bindgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/arc-language/assimpsys/internal/shell"
	"github.com/arc-language/assimpsys/pkg/core"
)

// CForGo generates bindings by running c-for-go over a generated manifest
type CForGo struct {
	runner shell.Runner
	tool   string
	logger *log.Logger
}

// NewCForGo creates the generator. An empty tool name means DefaultTool.
func NewCForGo(runner shell.Runner, tool string, logger *log.Logger) *CForGo {
	if tool == "" {
		tool = DefaultTool
	}
	if runner == nil {
		runner = shell.NewExec(logger)
	}
	return &CForGo{runner: runner, tool: tool, logger: core.Sub(logger, "bindgen")}
}

// Generate writes OutputDir/assimp.yml and runs the generator, which writes the package
// to OutputDir/assimp. Every failure wraps ErrBindingsGeneration.
func (g *CForGo) Generate(ctx context.Context, opts Options) (*Output, error) {
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("%w: no output directory", ErrBindingsGeneration)
	}
	if _, err := os.Stat(opts.Header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBindingsGeneration, err)
	}

	out := &Output{
		Manifest:   filepath.Join(opts.OutputDir, ManifestName),
		PackageDir: filepath.Join(opts.OutputDir, PackageDirName),
	}
	if opts.PackageName == "" {
		opts.PackageName = PackageDirName
	}

	// c-for-go names the package directory after PackageName
	if opts.PackageName != PackageDirName {
		return nil, fmt.Errorf("%w: package name %q does not match output directory %q",
			ErrBindingsGeneration, opts.PackageName, PackageDirName)
	}

	m := BuildManifest(opts)
	if err := WriteManifest(out.Manifest, m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBindingsGeneration, err)
	}
	g.logger.Debug("manifest written", "path", out.Manifest, "ignored", len(m.Ignored()))

	if _, err := g.runner.Run(ctx, g.tool, shell.WithArgs("-nostamp", "-out", opts.OutputDir, out.Manifest)); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrBindingsGeneration, err)
	}

	if info, err := os.Stat(out.PackageDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s was not written", ErrBindingsGeneration, out.PackageDir)
	}

	g.logger.Debug("bindings generated", "dir", out.PackageDir)
	return out, nil
}
