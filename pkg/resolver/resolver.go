package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/arc-language/assimpsys/pkg/core"
	"github.com/arc-language/assimpsys/pkg/directive"
	"github.com/arc-language/assimpsys/pkg/layout"
	"github.com/arc-language/assimpsys/pkg/pkgconfig"
	"github.com/arc-language/assimpsys/pkg/platform"
	"github.com/arc-language/assimpsys/pkg/registry"
	"github.com/arc-language/assimpsys/pkg/source"
)

// Resolver runs the discover-or-build procedure
type Resolver struct {
	prober   pkgconfig.Prober
	compiler Compiler
	logger   *log.Logger
}

// New creates a Resolver
func New(prober pkgconfig.Prober, compiler Compiler, logger *log.Logger) *Resolver {
	return &Resolver{
		prober:   prober,
		compiler: compiler,
		logger:   core.Sub(logger, "resolve"),
	}
}

// ResolvePrimary finds entry through pkg-config at its exact version, or builds the
// bundled source when the probe misses for any reason. Exactly one of the two happens.
func (r *Resolver) ResolvePrimary(ctx context.Context, bc core.BuildConfig, entry *registry.Entry) (*LibraryDescriptor, *directive.Set, error) {
	desc, set, err := r.Probe(ctx, entry, entry.Version)
	if err == nil {
		return desc, set, nil
	}
	if ctx.Err() != nil {
		return nil, nil, ctx.Err()
	}
	r.logger.Debug("falling back to bundled source", "library", entry.Name, "reason", err)

	if !entry.Buildable() {
		return nil, nil, fmt.Errorf("%s: %w", entry.Name, err)
	}
	return r.build(ctx, bc, entry)
}

// ResolveAuxiliary looks entry up in pkg-config without a version constraint. A miss of
// an optional entry is not an error: the descriptor is nil and the set is empty. A miss
// of any other entry is returned.
func (r *Resolver) ResolveAuxiliary(ctx context.Context, entry *registry.Entry) (*LibraryDescriptor, *directive.Set, error) {
	desc, set, err := r.Probe(ctx, entry, "")
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		if !entry.Optional {
			return nil, nil, fmt.Errorf("%s: %w", entry.Name, err)
		}
		r.logger.Debug("optional library not found", "library", entry.Name, "reason", err)
		return nil, directive.New(), nil
	}
	return desc, set, nil
}

// StdlibDirectives links the C++ standard library the target's toolchain uses.
// GNU triples get stdc++, Apple triples get c++, anything else gets nothing.
func StdlibDirectives(t platform.Triple) *directive.Set {
	set := directive.New()
	switch {
	case t.IsGNU():
		set.LinkLib("stdc++")
	case t.IsApple():
		set.LinkLib("c++")
	}
	return set
}

// Probe asks pkg-config for entry, at exactly version unless it is empty, and returns
// the link directives for what it reports. Nothing is built.
func (r *Resolver) Probe(ctx context.Context, entry *registry.Entry, version string) (*LibraryDescriptor, *directive.Set, error) {
	lib, err := r.prober.Probe(ctx, pkgconfig.Query{Name: entry.PkgConfig, ExactVersion: version})
	if err != nil {
		return nil, nil, err
	}

	set := directive.New()
	for _, dir := range lib.LinkPaths {
		set.LinkSearch(dir)
	}
	for _, name := range lib.Libs {
		set.LinkLib(name)
	}

	r.logger.Info("using system library", "library", entry.Name, "version", lib.Version)
	return &LibraryDescriptor{
		Name:         entry.Name,
		IncludePaths: lib.IncludePaths,
		LinkPaths:    lib.LinkPaths,
		Libs:         lib.Libs,
		Origin:       OriginSystem,
		Version:      lib.Version,
	}, set, nil
}

func (r *Resolver) build(ctx context.Context, bc core.BuildConfig, entry *registry.Entry) (*LibraryDescriptor, *directive.Set, error) {
	src, err := r.prepareSource(bc, entry)
	if err != nil {
		return nil, nil, err
	}

	install, err := r.compiler.Compile(ctx, src, bc, entry)
	if err != nil {
		return nil, nil, err
	}

	link := entry.Link + install.Postfix
	prefix := layout.Prefix{Root: bc.OutDir, Target: bc.Target}
	libDir := prefix.LibraryDir()
	if found := prefix.FindStaticLibrary(link); found != nil {
		libDir = filepath.Dir(found.Path)
	} else {
		r.logger.Warn("static library not found after install", "library", link, "dir", libDir)
	}

	set := directive.New()
	set.LinkSearchNative(libDir)
	set.LinkStatic(link)

	triggers, err := source.RebuildTriggers(src)
	if err != nil {
		return nil, nil, err
	}
	for _, path := range triggers {
		set.RerunIfChanged(path)
	}

	r.logger.Info("built bundled library", "library", link, "dir", libDir, "triggers", len(triggers))
	return &LibraryDescriptor{
		Name:         entry.Name,
		IncludePaths: []string{filepath.Join(src, "include"), prefix.IncludeDir()},
		LinkPaths:    []string{libDir},
		Libs:         []string{link},
		Origin:       OriginBundled,
		Version:      entry.Version,
	}, set, nil
}

// prepareSource returns the bundled tree, unpacking a sibling archive when the tree
// itself is absent
func (r *Resolver) prepareSource(bc core.BuildConfig, entry *registry.Entry) (string, error) {
	src := filepath.Join(bc.ManifestDir, entry.Source)
	if info, err := os.Stat(src); err == nil && info.IsDir() {
		return src, nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("bundled source %s: %w", src, err)
	}

	archive := source.FindArchive(bc.ManifestDir, entry.Source, entry.Version)
	if archive == "" {
		return "", fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}

	r.logger.Info("unpacking bundled source", "archive", archive)
	n, err := source.Extract(archive, src, 1)
	if err != nil {
		os.RemoveAll(src)
		return "", fmt.Errorf("unpacking %s: %w", archive, err)
	}
	r.logger.Debug("unpacked", "files", n, "dir", src)
	return src, nil
}
