// assimpsys.go
package assimpsys

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arc-language/assimpsys/internal/shell"
	"github.com/arc-language/assimpsys/pkg/bindgen"
	"github.com/arc-language/assimpsys/pkg/core"
	"github.com/arc-language/assimpsys/pkg/directive"
	"github.com/arc-language/assimpsys/pkg/pkgconfig"
	"github.com/arc-language/assimpsys/pkg/registry"
	"github.com/arc-language/assimpsys/pkg/resolver"
	"github.com/arc-language/assimpsys/pkg/source"
)

// Re-export the types callers of the builder need
type (
	BuildConfig       = core.BuildConfig
	Config            = core.Config
	LibraryDescriptor = resolver.LibraryDescriptor
	DirectiveSet      = directive.Set
	RegistryEntry     = registry.Entry
)

const (
	OriginSystem  = resolver.OriginSystem
	OriginBundled = resolver.OriginBundled
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Options swaps out the external tools a Builder talks to. Zero values use pkg-config,
// cmake and c-for-go as named in Config.Tools.
type Options struct {
	Prober     pkgconfig.Prober
	Compiler   resolver.Compiler
	Generator  bindgen.Generator
	ConfigPath string // user config file, registered as a rebuild trigger when it exists
	Force      bool   // regenerate even when the stamp is fresh
}

// Result is everything one run produced
type Result struct {
	Primary     *LibraryDescriptor
	Auxiliary   *LibraryDescriptor // nil when the optional library is absent
	Directives  *DirectiveSet
	Bindings    *bindgen.Output // nil when Skipped
	CgoFile     string
	Fingerprint string
	Skipped     bool // stamp was fresh, bindings left as they were
}

// Builder runs the resolve-then-generate procedure once per Run
type Builder struct {
	cfg       *Config
	bc        BuildConfig
	opts      Options
	registry  *registry.Registry
	resolver  *resolver.Resolver
	generator bindgen.Generator
	logger    *log.Logger
}

// NewBuilder wires a Builder. cfg may be nil; empty fields of a non-nil cfg take their
// defaults, and cfg itself is not modified.
func NewBuilder(cfg *Config, bc BuildConfig, opts Options) *Builder {
	if cfg == nil {
		cfg = core.DefaultConfig()
	} else {
		c := *cfg
		c.FillDefaults()
		cfg = &c
	}
	logger := cfg.Logger
	if logger == nil {
		logger = core.DiscardLogger()
	}

	runner := shell.NewExec(logger)
	if opts.Prober == nil {
		opts.Prober = pkgconfig.NewClient(runner, cfg.Tools.PkgConfig, logger)
	}
	if opts.Compiler == nil {
		opts.Compiler = &resolver.CMakeCompiler{Tool: cfg.Tools.CMake, Runner: runner, Logger: logger}
	}
	if opts.Generator == nil {
		opts.Generator = bindgen.NewCForGo(runner, cfg.Tools.CForGo, logger)
	}

	return &Builder{
		cfg:       cfg,
		bc:        bc,
		opts:      opts,
		registry:  registry.New(cfg.RegistryDir),
		resolver:  resolver.New(opts.Prober, opts.Compiler, logger),
		generator: opts.Generator,
		logger:    logger,
	}
}

// Resolve runs discovery (or the bundled build) for the primary and optional libraries and
// returns the merged directives, without generating bindings
func (b *Builder) Resolve(ctx context.Context) (*Result, error) {
	primaryEntry, err := b.registry.Load(registry.Assimp)
	if err != nil {
		return nil, &Error{Op: "registry", Library: registry.Assimp, Err: err}
	}
	auxEntry, err := b.registry.Load(registry.Minizip)
	if err != nil {
		return nil, &Error{Op: "registry", Library: registry.Minizip, Err: err}
	}

	set := directive.New()

	primary, primarySet, err := b.resolver.ResolvePrimary(ctx, b.bc, primaryEntry)
	if err != nil {
		return nil, &Error{Op: "resolve", Library: primaryEntry.Name, Err: err}
	}
	set.Merge(primarySet)

	aux, auxSet, err := b.resolver.ResolveAuxiliary(ctx, auxEntry)
	if err != nil {
		return nil, &Error{Op: "resolve", Library: auxEntry.Name, Err: err}
	}
	set.Merge(auxSet)

	set.Merge(resolver.StdlibDirectives(b.bc.Target))

	for _, dir := range primary.IncludePaths {
		set.Include(dir)
	}
	if aux != nil {
		for _, dir := range aux.IncludePaths {
			set.Include(dir)
		}
	}

	set.RerunIfChanged(b.HeaderPath())
	if b.opts.ConfigPath != "" {
		if _, err := os.Stat(b.opts.ConfigPath); err == nil {
			set.RerunIfChanged(b.opts.ConfigPath)
		}
	}

	return &Result{Primary: primary, Auxiliary: aux, Directives: set}, nil
}

// Run resolves the native library, generates bindings into the output directory and
// writes the cgo flags file next to them. An unchanged tree skips generation.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	res, err := b.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	fp, err := b.fingerprint(res)
	if err != nil {
		return nil, &Error{Op: "fingerprint", Err: err}
	}
	res.Fingerprint = fp

	pkgDir := filepath.Join(b.bc.OutDir, bindgen.PackageDirName)
	stamp, err := source.LoadStamp(b.bc.OutDir)
	if err != nil {
		b.logger.Warn("ignoring unreadable stamp", "err", err)
		stamp = nil
	}
	if !b.opts.Force && stamp.Fresh(fp) && dirExists(pkgDir) && b.stampMatches(stamp, res.Directives) {
		// the flags file can go missing while the bindings stay
		res.CgoFile, err = res.Directives.WriteCgoFile(pkgDir, b.cfg.PackageName)
		if err != nil {
			return nil, &Error{Op: "flush", Err: err}
		}
		b.logger.Info("bindings up to date", "dir", pkgDir)
		res.Skipped = true
		return res, nil
	}

	out, err := b.generator.Generate(ctx, bindgen.Options{
		Header:       b.HeaderPath(),
		IncludePaths: res.Primary.IncludePaths,
		Blocklist:    bindgen.DefaultBlocklist(),
		Derive:       bindgen.DefaultDerive(),
		OutputDir:    b.bc.OutDir,
		PackageName:  b.cfg.PackageName,
	})
	if err != nil {
		return nil, &Error{Op: "generate", Library: res.Primary.Name, Err: err}
	}
	res.Bindings = out

	res.CgoFile, err = res.Directives.WriteCgoFile(out.PackageDir, b.cfg.PackageName)
	if err != nil {
		return nil, &Error{Op: "flush", Err: err}
	}

	next := &source.Stamp{
		Fingerprint: fp,
		Origin:      string(res.Primary.Origin),
		Version:     res.Primary.Version,
		Target:      b.bc.Target.String(),
		Triggers:    res.Directives.Values(directive.KindRerunIfChanged),
		Generated:   time.Now().UTC(),
	}
	next.Directives = linkDirectives(res.Directives)
	if err := next.Save(b.bc.OutDir); err != nil {
		return nil, &Error{Op: "flush", Err: err}
	}

	b.logger.Info("bindings generated", "dir", out.PackageDir, "origin", res.Primary.Origin)
	return res, nil
}

// HeaderPath is the umbrella header, resolved against the manifest directory
func (b *Builder) HeaderPath() string {
	if filepath.IsAbs(b.cfg.Header) {
		return b.cfg.Header
	}
	return filepath.Join(b.bc.ManifestDir, b.cfg.Header)
}

// BuildConfig returns the build environment the Builder was created with
func (b *Builder) BuildConfig() BuildConfig {
	return b.bc
}

func (b *Builder) fingerprint(res *Result) (string, error) {
	extra := []string{
		b.bc.Target.String(),
		b.bc.OptLevel,
		b.bc.Profile,
		b.cfg.PackageName,
		string(res.Primary.Origin),
		res.Primary.Version,
	}
	extra = append(extra, linkDirectives(res.Directives)...)

	// a missing header is reported by the generator, not here
	var paths []string
	for _, p := range res.Directives.Values(directive.KindRerunIfChanged) {
		if _, err := os.Lstat(p); err == nil {
			paths = append(paths, p)
		}
	}
	return source.Fingerprint(paths, extra...)
}

// stampMatches reports whether the directives recorded in stamp are the ones set would
// write. An unparsable record counts as a mismatch.
func (b *Builder) stampMatches(stamp *source.Stamp, set *directive.Set) bool {
	recorded, err := directive.ReadLines(strings.NewReader(strings.Join(stamp.Directives, "\n")))
	if err != nil {
		b.logger.Warn("ignoring stamp with bad directives", "err", err)
		return false
	}
	return slices.Equal(linkDirectives(recorded), linkDirectives(set))
}

// linkDirectives renders every directive of set except the rebuild triggers
func linkDirectives(set *directive.Set) []string {
	var lines []string
	for _, d := range set.All() {
		if d.Kind != directive.KindRerunIfChanged {
			lines = append(lines, d.String())
		}
	}
	return lines
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
