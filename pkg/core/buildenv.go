package core

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/arc-language/assimpsys/pkg/platform"
)

// ErrMissingEnv indicates a required build environment variable is unset
var ErrMissingEnv = errors.New("missing required environment variable")

// Environment variables read once at the start of a build
const (
	EnvTarget      = "ASSIMPSYS_TARGET"
	EnvOptLevel    = "ASSIMPSYS_OPT_LEVEL"
	EnvProfile     = "ASSIMPSYS_PROFILE"
	EnvOutDir      = "ASSIMPSYS_OUT_DIR"
	EnvManifestDir = "ASSIMPSYS_MANIFEST_DIR"

	// Set by go generate for the package being generated
	EnvGOOS   = "GOOS"
	EnvGOARCH = "GOARCH"
)

// LookupFunc has the signature of os.LookupEnv
type LookupFunc func(key string) (string, bool)

// BuildConfig is the environment snapshot a build runs against. It is built once
// and passed by value; nothing downstream consults the process environment.
type BuildConfig struct {
	Target      platform.Triple
	OptLevel    string // "0".."3", "s", "z" or empty
	Profile     string // "debug", "release" or empty
	OutDir      string // Absolute output directory
	ManifestDir string // Absolute directory holding the bundled source and umbrella header
}

// LoadBuildConfig reads the build environment through lookup.
//
// The output directory is required. The target falls back to GOOS/GOARCH and then to
// the host; the manifest directory falls back to the working directory.
func LoadBuildConfig(lookup LookupFunc) (BuildConfig, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	var cfg BuildConfig

	outDir, ok := nonEmpty(lookup, EnvOutDir)
	if !ok {
		return BuildConfig{}, fmt.Errorf("%w: %s", ErrMissingEnv, EnvOutDir)
	}
	abs, err := filepath.Abs(outDir)
	if err != nil {
		return BuildConfig{}, fmt.Errorf("resolving %s: %w", EnvOutDir, err)
	}
	cfg.OutDir = abs

	target, err := loadTarget(lookup)
	if err != nil {
		return BuildConfig{}, err
	}
	cfg.Target = target

	manifest, ok := nonEmpty(lookup, EnvManifestDir)
	if !ok {
		manifest, err = os.Getwd()
		if err != nil {
			return BuildConfig{}, fmt.Errorf("%w: %s (working directory unavailable: %v)", ErrMissingEnv, EnvManifestDir, err)
		}
	}
	cfg.ManifestDir, err = filepath.Abs(manifest)
	if err != nil {
		return BuildConfig{}, fmt.Errorf("resolving %s: %w", EnvManifestDir, err)
	}

	cfg.OptLevel, _ = lookup(EnvOptLevel)
	cfg.Profile, _ = lookup(EnvProfile)

	return cfg, nil
}

func loadTarget(lookup LookupFunc) (platform.Triple, error) {
	if t, ok := nonEmpty(lookup, EnvTarget); ok {
		return platform.Triple(t), nil
	}

	goos, okOS := nonEmpty(lookup, EnvGOOS)
	goarch, okArch := nonEmpty(lookup, EnvGOARCH)
	if okOS && okArch {
		t, err := platform.FromGo(goos, goarch)
		if err != nil {
			return "", fmt.Errorf("deriving target from %s/%s: %w", EnvGOOS, EnvGOARCH, err)
		}
		return t, nil
	}

	t, err := platform.Host()
	if err != nil {
		return "", fmt.Errorf("%w: %s (host detection failed: %v)", ErrMissingEnv, EnvTarget, err)
	}
	return t, nil
}

func nonEmpty(lookup LookupFunc, key string) (string, bool) {
	v, ok := lookup(key)
	return v, ok && v != ""
}

// ChainLookup consults overrides first and falls back to next. Empty override values are ignored.
func ChainLookup(overrides map[string]string, next LookupFunc) LookupFunc {
	if next == nil {
		next = os.LookupEnv
	}
	return func(key string) (string, bool) {
		if v, ok := overrides[key]; ok && v != "" {
			return v, true
		}
		return next(key)
	}
}

// MapLookup returns a LookupFunc over a fixed map
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}
