// Package bindgen drives the C-header-to-Go binding generator over the umbrella header.
package bindgen

import (
	"context"
	"errors"
)

// ErrBindingsGeneration indicates the generator failed to parse the header or write its output
var ErrBindingsGeneration = errors.New("unable to generate bindings")

const (
	// DefaultTool is the generator executable
	DefaultTool = "c-for-go"

	// ManifestName is the fixed manifest file name inside the output directory
	ManifestName = "assimp.yml"

	// PackageDirName is the fixed directory the generated package is written to
	PackageDirName = "assimp"
)

// defaultBlocklist holds floating-point classification macros that appear in system math
// headers as both macros and enumerators, which breaks generation.
var defaultBlocklist = []string{
	"FP_ZERO",
	"FP_SUBNORMAL",
	"FP_NORMAL",
	"FP_NAN",
	"FP_INFINITE",
}

// DefaultBlocklist returns the symbols that are always excluded from generation
func DefaultBlocklist() []string {
	return append([]string(nil), defaultBlocklist...)
}

// Derive lists the traits requested for generated types
type Derive struct {
	Eq    bool
	Hash  bool
	Debug bool
}

// Any reports whether any trait is requested
func (d Derive) Any() bool {
	return d.Eq || d.Hash || d.Debug
}

// DefaultDerive requests equality, hashing and debug printing
func DefaultDerive() Derive {
	return Derive{Eq: true, Hash: true, Debug: true}
}

// Options describes one generation run
type Options struct {
	Header       string   // umbrella header
	IncludePaths []string // each becomes a -I search path
	Blocklist    []string // symbols to exclude on top of DefaultBlocklist
	Derive       Derive
	OutputDir    string // manifest at OutputDir/assimp.yml, package at OutputDir/assimp
	PackageName  string
	Prefixes     []string // symbol prefixes to accept; "ai" and "AI_" when empty
}

// Output locates what a run wrote
type Output struct {
	Manifest   string
	PackageDir string
}

// Generator turns a header into a Go package
type Generator interface {
	Generate(ctx context.Context, opts Options) (*Output, error)
}
