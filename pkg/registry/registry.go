package registry

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

//go:embed deps
var embedded embed.FS

// ErrUnknownLibrary indicates no registry entry exists for a name
var ErrUnknownLibrary = errors.New("unknown library")

// Names of the libraries this module knows how to resolve
const (
	Assimp  = "assimp"
	Minizip = "minizip"
)

// Entry represents a single deps/<name>/index.toml file
type Entry struct {
	Name      string            `toml:"name"`
	PkgConfig string            `toml:"pkgconfig"` // pkg-config module name
	Version   string            `toml:"version"`   // exact version required from pkg-config; empty accepts any
	Link      string            `toml:"link"`      // library name of the locally built archive, without debug postfix
	Source    string            `toml:"source"`    // bundled source tree, relative to the manifest dir
	Upstream  string            `toml:"upstream"`  // git remote of the bundled source
	Tag       string            `toml:"tag"`       // git tag matching Version
	Optional  bool              `toml:"optional"`  // a pkg-config miss is ignored instead of failing the build
	CXX11     bool              `toml:"cxx11"`     // build with the C++11 standard
	Defines   map[string]string `toml:"defines"`   // cmake cache definitions for the local build
}

// Buildable reports whether the entry can be compiled from bundled source
func (e *Entry) Buildable() bool {
	return e.Source != "" && e.Link != ""
}

// SortedDefines returns the define keys in a stable order
func (e *Entry) SortedDefines() []string {
	keys := make([]string, 0, len(e.Defines))
	for k := range e.Defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Registry looks entries up in an optional override directory, then in the embedded deps/
type Registry struct {
	overrideDir string
	fsys        fs.FS
}

// New creates a Registry. overrideDir may be empty.
func New(overrideDir string) *Registry {
	return &Registry{
		overrideDir: overrideDir,
		fsys:        embedded,
	}
}

// Load reads and parses deps/<name>/index.toml
func (r *Registry) Load(name string) (*Entry, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("registry: invalid library name %q", name)
	}

	data, source, err := r.read(name)
	if err != nil {
		return nil, err
	}

	var entry Entry
	if _, err := toml.Decode(string(data), &entry); err != nil {
		return nil, fmt.Errorf("registry: failed to parse '%s' (%s): %w", name, source, err)
	}
	if entry.Name == "" {
		entry.Name = name
	}
	if entry.PkgConfig == "" {
		entry.PkgConfig = entry.Name
	}

	return &entry, nil
}

// Names lists every library in the registry, override entries included
func (r *Registry) Names() ([]string, error) {
	seen := make(map[string]bool)

	entries, err := fs.ReadDir(r.fsys, "deps")
	if err != nil {
		return nil, fmt.Errorf("registry: reading embedded deps: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			seen[e.Name()] = true
		}
	}

	if r.overrideDir != "" {
		entries, err := os.ReadDir(r.overrideDir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("registry: reading %s: %w", r.overrideDir, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				seen[e.Name()] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (r *Registry) read(name string) ([]byte, string, error) {
	if r.overrideDir != "" {
		p := filepath.Join(r.overrideDir, name, "index.toml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, p, nil
		}
		if !os.IsNotExist(err) {
			return nil, "", fmt.Errorf("registry: reading %s: %w", p, err)
		}
		// Check if the directory exists, to give a better error message.
		if _, statErr := os.Stat(filepath.Dir(p)); statErr == nil {
			return nil, "", fmt.Errorf("registry: found library '%s' directory, but missing index.toml", name)
		}
	}

	p := path.Join("deps", name, "index.toml")
	data, err := fs.ReadFile(r.fsys, p)
	if err != nil {
		return nil, "", fmt.Errorf("registry: %w '%s'", ErrUnknownLibrary, name)
	}
	return data, "embedded " + p, nil
}
