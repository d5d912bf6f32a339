// Package layout searches an install prefix for the directories and archives a
// cmake install leaves behind.
package layout

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arc-language/assimpsys/pkg/platform"
)

// Layout lists where files land relative to an install prefix
type Layout struct {
	Libraries []string
	Includes  []string
}

// Library represents a found library file
type Library struct {
	Name string // Library name without prefix or extension, e.g. "assimpd"
	Path string // Absolute path to the library file
}

// Prefix is an install prefix populated for a given target
type Prefix struct {
	Root   string
	Target platform.Triple
}

// CMakeLayout is what a GNUInstallDirs-aware cmake install produces. Distributions
// that use lib64 for 64-bit libraries get the archive there.
func CMakeLayout() Layout {
	return Layout{
		Libraries: []string{"lib", "lib64"},
		Includes:  []string{"include"},
	}
}

// LibraryDir returns the conventional library directory, whether or not it exists yet
func (p Prefix) LibraryDir() string {
	return filepath.Join(p.Root, CMakeLayout().Libraries[0])
}

// IncludeDir returns the conventional include directory
func (p Prefix) IncludeDir() string {
	return filepath.Join(p.Root, CMakeLayout().Includes[0])
}

// LibraryPaths returns the existing library directories under the prefix
func (p Prefix) LibraryPaths() []string {
	return p.existing(CMakeLayout().Libraries)
}

// FindStaticLibrary searches the library directories for lib{name} with a static extension
func (p Prefix) FindStaticLibrary(name string) *Library {
	for _, dir := range p.LibraryPaths() {
		for _, ext := range StaticLibraryExtensions(p.Target) {
			for _, filename := range []string{"lib" + name + ext, name + ext} {
				fullPath := filepath.Join(dir, filename)
				if fileExists(fullPath) {
					return &Library{Name: name, Path: fullPath}
				}
			}
		}
	}
	return nil
}

// FindAllStaticLibraries returns every static archive in the library directories
func (p Prefix) FindAllStaticLibraries() []*Library {
	var libraries []*Library
	seen := make(map[string]bool)

	for _, dir := range p.LibraryPaths() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			for _, ext := range StaticLibraryExtensions(p.Target) {
				if !strings.HasSuffix(name, ext) {
					continue
				}
				fullPath := filepath.Join(dir, name)
				if seen[fullPath] {
					continue
				}
				seen[fullPath] = true

				libName := strings.TrimSuffix(strings.TrimPrefix(name, "lib"), ext)
				libraries = append(libraries, &Library{Name: libName, Path: fullPath})
				break
			}
		}
	}
	return libraries
}

// StaticLibraryExtensions returns static archive extensions for a target.
// MSVC targets name archives .lib; everything else, MinGW included, uses .a.
func StaticLibraryExtensions(t platform.Triple) []string {
	if strings.Contains(string(t), "msvc") {
		return []string{".lib"}
	}
	return []string{".a"}
}

func (p Prefix) existing(rel []string) []string {
	var dirs []string
	for _, r := range rel {
		dir := filepath.Join(p.Root, r)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
