// Package source manages the bundled native source tree: which of its files
// invalidate a build, unpacking it from an archive, cloning it, and fingerprinting it.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ErrEnumerate indicates the source tree could not be walked. It is fatal: skipping
// part of the tree would let a stale build go unnoticed.
var ErrEnumerate = errors.New("enumerating source tree")

// TriggerExtensions are the file name endings that invalidate a build
var TriggerExtensions = []string{".h", ".cpp", ".inl"}

// IsTrigger reports whether a file name ends in one of TriggerExtensions
func IsTrigger(name string) bool {
	for _, ext := range TriggerExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// RebuildTriggers walks root recursively and returns every file below it whose name
// ends in a trigger extension, in lexical walk order. root itself is never included.
func RebuildTriggers(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root || d.IsDir() {
			return nil
		}
		if IsTrigger(d.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEnumerate, err)
	}

	return paths, nil
}
