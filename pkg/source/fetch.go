package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// FetchOptions describes an upstream checkout of the bundled source
type FetchOptions struct {
	URL      string
	Tag      string    // release tag; empty clones the default branch
	Progress io.Writer // may be nil
	KeepGit  bool      // keep the .git directory after cloning
}

// Fetch shallow-clones opts.URL at opts.Tag into dest. dest must not exist or be empty;
// an already populated tree is left untouched and reported as such.
func Fetch(ctx context.Context, dest string, opts FetchOptions) (bool, error) {
	if opts.URL == "" {
		return false, fmt.Errorf("no upstream url")
	}
	if populated(dest) {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return false, fmt.Errorf("creating parent directory: %w", err)
	}

	cloneOpts := &git.CloneOptions{
		URL:          opts.URL,
		SingleBranch: true,
		Depth:        1,
		Progress:     opts.Progress,
	}
	if opts.Tag != "" {
		cloneOpts.ReferenceName = plumbing.NewTagReferenceName(opts.Tag)
	}

	if _, err := git.PlainCloneContext(ctx, dest, false, cloneOpts); err != nil {
		os.RemoveAll(dest)
		return false, fmt.Errorf("git clone failed: %w", err)
	}

	if !opts.KeepGit {
		if err := os.RemoveAll(filepath.Join(dest, ".git")); err != nil {
			return true, fmt.Errorf("removing .git: %w", err)
		}
	}
	return true, nil
}

func populated(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}
