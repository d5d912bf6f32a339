// internal/cli/fetch.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arc-language/assimpsys/pkg/core"
	"github.com/arc-language/assimpsys/pkg/registry"
	"github.com/arc-language/assimpsys/pkg/source"
)

var (
	fetchTag     string
	fetchKeepGit bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [library]",
	Short: "Clone the bundled source of a library",
	Long: `Clone the upstream source at the registry tag into the manifest directory.

An existing, non-empty source tree is left alone.

Examples:
  assimpsys fetch
  assimpsys fetch assimp --tag v5.0.1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&flagManifestDir, "manifest-dir", "", "directory holding the bundled source (env "+core.EnvManifestDir+")")
	fetchCmd.Flags().StringVar(&fetchTag, "tag", "", "git tag to clone (default from the registry)")
	fetchCmd.Flags().BoolVar(&fetchKeepGit, "keep-git", false, "keep the .git directory")
}

func runFetch(cmd *cobra.Command, args []string) error {
	name := registry.Assimp
	if len(args) == 1 {
		name = args[0]
	}

	entry, err := registry.New(config.RegistryDir).Load(name)
	if err != nil {
		return err
	}
	if !entry.Buildable() || entry.Upstream == "" {
		return fmt.Errorf("%s has no bundled source to fetch", name)
	}

	manifest, err := manifestDir()
	if err != nil {
		return err
	}
	dest := filepath.Join(manifest, entry.Source)

	tag := entry.Tag
	if fetchTag != "" {
		tag = fetchTag
	}

	fmt.Printf("Cloning %s at %s into %s...\n", entry.Upstream, tag, dest)
	cloned, err := source.Fetch(cmd.Context(), dest, source.FetchOptions{
		URL:      entry.Upstream,
		Tag:      tag,
		Progress: os.Stdout,
		KeepGit:  fetchKeepGit,
	})
	if err != nil {
		return err
	}
	if !cloned {
		fmt.Printf("%s already present\n", dest)
		return nil
	}

	triggers, err := source.RebuildTriggers(dest)
	if err != nil {
		return err
	}
	fmt.Printf("✓ %s ready (%d source files)\n", dest, len(triggers))
	return nil
}

// manifestDir resolves the manifest directory without requiring an output directory
func manifestDir() (string, error) {
	dir := flagManifestDir
	if dir == "" {
		dir = os.Getenv(core.EnvManifestDir)
	}
	if dir == "" {
		return os.Getwd()
	}
	return filepath.Abs(dir)
}
