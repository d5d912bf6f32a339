// internal/cli/flags.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/arc-language/assimpsys/pkg/core"
)

// build environment overrides; a set flag wins over its environment variable
var (
	flagTarget      string
	flagOptLevel    string
	flagProfile     string
	flagOutDir      string
	flagManifestDir string
)

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagTarget, "target", "", "target triple (env "+core.EnvTarget+")")
	cmd.Flags().StringVar(&flagOptLevel, "opt-level", "", "optimization level 0-3, s or z (env "+core.EnvOptLevel+")")
	cmd.Flags().StringVar(&flagProfile, "profile", "", "build profile, debug or release (env "+core.EnvProfile+")")
	cmd.Flags().StringVar(&flagOutDir, "out-dir", "", "output directory (env "+core.EnvOutDir+")")
	cmd.Flags().StringVar(&flagManifestDir, "manifest-dir", "", "directory holding wrapper.h and the bundled source (env "+core.EnvManifestDir+")")
}

func loadBuildConfig() (core.BuildConfig, error) {
	return core.LoadBuildConfig(core.ChainLookup(map[string]string{
		core.EnvTarget:      flagTarget,
		core.EnvOptLevel:    flagOptLevel,
		core.EnvProfile:     flagProfile,
		core.EnvOutDir:      flagOutDir,
		core.EnvManifestDir: flagManifestDir,
	}, nil))
}
