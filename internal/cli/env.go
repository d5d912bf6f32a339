// internal/cli/env.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/assimpsys/pkg/core"
	"github.com/arc-language/assimpsys/pkg/layout"
	"github.com/arc-language/assimpsys/pkg/pkgconfig"
	"github.com/arc-language/assimpsys/pkg/platform"
	"github.com/arc-language/assimpsys/pkg/registry"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show the build environment and tool availability",
	Long:  `Display the resolved build configuration, the config file in use, and which external tools are installed.`,
	Args:  cobra.NoArgs,
	RunE:  runEnv,
}

func init() {
	addBuildFlags(envCmd)
}

func runEnv(cmd *cobra.Command, args []string) error {
	plat, err := platform.Detect(config.Tools.PkgConfig, config.Tools.CMake, config.Tools.CForGo)
	if err != nil {
		return fmt.Errorf("detecting platform: %w", err)
	}

	fmt.Printf("Config: %s\n", configPath())
	fmt.Printf("Host: %s\n", plat.Triple)
	fmt.Printf("Tools available: %v\n", plat.Available)
	if len(plat.Missing) > 0 {
		fmt.Printf("Tools missing: %v\n", plat.Missing)
	}

	bc, err := loadBuildConfig()
	if err != nil {
		fmt.Printf("Build environment: %v\n", err)
	} else {
		fmt.Printf("Target: %s\n", bc.Target)
		fmt.Printf("Opt level: %s\n", orUnset(bc.OptLevel))
		fmt.Printf("Profile: %s\n", orUnset(bc.Profile))
		fmt.Printf("Out dir: %s\n", bc.OutDir)
		fmt.Printf("Manifest dir: %s\n", bc.ManifestDir)

		// archives left by an earlier bundled build
		for _, lib := range (layout.Prefix{Root: bc.OutDir, Target: bc.Target}).FindAllStaticLibraries() {
			fmt.Printf("Built archive: %s (%s)\n", lib.Name, lib.Path)
		}
	}
	fmt.Printf("%s: %s\n", pkgconfig.EnvPath, orUnset(os.Getenv(pkgconfig.EnvPath)))

	reg := registry.New(config.RegistryDir)
	names, err := reg.Names()
	if err != nil {
		return err
	}
	for _, name := range names {
		e, err := reg.Load(name)
		if err != nil {
			return err
		}
		version := e.Version
		if version == "" {
			version = "any"
		}
		fmt.Printf("Library %s: pkg-config %s (version %s), optional=%t\n", e.Name, e.PkgConfig, version, e.Optional)
	}

	if config.Debug {
		fmt.Printf("Env vars: %s %s %s %s %s\n", core.EnvTarget, core.EnvOptLevel, core.EnvProfile, core.EnvOutDir, core.EnvManifestDir)
	}
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
