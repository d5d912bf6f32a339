// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arc-language/assimpsys/pkg/bindgen"
	"github.com/arc-language/assimpsys/pkg/registry"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("assimpsys version %s\n", Version)
		if e, err := registry.New(config.RegistryDir).Load(registry.Assimp); err == nil {
			fmt.Printf("Assimp %s (bundled tag %s)\n", e.Version, e.Tag)
		}
		fmt.Printf("Binding generator: %s\n", bindgen.DefaultTool)
		fmt.Println("https://github.com/arc-language/assimpsys")
	},
}
