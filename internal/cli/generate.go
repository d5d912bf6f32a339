// internal/cli/generate.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/assimpsys"
)

var (
	generateForce           bool
	generatePrintDirectives bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Resolve Assimp and generate bindings",
	Long: `Resolve the native library, generate the binding package and write its cgo flags.

Examples:
  ASSIMPSYS_OUT_DIR=./internal/gen assimpsys generate
  assimpsys generate --out-dir ./internal/gen --opt-level 0
  assimpsys generate --out-dir ./internal/gen --print-directives`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	addBuildFlags(generateCmd)
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "regenerate even when nothing changed")
	generateCmd.Flags().BoolVar(&generatePrintDirectives, "print-directives", false, "print cgo: directive lines to stdout")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	bc, err := loadBuildConfig()
	if err != nil {
		return err
	}

	builder := assimpsys.NewBuilder(config, bc, assimpsys.Options{
		ConfigPath: configPath(),
		Force:      generateForce,
	})

	res, err := builder.Run(cmd.Context())
	if err != nil {
		return err
	}

	if generatePrintDirectives {
		if err := res.Directives.WriteLines(os.Stdout); err != nil {
			return fmt.Errorf("writing directives: %w", err)
		}
	}

	if res.Skipped {
		fmt.Fprintf(os.Stderr, "Bindings up to date (%s)\n", res.CgoFile)
		return nil
	}
	fmt.Fprintf(os.Stderr, "Generated %s from %s assimp %s\n",
		res.Bindings.PackageDir, res.Primary.Origin, res.Primary.Version)
	return nil
}
