// internal/cli/probe.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/assimpsys/internal/shell"
	"github.com/arc-language/assimpsys/pkg/directive"
	"github.com/arc-language/assimpsys/pkg/pkgconfig"
	"github.com/arc-language/assimpsys/pkg/registry"
	"github.com/arc-language/assimpsys/pkg/resolver"
)

var probeCmd = &cobra.Command{
	Use:   "probe [library...]",
	Short: "Check which libraries pkg-config can provide",
	Long: `Probe pkg-config for registry libraries without building anything.

Libraries with a registry version are probed at exactly that version.

Examples:
  assimpsys probe
  assimpsys probe minizip`,
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	reg := registry.New(config.RegistryDir)

	names := args
	if len(names) == 0 {
		var err error
		if names, err = reg.Names(); err != nil {
			return err
		}
	}

	client := pkgconfig.NewClient(shell.NewExec(config.Logger), config.Tools.PkgConfig, config.Logger)
	r := resolver.New(client, nil, config.Logger)

	set := directive.New()
	missing := 0
	for _, name := range names {
		entry, err := reg.Load(name)
		if err != nil {
			return err
		}

		desc, found, err := r.Probe(cmd.Context(), entry, entry.Version)
		if err != nil {
			if ctx := cmd.Context(); ctx.Err() != nil {
				return ctx.Err()
			}
			missing++
			fmt.Fprintf(os.Stderr, "%-10s not found%s\n", name, versionNote(entry))
			continue
		}
		fmt.Fprintf(os.Stderr, "%-10s %s (%s)\n", name, desc.Version, desc.Origin)
		set.Merge(found)
	}

	if err := set.WriteLines(os.Stdout); err != nil {
		return err
	}
	if missing == len(names) {
		return fmt.Errorf("%w: none of %v", pkgconfig.ErrNotFound, names)
	}
	return nil
}

func versionNote(e *registry.Entry) string {
	if e.Version == "" {
		return ""
	}
	return " at version " + e.Version
}
