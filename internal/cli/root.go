// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/arc-language/assimpsys/pkg/core"
)

var (
	cfgFile string
	debug   bool
	config  *core.Config
)

// Version of the assimpsys tool
const Version = "0.1.0"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "assimpsys",
	Short: "Native Assimp resolver and binding generator",
	Long: `assimpsys - locate or build the Assimp library and generate cgo bindings

Probes pkg-config for Assimp 5.0 and falls back to a static cmake build of the
bundled source. The resolved paths drive c-for-go over wrapper.h.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command. An interrupt cancels the running step.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/assimpsys/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add commands
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if debug {
		config.Debug = true
	}
	config.Logger = core.NewLogger(config.Debug)
}

// configPath is the config file in effect, whether or not it exists
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return core.DefaultConfigPath()
}
