// internal/cli/watch.go
package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/arc-language/assimpsys"
	"github.com/arc-language/assimpsys/pkg/registry"
	"github.com/arc-language/assimpsys/pkg/source"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate bindings whenever a rebuild trigger changes",
	Long: `Run generate, then again each time the umbrella header, the config file or a
source file of the bundled tree changes. Runs never overlap.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addBuildFlags(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "quiet period before regenerating")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	bc, err := loadBuildConfig()
	if err != nil {
		return err
	}
	entry, err := registry.New(config.RegistryDir).Load(registry.Assimp)
	if err != nil {
		return err
	}

	builder := assimpsys.NewBuilder(config, bc, assimpsys.Options{ConfigPath: configPath()})
	header := builder.HeaderPath()
	cfg := configPath()

	regenerate := func() {
		res, err := builder.Run(ctx)
		switch {
		case err != nil:
			config.Logger.Error("generate failed", "err", err)
		case res.Skipped:
			config.Logger.Info("bindings up to date")
		default:
			fmt.Fprintf(os.Stderr, "Regenerated %s\n", res.Bindings.PackageDir)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(header)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(header), err)
	}
	if cfg != "" {
		if err := watcher.Add(filepath.Dir(cfg)); err != nil {
			config.Logger.Warn("not watching config", "path", cfg, "err", err)
		}
	}
	src := filepath.Join(bc.ManifestDir, entry.Source)
	if err := watchTree(watcher, src); err != nil {
		config.Logger.Warn("not watching bundled source", "dir", src, "err", err)
	}

	regenerate()
	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)\n", bc.ManifestDir)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// new directories only matter inside the bundled tree; the header directory
			// also holds the output and build trees
			if ev.Has(fsnotify.Create) && within(src, ev.Name) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, ev.Name); err != nil {
						config.Logger.Warn("not watching new directory", "dir", ev.Name, "err", err)
					}
				}
			}
			if ev.Has(fsnotify.Chmod) || !relevant(ev.Name, header, cfg) {
				continue
			}
			config.Logger.Debug("change", "path", ev.Name, "op", ev.Op.String())
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			config.Logger.Warn("watch error", "err", err)

		case <-timer.C:
			regenerate()
		}
	}
}

func relevant(path, header, cfg string) bool {
	return path == header || path == cfg || source.IsTrigger(filepath.Base(path))
}

// within reports whether path is root or lies below it
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// watchTree adds root and every directory below it
func watchTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
