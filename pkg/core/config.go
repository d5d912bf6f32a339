package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

// Config holds assimpsys user configuration
type Config struct {
	Header      string `yaml:"header"`       // Umbrella header, relative to the manifest dir
	PackageName string `yaml:"package_name"` // Go package name of the generated bindings
	RegistryDir string `yaml:"registry_dir"` // Directory shadowing the embedded library registry
	Debug       bool   `yaml:"debug"`
	Tools       Tools  `yaml:"tools"`

	// Logger is set at runtime, never read from disk
	Logger *log.Logger `yaml:"-"`
}

// Tools names the external executables used during a build
type Tools struct {
	PkgConfig string `yaml:"pkg_config"`
	CMake     string `yaml:"cmake"`
	CForGo    string `yaml:"c_for_go"`
}

const (
	DefaultHeader      = "wrapper.h"
	DefaultPackageName = "assimp"
)

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Header:      DefaultHeader,
		PackageName: DefaultPackageName,
		Tools: Tools{
			PkgConfig: "pkg-config",
			CMake:     "cmake",
			CForGo:    "c-for-go",
		},
	}
}

// DefaultConfigPath returns $HOME/.config/assimpsys/config.yaml, or "" without a home directory
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "assimpsys", "config.yaml")
}

// LoadConfig loads configuration from file. Fields missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return DefaultConfig(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.FillDefaults()

	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
		if path == "" {
			return fmt.Errorf("no home directory for default config path")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// FillDefaults replaces empty fields with their DefaultConfig values. An explicit empty
// string in the file must not leave a tool unnamed.
func (c *Config) FillDefaults() {
	def := DefaultConfig()
	if c.Header == "" {
		c.Header = def.Header
	}
	if c.PackageName == "" {
		c.PackageName = def.PackageName
	}
	if c.Tools.PkgConfig == "" {
		c.Tools.PkgConfig = def.Tools.PkgConfig
	}
	if c.Tools.CMake == "" {
		c.Tools.CMake = def.Tools.CMake
	}
	if c.Tools.CForGo == "" {
		c.Tools.CForGo = def.Tools.CForGo
	}
}
