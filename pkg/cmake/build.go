package cmake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/assimpsys/internal/shell"
	"github.com/arc-language/assimpsys/pkg/core"
	"github.com/arc-language/assimpsys/pkg/platform"
)

// Config drives one configure/build/install cycle of a cmake project
type Config struct {
	source   string
	outDir   string
	tool     string
	target   platform.Triple
	optLevel string
	profile  string
	cxx11    bool
	defines  []Define
	runner   shell.Runner
	logger   *log.Logger
}

// New returns a Config building the project in source into the output directory of bc
func New(source string, bc core.BuildConfig) *Config {
	return &Config{
		source:   source,
		outDir:   bc.OutDir,
		tool:     DefaultTool,
		target:   bc.Target,
		optLevel: bc.OptLevel,
		profile:  bc.Profile,
		logger:   core.DiscardLogger(),
	}
}

// Tool overrides the cmake executable
func (c *Config) Tool(tool string) *Config {
	if tool != "" {
		c.tool = tool
	}
	return c
}

// Runner sets how cmake is executed
func (c *Config) Runner(r shell.Runner) *Config {
	c.runner = r
	return c
}

// Logger sets the build logger
func (c *Config) Logger(l *log.Logger) *Config {
	c.logger = core.Sub(l, "cmake")
	return c
}

// Define adds a -D cache entry. A later Define of the same key replaces the earlier one.
func (c *Config) Define(key, value string) *Config {
	for i, d := range c.defines {
		if d.Key == key {
			c.defines[i].Value = value
			return c
		}
	}
	c.defines = append(c.defines, Define{Key: key, Value: value})
	return c
}

// CXX11 builds C++ sources with the C++11 standard
func (c *Config) CXX11() *Config {
	c.cxx11 = true
	return c
}

// Defines returns the user defines in the order they were added
func (c *Config) Defines() []Define {
	return append([]Define(nil), c.defines...)
}

// BuildDir is where cmake keeps its cache and intermediate objects
func (c *Config) BuildDir() string {
	return filepath.Join(c.outDir, BuildDirName)
}

// ConfigureArgs returns the arguments of the configure step
func (c *Config) ConfigureArgs() []string {
	buildType := BuildType(c.optLevel, c.profile)

	args := []string{
		"-S", c.source,
		"-B", c.BuildDir(),
		"-DCMAKE_INSTALL_PREFIX=" + c.outDir,
		"-DCMAKE_BUILD_TYPE=" + buildType,
	}

	seen := make(map[string]bool, len(c.defines))
	for _, d := range c.defines {
		args = append(args, "-D"+d.Key+"="+d.Value)
		seen[d.Key] = true
	}

	if c.cxx11 && !seen["CMAKE_CXX_STANDARD"] {
		args = append(args, "-DCMAKE_CXX_STANDARD=11")
	}
	if !seen["CMAKE_CXX_FLAGS"] {
		if flags := c.cxxFlags(); flags != "" {
			args = append(args, "-DCMAKE_CXX_FLAGS="+flags)
		}
	}
	if c.target.IsApple() && !seen["CMAKE_OSX_ARCHITECTURES"] {
		if arch := osxArch(c.target); arch != "" {
			args = append(args, "-DCMAKE_OSX_ARCHITECTURES="+arch)
		}
	}

	return args
}

// BuildArgs returns the arguments of the build+install step
func (c *Config) BuildArgs() []string {
	return []string{
		"--build", c.BuildDir(),
		"--target", "install",
		"--config", BuildType(c.optLevel, c.profile),
		"--parallel", strconv.Itoa(runtime.NumCPU()),
	}
}

// Build configures, builds and installs the project. Output of a failing step is
// carried in the returned error; nothing is retried.
func (c *Config) Build(ctx context.Context) (*Install, error) {
	if c.source == "" || c.outDir == "" {
		return nil, fmt.Errorf("%w: source and output directories are required", ErrBuildFailed)
	}
	if _, err := os.Stat(c.source); err != nil {
		return nil, fmt.Errorf("%w: source tree: %v", ErrBuildFailed, err)
	}
	if c.runner == nil {
		c.runner = shell.NewExec(c.logger)
	}

	v, err := CheckVersion(ctx, c.runner, c.tool)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("using cmake", "version", v.String(), "source", c.source)

	if err := os.MkdirAll(c.BuildDir(), 0755); err != nil {
		return nil, fmt.Errorf("%w: creating build directory: %v", ErrBuildFailed, err)
	}

	c.logger.Info("configuring bundled source", "source", c.source, "build_type", BuildType(c.optLevel, c.profile))
	if _, err := c.runner.Run(ctx, c.tool, shell.WithArgs(c.ConfigureArgs()...)); err != nil {
		return nil, fmt.Errorf("%w: configure: %v", ErrBuildFailed, err)
	}

	c.logger.Info("building bundled source", "build_dir", c.BuildDir())
	if _, err := c.runner.Run(ctx, c.tool, shell.WithArgs(c.BuildArgs()...)); err != nil {
		return nil, fmt.Errorf("%w: build: %v", ErrBuildFailed, err)
	}

	return &Install{
		Prefix:    c.outDir,
		BuildDir:  c.BuildDir(),
		BuildType: BuildType(c.optLevel, c.profile),
		Postfix:   DebugPostfix(c.optLevel, c.profile),
	}, nil
}

func (c *Config) cxxFlags() string {
	var flags []string
	if !strings.Contains(string(c.target), "windows") {
		flags = append(flags, "-fPIC")
	}
	if c.cxx11 {
		flags = append(flags, "-std=c++11")
		if c.target.IsApple() {
			flags = append(flags, "-stdlib=libc++")
		}
	}
	return strings.Join(flags, " ")
}

func osxArch(t platform.Triple) string {
	switch t.Arch() {
	case "aarch64":
		return "arm64"
	case "x86_64":
		return "x86_64"
	}
	return ""
}
