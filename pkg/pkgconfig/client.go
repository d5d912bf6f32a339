package pkgconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/arc-language/assimpsys/internal/shell"
	"github.com/arc-language/assimpsys/pkg/core"
)

// Client probes libraries by running the pkg-config executable
type Client struct {
	runner shell.Runner
	tool   string
	logger *log.Logger
}

// NewClient creates a pkg-config client. An empty tool name means DefaultTool.
func NewClient(runner shell.Runner, tool string, logger *log.Logger) *Client {
	if tool == "" {
		tool = DefaultTool
	}
	if runner == nil {
		runner = shell.NewExec(logger)
	}
	return &Client{runner: runner, tool: tool, logger: core.Sub(logger, "pkg-config")}
}

// Probe checks that q is installed (at q.ExactVersion when set) and collects its
// search paths and libraries. Every failure wraps ErrNotFound.
func (c *Client) Probe(ctx context.Context, q Query) (*Library, error) {
	if q.Name == "" {
		return nil, fmt.Errorf("pkg-config module name is required")
	}

	check := []string{flagExists, q.Name}
	if q.ExactVersion != "" {
		check = []string{flagExactVersion + q.ExactVersion, q.Name}
	}
	if _, err := c.run(ctx, check...); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Debug("probe missed", "module", q.Name, "version", q.ExactVersion, "err", err)
		return nil, notFound(q, err)
	}

	lib := &Library{Name: q.Name}

	version, err := c.run(ctx, flagModVersion, q.Name)
	if err != nil {
		return nil, notFound(q, err)
	}
	lib.Version = strings.TrimSpace(version)

	if lib.LinkPaths, err = c.flags(ctx, q.Name, flagLibsOnlyL, "-L"); err != nil {
		return nil, notFound(q, err)
	}
	if lib.Libs, err = c.flags(ctx, q.Name, flagLibsOnlyl, "-l"); err != nil {
		return nil, notFound(q, err)
	}
	if lib.IncludePaths, err = c.flags(ctx, q.Name, flagCflagsOnlyI, "-I"); err != nil {
		return nil, notFound(q, err)
	}

	c.logger.Debug("probe hit", "module", q.Name, "version", lib.Version,
		"libs", lib.Libs, "link_paths", lib.LinkPaths, "include_paths", lib.IncludePaths)
	return lib, nil
}

func (c *Client) flags(ctx context.Context, name, flag, prefix string) ([]string, error) {
	out, err := c.run(ctx, flag, name)
	if err != nil {
		return nil, err
	}
	return ParseFlags(out, prefix)
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	return c.runner.Run(ctx, c.tool, shell.WithArgs(args...))
}

func notFound(q Query, cause error) error {
	what := q.Name
	if q.ExactVersion != "" {
		what += " = " + q.ExactVersion
	}
	if errors.Is(cause, shell.ErrNotRan) {
		return fmt.Errorf("%w: %s (pkg-config unavailable)", ErrNotFound, what)
	}
	return fmt.Errorf("%w: %s: %v", ErrNotFound, what, cause)
}
