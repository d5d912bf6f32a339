package cmake

import (
	"context"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/arc-language/assimpsys/internal/shell"
)

var versionLine = regexp.MustCompile(`cmake version (\d+\.\d+(?:\.\d+)?)`)

// ParseVersion extracts the version from `cmake --version` output
func ParseVersion(output string) (*semver.Version, error) {
	m := versionLine.FindStringSubmatch(output)
	if m == nil {
		return nil, fmt.Errorf("unrecognized cmake --version output: %q", output)
	}
	return semver.NewVersion(m[1])
}

// CheckVersion runs `cmake --version` and rejects anything older than MinimumVersion
func CheckVersion(ctx context.Context, runner shell.Runner, tool string) (*semver.Version, error) {
	out, err := runner.Run(ctx, tool, shell.WithArgs("--version"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}

	v, err := ParseVersion(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}

	c, err := semver.NewConstraint(">= " + MinimumVersion)
	if err != nil {
		return nil, err
	}
	if !c.Check(v) {
		return v, fmt.Errorf("%w: cmake %s is older than the required %s", ErrBuildFailed, v, MinimumVersion)
	}
	return v, nil
}
