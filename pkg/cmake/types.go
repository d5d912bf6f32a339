package cmake

import (
	"errors"
)

// ErrBuildFailed indicates configuring, building or installing with cmake failed
var ErrBuildFailed = errors.New("cmake build failed")

// Define is one -D cache entry
type Define struct {
	Key   string
	Value string
}

// Install describes a finished cmake install
type Install struct {
	Prefix    string // CMAKE_INSTALL_PREFIX, the output directory
	BuildDir  string
	BuildType string
	Postfix   string // debug postfix baked into library names
}
