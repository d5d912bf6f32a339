package cmake

const (
	// DefaultTool is the cmake executable looked up in PATH
	DefaultTool = "cmake"

	// MinimumVersion is the oldest cmake accepting the -S/-B invocation used here
	MinimumVersion = "3.13"

	// BuildDirName is the cmake binary directory, relative to the output directory
	BuildDirName = "build"
)

// CMake build types
const (
	BuildTypeDebug   = "Debug"
	BuildTypeRelease = "Release"
)

// Profiles recognized when choosing a build type
const (
	ProfileDebug   = "debug"
	ProfileRelease = "release"
)
