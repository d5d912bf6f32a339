package pkgconfig

const (
	// DefaultTool is the pkg-config executable looked up in PATH
	DefaultTool = "pkg-config"

	// EnvPath is the extra search path pkg-config honors
	EnvPath = "PKG_CONFIG_PATH"
)

// pkg-config switches used by a probe
const (
	flagExists       = "--exists"
	flagExactVersion = "--exact-version="
	flagModVersion   = "--modversion"
	flagLibsOnlyL    = "--libs-only-L"
	flagLibsOnlyl    = "--libs-only-l"
	flagCflagsOnlyI  = "--cflags-only-I"
)
