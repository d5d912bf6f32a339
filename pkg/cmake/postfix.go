package cmake

// DebugPostfix returns the suffix cmake appends to library names for a given
// optimization level and profile. A numbered or size optimization level always wins
// over the profile; level 0 always means debug.
//
//	opt 1/2/3/s/z, any profile -> ""
//	opt 0, any profile         -> "d"
//	other opt, profile debug   -> "d"
//	otherwise                  -> ""
func DebugPostfix(optLevel, profile string) string {
	switch optLevel {
	case "1", "2", "3", "s", "z":
		return ""
	case "0":
		return "d"
	}
	if profile == ProfileDebug {
		return "d"
	}
	return ""
}

// BuildType returns the CMAKE_BUILD_TYPE consistent with DebugPostfix, so the
// artifact name we link against is the one cmake produced
func BuildType(optLevel, profile string) string {
	if DebugPostfix(optLevel, profile) == "d" {
		return BuildTypeDebug
	}
	return BuildTypeRelease
}
