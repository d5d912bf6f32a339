package platform

import (
	"fmt"
)

// Platform represents the detected build host
type Platform struct {
	Triple    Triple   // Host target triple
	Available []string // External tools found in PATH
	Missing   []string // External tools not found in PATH
}

// Detect detects the host triple and which of the given tools are installed
func Detect(tools ...string) (*Platform, error) {
	triple, err := Host()
	if err != nil {
		return nil, err
	}

	p := &Platform{
		Triple:    triple,
		Available: []string{},
	}

	for _, tool := range tools {
		if tool == "" || contains(p.Available, tool) || contains(p.Missing, tool) {
			continue
		}
		if commandExists(tool) {
			p.Available = append(p.Available, tool)
		} else {
			p.Missing = append(p.Missing, tool)
		}
	}

	return p, nil
}

// Has reports whether tool was found
func (p *Platform) Has(tool string) bool {
	return contains(p.Available, tool)
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	return fmt.Sprintf("%s (available: %v, missing: %v)",
		p.Triple, p.Available, p.Missing)
}
