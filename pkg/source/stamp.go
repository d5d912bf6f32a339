package source

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// StampFileName is written to the output directory after a successful run
const StampFileName = "assimpsys.stamp.yaml"

// Stamp records what a run produced so an unchanged tree can skip regeneration
type Stamp struct {
	Fingerprint string    `yaml:"fingerprint"`
	Origin      string    `yaml:"origin"`
	Version     string    `yaml:"version,omitempty"`
	Target      string    `yaml:"target"`
	Directives  []string  `yaml:"directives"`
	Triggers    []string  `yaml:"triggers"`
	Generated   time.Time `yaml:"generated"`
}

// LoadStamp reads the stamp in dir. A missing stamp is not an error.
func LoadStamp(dir string) (*Stamp, error) {
	data, err := os.ReadFile(filepath.Join(dir, StampFileName))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading stamp: %w", err)
	}

	var s Stamp
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing stamp: %w", err)
	}
	return &s, nil
}

// Save writes the stamp into dir
func (s *Stamp) Save(dir string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding stamp: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	return os.WriteFile(filepath.Join(dir, StampFileName), data, 0644)
}

// Fresh reports whether the stamp matches fingerprint
func (s *Stamp) Fresh(fingerprint string) bool {
	return s != nil && s.Fingerprint != "" && s.Fingerprint == fingerprint
}
