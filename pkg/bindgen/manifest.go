package bindgen

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

var defaultPrefixes = []string{"ai", "AI_"}

// Manifest is the c-for-go project file
type Manifest struct {
	Generator  GeneratorSection  `yaml:"GENERATOR"`
	Parser     ParserSection     `yaml:"PARSER"`
	Translator TranslatorSection `yaml:"TRANSLATOR"`
}

type GeneratorSection struct {
	PackageName        string          `yaml:"PackageName"`
	PackageDescription string          `yaml:"PackageDescription"`
	Includes           []string        `yaml:"Includes"`
	FlagGroups         []FlagGroup     `yaml:"FlagGroups,omitempty"`
	Options            map[string]bool `yaml:"Options,omitempty"`
}

type FlagGroup struct {
	Name  string   `yaml:"name"`
	Flags []string `yaml:"flags"`
}

type ParserSection struct {
	IncludePaths []string `yaml:"IncludePaths"`
	SourcesPaths []string `yaml:"SourcesPaths"`
}

type TranslatorSection struct {
	ConstRules map[string]string `yaml:"ConstRules"`
	MemTips    []Tip             `yaml:"MemTips,omitempty"`
	Rules      map[string][]Rule `yaml:"Rules"`
}

// Rule is a translator rule; Action is accept, ignore or replace
type Rule struct {
	Action string `yaml:"action"`
	From   string `yaml:"from,omitempty"`
	To     string `yaml:"to,omitempty"`
}

// Tip adjusts how matching types are generated
type Tip struct {
	Target string `yaml:"target"`
	Self   string `yaml:"self"`
}

// BuildManifest renders opts into a c-for-go manifest. The default blocklist is always
// ignored, plus whatever opts.Blocklist adds. Ignore rules follow the accept rules in
// every group so they always win.
func BuildManifest(opts Options) *Manifest {
	blocklist := mergeBlocklist(opts.Blocklist)
	prefixes := opts.Prefixes
	if len(prefixes) == 0 {
		prefixes = defaultPrefixes
	}
	pkg := opts.PackageName
	if pkg == "" {
		pkg = PackageDirName
	}

	var accept []Rule
	for _, p := range prefixes {
		accept = append(accept, Rule{Action: "accept", From: "^" + regexp.QuoteMeta(p)})
	}
	var ignore []Rule
	for _, sym := range blocklist {
		ignore = append(ignore, Rule{Action: "ignore", From: "^" + regexp.QuoteMeta(sym) + "$"})
	}

	var cflags []string
	for _, inc := range opts.IncludePaths {
		cflags = append(cflags, "-I"+inc)
	}

	m := &Manifest{
		Generator: GeneratorSection{
			PackageName:        pkg,
			PackageDescription: "Go bindings for the Open Asset Import Library",
			Includes:           []string{filepath.Base(opts.Header)},
			Options:            map[string]bool{"SafeStrings": true},
		},
		Parser: ParserSection{
			IncludePaths: append([]string{filepath.Dir(opts.Header)}, opts.IncludePaths...),
			SourcesPaths: []string{filepath.Base(opts.Header)},
		},
		Translator: TranslatorSection{
			ConstRules: map[string]string{
				"defines": "expand",
				"enum":    "expand",
			},
			Rules: map[string][]Rule{
				"global":  append(append([]Rule(nil), accept...), ignore...),
				"const":   append(append([]Rule(nil), accept...), ignore...),
				"private": {{Action: "ignore", From: "^_"}},
			},
		},
	}
	if len(cflags) > 0 {
		m.Generator.FlagGroups = []FlagGroup{{Name: "CFLAGS", Flags: cflags}}
	}

	// plain structs keep Go's native == and map-key support, and print with %+v
	if opts.Derive.Any() {
		for _, p := range prefixes {
			m.Translator.MemTips = append(m.Translator.MemTips, Tip{Target: "^" + regexp.QuoteMeta(p), Self: "raw"})
		}
	}
	return m
}

// Ignored returns every symbol the manifest ignores
func (m *Manifest) Ignored() []string {
	var syms []string
	for _, r := range m.Translator.Rules["global"] {
		if r.Action == "ignore" {
			syms = append(syms, r.From)
		}
	}
	return syms
}

// WriteManifest writes m to path
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, append([]byte("---\n"), data...), 0644)
}

// mergeBlocklist returns DefaultBlocklist followed by the extra symbols not already in it
func mergeBlocklist(extra []string) []string {
	merged := DefaultBlocklist()
	for _, sym := range extra {
		if !slices.Contains(merged, sym) {
			merged = append(merged, sym)
		}
	}
	return merged
}
