// Package directive accumulates the link and rebuild directives a build produces.
// Resolver functions return a Set instead of printing; the builder flushes the merged
// Set once at the end of a run.
package directive

import (
	"fmt"
	"strings"
)

// Kind identifies what a directive asks of the final link or of the next build
type Kind string

const (
	// KindLinkSearch adds a library search directory (-L)
	KindLinkSearch Kind = "link-search"
	// KindLinkLib links a library (-l)
	KindLinkLib Kind = "link-lib"
	// KindInclude adds a header search directory (-I)
	KindInclude Kind = "include"
	// KindRerunIfChanged registers a file whose change invalidates the generated output
	KindRerunIfChanged Kind = "rerun-if-changed"
)

// Modifiers qualify link directives
const (
	ModNone   = ""
	ModNative = "native" // search directory holds native (non-Go) artifacts
	ModStatic = "static" // link the static archive
)

// Directive is one record on the directive channel
type Directive struct {
	Kind     Kind
	Modifier string
	Value    string
}

// String renders the directive in line-channel form, e.g. "cgo:link-lib=static=assimp"
func (d Directive) String() string {
	if d.Modifier != "" {
		return fmt.Sprintf("cgo:%s=%s=%s", d.Kind, d.Modifier, d.Value)
	}
	return fmt.Sprintf("cgo:%s=%s", d.Kind, d.Value)
}

// Parse reads a directive back from its line-channel form
func Parse(line string) (Directive, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "cgo:")
	if !ok {
		return Directive{}, fmt.Errorf("not a directive: %q", line)
	}
	kind, value, ok := strings.Cut(rest, "=")
	if !ok {
		return Directive{}, fmt.Errorf("directive without value: %q", line)
	}

	d := Directive{Kind: Kind(kind), Value: value}
	switch d.Kind {
	case KindLinkSearch, KindLinkLib:
		if mod, v, ok := strings.Cut(value, "="); ok && (mod == ModNative || mod == ModStatic) {
			d.Modifier, d.Value = mod, v
		}
	case KindInclude, KindRerunIfChanged:
	default:
		return Directive{}, fmt.Errorf("unknown directive kind %q", kind)
	}
	return d, nil
}

// Set is an ordered accumulator of directives
type Set struct {
	items []Directive
}

// New returns an empty Set
func New() *Set {
	return &Set{}
}

// Add appends a directive. Exact duplicates are dropped so merging sets stays idempotent.
func (s *Set) Add(d Directive) *Set {
	for _, existing := range s.items {
		if existing == d {
			return s
		}
	}
	s.items = append(s.items, d)
	return s
}

// LinkSearch appends a link-search directive
func (s *Set) LinkSearch(dir string) *Set {
	return s.Add(Directive{Kind: KindLinkSearch, Value: dir})
}

// LinkSearchNative appends a link-search directive for native artifacts
func (s *Set) LinkSearchNative(dir string) *Set {
	return s.Add(Directive{Kind: KindLinkSearch, Modifier: ModNative, Value: dir})
}

// LinkLib appends a link-lib directive
func (s *Set) LinkLib(name string) *Set {
	return s.Add(Directive{Kind: KindLinkLib, Value: name})
}

// LinkStatic appends a static link-lib directive
func (s *Set) LinkStatic(name string) *Set {
	return s.Add(Directive{Kind: KindLinkLib, Modifier: ModStatic, Value: name})
}

// Include appends an include directive
func (s *Set) Include(dir string) *Set {
	return s.Add(Directive{Kind: KindInclude, Value: dir})
}

// RerunIfChanged appends a rebuild trigger
func (s *Set) RerunIfChanged(path string) *Set {
	return s.Add(Directive{Kind: KindRerunIfChanged, Value: path})
}

// Merge appends every directive of other, in order
func (s *Set) Merge(other *Set) *Set {
	if other == nil {
		return s
	}
	for _, d := range other.items {
		s.Add(d)
	}
	return s
}

// All returns the directives in insertion order
func (s *Set) All() []Directive {
	return append([]Directive(nil), s.items...)
}

// Len returns the number of directives
func (s *Set) Len() int {
	return len(s.items)
}

// Filter returns the directives of kind k, in order
func (s *Set) Filter(k Kind) []Directive {
	var out []Directive
	for _, d := range s.items {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// Values returns the values of the directives of kind k, in order
func (s *Set) Values(k Kind) []string {
	var out []string
	for _, d := range s.Filter(k) {
		out = append(out, d.Value)
	}
	return out
}
