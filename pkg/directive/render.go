package directive

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
)

// CgoFileName is the file WriteCgoFile produces inside the generated package
const CgoFileName = "zz_cgo_flags.go"

// WriteLines writes one directive per line, in order
func (s *Set) WriteLines(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, d := range s.items {
		if _, err := fmt.Fprintln(bw, d.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadLines parses the output of WriteLines; blank lines and lines without the cgo: prefix are skipped
func ReadLines(r io.Reader) (*Set, error) {
	s := New()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, "cgo:") {
			continue
		}
		d, err := Parse(line)
		if err != nil {
			return nil, err
		}
		s.Add(d)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// CFlags returns the compiler flags implied by include directives
func (s *Set) CFlags() []string {
	var flags []string
	for _, dir := range s.Values(KindInclude) {
		flags = append(flags, "-I"+quote(dir))
	}
	return flags
}

// LDFlags returns the linker flags: every search directory first, then libraries in order
func (s *Set) LDFlags() []string {
	var flags []string
	for _, dir := range s.Values(KindLinkSearch) {
		flags = append(flags, "-L"+quote(dir))
	}
	for _, lib := range s.Values(KindLinkLib) {
		flags = append(flags, "-l"+quote(lib))
	}
	return flags
}

// cgo splits #cgo flag lists on spaces unless quoted
func quote(s string) string {
	if strings.ContainsAny(s, " \t\"'") {
		return strconv.Quote(s)
	}
	return s
}

var cgoFileTemplate = template.Must(template.New("cgo").Parse(`// Code generated by assimpsys; DO NOT EDIT.

package {{.Package}}

/*
{{- if .CFlags}}
#cgo CFLAGS: {{.CFlags}}
#cgo CXXFLAGS: {{.CFlags}}
{{- end}}
{{- if .LDFlags}}
#cgo LDFLAGS: {{.LDFlags}}
{{- end}}
*/
import "C"
`))

// RenderCgoFile returns the Go source carrying the set's flags as #cgo directives
func (s *Set) RenderCgoFile(pkg string) ([]byte, error) {
	if pkg == "" {
		return nil, fmt.Errorf("package name is required")
	}

	var buf bytes.Buffer
	err := cgoFileTemplate.Execute(&buf, struct {
		Package string
		CFlags  string
		LDFlags string
	}{
		Package: pkg,
		CFlags:  strings.Join(s.CFlags(), " "),
		LDFlags: strings.Join(s.LDFlags(), " "),
	})
	if err != nil {
		return nil, fmt.Errorf("rendering cgo flags: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteCgoFile renders the cgo flags file into dir, creating dir if needed
func (s *Set) WriteCgoFile(dir, pkg string) (string, error) {
	data, err := s.RenderCgoFile(pkg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating package directory: %w", err)
	}

	path := filepath.Join(dir, CgoFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing cgo flags: %w", err)
	}
	return path, nil
}
