package pkgconfig

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ParseFlags splits pkg-config output and keeps the values of flags carrying prefix,
// e.g. ParseFlags("-L/usr/lib -L'/opt/my libs'", "-L") -> ["/usr/lib", "/opt/my libs"].
// Tokens without the prefix are ignored.
func ParseFlags(output, prefix string) ([]string, error) {
	words, err := shellwords.Parse(strings.TrimSpace(output))
	if err != nil {
		return nil, fmt.Errorf("parsing pkg-config output %q: %w", output, err)
	}

	var values []string
	for _, w := range words {
		v, ok := strings.CutPrefix(w, prefix)
		if !ok || v == "" {
			continue
		}
		values = append(values, v)
	}
	return values, nil
}
