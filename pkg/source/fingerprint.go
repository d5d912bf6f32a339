package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"sort"

	"zombiezen.com/go/nix/nar"
)

// Nix uses a special base32 alphabet (without E, O, U, T)
const nixBase32Alphabet = "0123456789abcdfghijklmnpqrsvwxyz"

// Fingerprint hashes the NAR serialization of every path together with extra,
// returning "sha256:<nix-base32>". Path order does not matter.
func Fingerprint(paths []string, extra ...string) (string, error) {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	h := sha256.New()
	for _, s := range extra {
		io.WriteString(h, s)
		h.Write([]byte{0})
	}
	for _, p := range sorted {
		io.WriteString(h, p)
		h.Write([]byte{0})
		if err := nar.DumpPath(h, p); err != nil {
			return "", fmt.Errorf("hashing %s: %w", p, err)
		}
	}

	return "sha256:" + toNixBase32(h.Sum(nil)), nil
}

// toNixBase32 converts a byte slice to a Nix-compatible base32 encoded string
func toNixBase32(b []byte) string {
	length := (len(b)*8-1)/5 + 1
	result := make([]byte, length)

	for n := 0; n < length; n++ {
		bit := n * 5
		i := bit / 8
		j := bit % 8

		v := b[i] >> uint(j)
		if i < len(b)-1 && j > 3 {
			v |= b[i+1] << uint(8-j)
		}
		result[length-n-1] = nixBase32Alphabet[v&0x1f]
	}

	return string(result)
}
