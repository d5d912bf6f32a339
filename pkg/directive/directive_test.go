package directive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectiveString(t *testing.T) {
	assert.Equal(t, "cgo:link-search=/usr/lib", Directive{Kind: KindLinkSearch, Value: "/usr/lib"}.String())
	assert.Equal(t, "cgo:link-search=native=/out/lib", Directive{Kind: KindLinkSearch, Modifier: ModNative, Value: "/out/lib"}.String())
	assert.Equal(t, "cgo:link-lib=static=assimpd", Directive{Kind: KindLinkLib, Modifier: ModStatic, Value: "assimpd"}.String())
}

func TestParse(t *testing.T) {
	d, err := Parse("cgo:link-lib=static=assimp")
	require.NoError(t, err)
	assert.Equal(t, Directive{Kind: KindLinkLib, Modifier: ModStatic, Value: "assimp"}, d)

	d, err = Parse("cgo:rerun-if-changed=/src/a=b.h")
	require.NoError(t, err)
	assert.Equal(t, Directive{Kind: KindRerunIfChanged, Value: "/src/a=b.h"}, d)

	_, err = Parse("cargo:rustc-link-lib=z")
	assert.Error(t, err)
	_, err = Parse("cgo:bogus=1")
	assert.Error(t, err)
	_, err = Parse("cgo:link-lib")
	assert.Error(t, err)
}

func TestSetOrderAndDedup(t *testing.T) {
	s := New().
		LinkSearchNative("/out/lib").
		LinkStatic("assimp").
		LinkLib("stdc++").
		LinkStatic("assimp")

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"assimp", "stdc++"}, s.Values(KindLinkLib))

	other := New().LinkLib("minizip").LinkLib("stdc++")
	s.Merge(other).Merge(nil)
	assert.Equal(t, []string{"assimp", "stdc++", "minizip"}, s.Values(KindLinkLib))
}

func TestLinesRoundTrip(t *testing.T) {
	s := New().
		LinkSearch("/usr/lib").
		LinkLib("assimp").
		Include("/usr/include").
		RerunIfChanged("/src/code/Importer.cpp")

	var buf bytes.Buffer
	require.NoError(t, s.WriteLines(&buf))
	assert.Equal(t, "cgo:link-search=/usr/lib\ncgo:link-lib=assimp\ncgo:include=/usr/include\ncgo:rerun-if-changed=/src/code/Importer.cpp\n", buf.String())

	back, err := ReadLines(bytes.NewBufferString("noise\n\n" + buf.String()))
	require.NoError(t, err)
	assert.Equal(t, s.All(), back.All())
}

func TestFlags(t *testing.T) {
	s := New().
		LinkSearchNative("/out/lib").
		LinkStatic("assimp").
		LinkSearch("/opt/my libs").
		LinkLib("stdc++").
		Include("/src/include")

	assert.Equal(t, []string{"-I/src/include"}, s.CFlags())
	assert.Equal(t, []string{"-L/out/lib", `-L"/opt/my libs"`, "-lassimp", "-lstdc++"}, s.LDFlags())
}

func TestWriteCgoFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "assimp")
	s := New().LinkSearch("/usr/lib").LinkLib("assimp").Include("/usr/include")

	path, err := s.WriteCgoFile(dir, "assimp")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, CgoFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	src := string(data)
	assert.Contains(t, src, "package assimp\n")
	assert.Contains(t, src, "#cgo CFLAGS: -I/usr/include\n")
	assert.Contains(t, src, "#cgo LDFLAGS: -L/usr/lib -lassimp\n")
	assert.Contains(t, src, `import "C"`)
}

func TestRenderCgoFileWithoutIncludes(t *testing.T) {
	data, err := New().LinkLib("c++").RenderCgoFile("assimp")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "CFLAGS")

	_, err = New().RenderCgoFile("")
	assert.Error(t, err)
}
