package bindgen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/arc-language/assimpsys/internal/shelltest"
)

func TestDefaultBlocklist(t *testing.T) {
	want := []string{"FP_ZERO", "FP_SUBNORMAL", "FP_NORMAL", "FP_NAN", "FP_INFINITE"}
	assert.Equal(t, want, DefaultBlocklist())

	// callers cannot mutate the shared list
	got := DefaultBlocklist()
	got[0] = "aiScene"
	assert.Equal(t, want, DefaultBlocklist())
}

func TestBuildManifestIgnoresBlocklistRegardlessOfIncludes(t *testing.T) {
	want := []string{"^FP_ZERO$", "^FP_SUBNORMAL$", "^FP_NORMAL$", "^FP_NAN$", "^FP_INFINITE$"}

	for _, includes := range [][]string{nil, {"/usr/include"}, {"/a", "/b", "/c"}} {
		m := BuildManifest(Options{Header: "/src/wrapper.h", IncludePaths: includes})
		assert.Equal(t, want, m.Ignored())

		// ignore rules come after accept rules
		global := m.Translator.Rules["global"]
		assert.Equal(t, "accept", global[0].Action)
		assert.Equal(t, "ignore", global[len(global)-1].Action)
	}
}

func TestBuildManifestAlwaysKeepsDefaultBlocklist(t *testing.T) {
	want := []string{"^FP_ZERO$", "^FP_SUBNORMAL$", "^FP_NORMAL$", "^FP_NAN$", "^FP_INFINITE$"}

	empty := BuildManifest(Options{Header: "/src/wrapper.h", Blocklist: []string{}})
	assert.Equal(t, want, empty.Ignored())

	extra := BuildManifest(Options{Header: "/src/wrapper.h", Blocklist: []string{"FP_NAN", "aiGetErrorString"}})
	assert.Equal(t, append(want, "^aiGetErrorString$"), extra.Ignored())
}

func TestBuildManifest(t *testing.T) {
	m := BuildManifest(Options{
		Header:       "/src/wrapper.h",
		IncludePaths: []string{"/src/assimp/include", "/out/include"},
		Derive:       DefaultDerive(),
	})

	assert.Equal(t, "assimp", m.Generator.PackageName)
	assert.Equal(t, []string{"wrapper.h"}, m.Generator.Includes)
	assert.Equal(t, []string{"/src", "/src/assimp/include", "/out/include"}, m.Parser.IncludePaths)
	assert.Equal(t, []string{"wrapper.h"}, m.Parser.SourcesPaths)
	require.Len(t, m.Generator.FlagGroups, 1)
	assert.Equal(t, []string{"-I/src/assimp/include", "-I/out/include"}, m.Generator.FlagGroups[0].Flags)
	assert.Equal(t, []Tip{{Target: "^ai", Self: "raw"}, {Target: "^AI_", Self: "raw"}}, m.Translator.MemTips)

	plain := BuildManifest(Options{Header: "/src/wrapper.h"})
	assert.Empty(t, plain.Translator.MemTips)
	assert.Empty(t, plain.Generator.FlagGroups)
}

func TestWriteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", ManifestName)
	m := BuildManifest(Options{Header: "/src/wrapper.h", IncludePaths: []string{"/inc"}})
	require.NoError(t, WriteManifest(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "GENERATOR:")
	assert.Contains(t, string(data), "TRANSLATOR:")

	var got Manifest
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, m.Ignored(), got.Ignored())
	assert.Equal(t, m.Parser, got.Parser)
}

func setup(t *testing.T) (header, out string) {
	t.Helper()
	dir := t.TempDir()
	header = filepath.Join(dir, "wrapper.h")
	require.NoError(t, os.WriteFile(header, []byte("#include <assimp/scene.h>\n"), 0644))
	return header, filepath.Join(dir, "out")
}

func TestGenerate(t *testing.T) {
	header, out := setup(t)
	manifest := filepath.Join(out, ManifestName)

	runner := shelltest.New().Fallback(func(c shelltest.Call) shelltest.Response {
		// emulate c-for-go writing the package
		os.MkdirAll(filepath.Join(out, PackageDirName), 0755)
		return shelltest.Response{}
	})

	g := NewCForGo(runner, "", nil)
	res, err := g.Generate(context.Background(), Options{Header: header, OutputDir: out, Derive: DefaultDerive()})
	require.NoError(t, err)

	assert.Equal(t, manifest, res.Manifest)
	assert.Equal(t, filepath.Join(out, "assimp"), res.PackageDir)
	assert.FileExists(t, manifest)

	calls := runner.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "c-for-go -nostamp -out "+out+" "+manifest, calls[0].String())
}

func TestGenerateFailures(t *testing.T) {
	header, out := setup(t)
	ctx := context.Background()

	t.Run("missing header", func(t *testing.T) {
		g := NewCForGo(shelltest.New(), "", nil)
		_, err := g.Generate(ctx, Options{Header: filepath.Join(out, "nope.h"), OutputDir: out})
		assert.ErrorIs(t, err, ErrBindingsGeneration)
	})

	t.Run("no output dir", func(t *testing.T) {
		g := NewCForGo(shelltest.New(), "", nil)
		_, err := g.Generate(ctx, Options{Header: header})
		assert.ErrorIs(t, err, ErrBindingsGeneration)
	})

	t.Run("generator fails", func(t *testing.T) {
		runner := shelltest.New().Fallback(func(c shelltest.Call) shelltest.Response {
			return shelltest.Response{Err: shelltest.Failed(c.Name, "wrapper.h:1: parse error")}
		})
		_, err := NewCForGo(runner, "", nil).Generate(ctx, Options{Header: header, OutputDir: out})
		assert.ErrorIs(t, err, ErrBindingsGeneration)
		assert.Contains(t, err.Error(), "unable to generate bindings")
		assert.Contains(t, err.Error(), "parse error")
	})

	t.Run("generator not installed", func(t *testing.T) {
		_, err := NewCForGo(shelltest.New(), "", nil).Generate(ctx, Options{Header: header, OutputDir: out})
		assert.ErrorIs(t, err, ErrBindingsGeneration)
	})

	t.Run("nothing written", func(t *testing.T) {
		runner := shelltest.New().Fallback(func(shelltest.Call) shelltest.Response { return shelltest.Response{} })
		_, err := NewCForGo(runner, "", nil).Generate(ctx, Options{Header: header, OutputDir: filepath.Join(out, "empty")})
		assert.ErrorIs(t, err, ErrBindingsGeneration)
	})

	t.Run("mismatched package name", func(t *testing.T) {
		_, err := NewCForGo(shelltest.New(), "", nil).Generate(ctx, Options{Header: header, OutputDir: out, PackageName: "scene"})
		assert.ErrorIs(t, err, ErrBindingsGeneration)
	})
}

func TestDerive(t *testing.T) {
	assert.False(t, Derive{}.Any())
	assert.True(t, Derive{Hash: true}.Any())
	assert.Equal(t, Derive{Eq: true, Hash: true, Debug: true}, DefaultDerive())
}
