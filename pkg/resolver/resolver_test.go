package resolver

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"

	"github.com/arc-language/assimpsys/internal/shelltest"
	"github.com/arc-language/assimpsys/pkg/cmake"
	"github.com/arc-language/assimpsys/pkg/core"
	"github.com/arc-language/assimpsys/pkg/directive"
	"github.com/arc-language/assimpsys/pkg/pkgconfig"
	"github.com/arc-language/assimpsys/pkg/platform"
	"github.com/arc-language/assimpsys/pkg/registry"
)

type fakeProber struct {
	libs    map[string]*pkgconfig.Library
	queries []pkgconfig.Query
}

func (p *fakeProber) Probe(ctx context.Context, q pkgconfig.Query) (*pkgconfig.Library, error) {
	p.queries = append(p.queries, q)
	lib, ok := p.libs[q.Name]
	if !ok || (q.ExactVersion != "" && lib.Version != q.ExactVersion) {
		return nil, fmt.Errorf("%w: %s", pkgconfig.ErrNotFound, q.Name)
	}
	return lib, nil
}

type fakeCompiler struct {
	calls  int
	libDir string // relative to the output dir; empty writes nothing
	err    error
}

func (c *fakeCompiler) Compile(ctx context.Context, src string, bc core.BuildConfig, entry *registry.Entry) (*cmake.Install, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	postfix := cmake.DebugPostfix(bc.OptLevel, bc.Profile)
	if c.libDir != "" {
		dir := filepath.Join(bc.OutDir, c.libDir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(filepath.Join(dir, "lib"+entry.Link+postfix+".a"), nil, 0644); err != nil {
			return nil, err
		}
	}
	return &cmake.Install{Prefix: bc.OutDir, Postfix: postfix}, nil
}

func buildConfig(t *testing.T, opt, profile string) core.BuildConfig {
	t.Helper()
	manifest := t.TempDir()
	for _, f := range []string{"assimp/include/assimp/scene.h", "assimp/code/Importer.cpp", "assimp/code/Vertex.inl", "assimp/CMakeLists.txt"} {
		p := filepath.Join(manifest, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0644))
	}
	return core.BuildConfig{
		Target:      platform.TripleX8664LinuxGNU,
		OptLevel:    opt,
		Profile:     profile,
		OutDir:      t.TempDir(),
		ManifestDir: manifest,
	}
}

func loadEntry(t *testing.T, name string) *registry.Entry {
	t.Helper()
	e, err := registry.New("").Load(name)
	require.NoError(t, err)
	return e
}

func assimpEntry(t *testing.T) *registry.Entry {
	return loadEntry(t, registry.Assimp)
}

func TestResolvePrimaryProbeHitNeverCompiles(t *testing.T) {
	prober := &fakeProber{libs: map[string]*pkgconfig.Library{
		"assimp": {Name: "assimp", Version: "5.0", LinkPaths: []string{"/usr/lib"}, Libs: []string{"assimp"}, IncludePaths: []string{"/usr/include"}},
	}}
	compiler := &fakeCompiler{libDir: "lib"}
	r := New(prober, compiler, nil)

	desc, set, err := r.ResolvePrimary(context.Background(), buildConfig(t, "3", "release"), assimpEntry(t))
	require.NoError(t, err)

	assert.Equal(t, 0, compiler.calls)
	assert.Equal(t, OriginSystem, desc.Origin)
	assert.Equal(t, "5.0", desc.Version)
	assert.Equal(t, []string{"/usr/include"}, desc.IncludePaths)
	assert.Equal(t, []directive.Directive{
		{Kind: directive.KindLinkSearch, Value: "/usr/lib"},
		{Kind: directive.KindLinkLib, Value: "assimp"},
	}, set.All())
	assert.Equal(t, []pkgconfig.Query{{Name: "assimp", ExactVersion: "5.0"}}, prober.queries)
}

func TestResolvePrimaryWrongVersionBuilds(t *testing.T) {
	prober := &fakeProber{libs: map[string]*pkgconfig.Library{
		"assimp": {Name: "assimp", Version: "5.2.5"},
	}}
	compiler := &fakeCompiler{libDir: "lib"}
	r := New(prober, compiler, nil)

	desc, _, err := r.ResolvePrimary(context.Background(), buildConfig(t, "2", "release"), assimpEntry(t))
	require.NoError(t, err)
	assert.Equal(t, 1, compiler.calls)
	assert.Equal(t, OriginBundled, desc.Origin)
}

func TestResolvePrimaryBuild(t *testing.T) {
	bc := buildConfig(t, "0", "debug")
	compiler := &fakeCompiler{libDir: "lib"}
	r := New(&fakeProber{}, compiler, nil)

	desc, set, err := r.ResolvePrimary(context.Background(), bc, assimpEntry(t))
	require.NoError(t, err)

	src := filepath.Join(bc.ManifestDir, "assimp")
	assert.Equal(t, []string{filepath.Join(src, "include"), filepath.Join(bc.OutDir, "include")}, desc.IncludePaths)
	assert.Equal(t, []string{"assimpd"}, desc.Libs)
	assert.Equal(t, "5.0", desc.Version)

	all := set.All()
	require.GreaterOrEqual(t, len(all), 2)
	assert.Equal(t, directive.Directive{Kind: directive.KindLinkSearch, Modifier: directive.ModNative, Value: filepath.Join(bc.OutDir, "lib")}, all[0])
	assert.Equal(t, directive.Directive{Kind: directive.KindLinkLib, Modifier: directive.ModStatic, Value: "assimpd"}, all[1])
	assert.Equal(t, []string{
		filepath.Join(src, "code", "Importer.cpp"),
		filepath.Join(src, "code", "Vertex.inl"),
		filepath.Join(src, "include", "assimp", "scene.h"),
	}, set.Values(directive.KindRerunIfChanged))
}

func TestResolvePrimaryReleaseHasNoPostfix(t *testing.T) {
	bc := buildConfig(t, "3", "debug")
	r := New(&fakeProber{}, &fakeCompiler{libDir: "lib"}, nil)

	desc, _, err := r.ResolvePrimary(context.Background(), bc, assimpEntry(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"assimp"}, desc.Libs)
}

func TestResolvePrimaryLib64(t *testing.T) {
	bc := buildConfig(t, "3", "release")
	r := New(&fakeProber{}, &fakeCompiler{libDir: "lib64"}, nil)

	desc, set, err := r.ResolvePrimary(context.Background(), bc, assimpEntry(t))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(bc.OutDir, "lib64")}, desc.LinkPaths)
	assert.Equal(t, []string{filepath.Join(bc.OutDir, "lib64")}, set.Values(directive.KindLinkSearch))
}

func TestResolvePrimaryMissingArchiveDefaultsToLib(t *testing.T) {
	bc := buildConfig(t, "3", "release")
	r := New(&fakeProber{}, &fakeCompiler{}, nil)

	desc, _, err := r.ResolvePrimary(context.Background(), bc, assimpEntry(t))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(bc.OutDir, "lib")}, desc.LinkPaths)
}

func TestResolvePrimaryBuildFailure(t *testing.T) {
	bc := buildConfig(t, "3", "release")
	r := New(&fakeProber{}, &fakeCompiler{err: fmt.Errorf("%w: configure", cmake.ErrBuildFailed)}, nil)

	_, _, err := r.ResolvePrimary(context.Background(), bc, assimpEntry(t))
	assert.ErrorIs(t, err, cmake.ErrBuildFailed)
}

func TestResolvePrimarySourceMissing(t *testing.T) {
	bc := buildConfig(t, "3", "release")
	bc.ManifestDir = t.TempDir()
	compiler := &fakeCompiler{}
	r := New(&fakeProber{}, compiler, nil)

	_, _, err := r.ResolvePrimary(context.Background(), bc, assimpEntry(t))
	assert.ErrorIs(t, err, ErrSourceMissing)
	assert.Equal(t, 0, compiler.calls)
}

func TestResolvePrimaryUnpacksArchive(t *testing.T) {
	bc := buildConfig(t, "3", "release")
	bc.ManifestDir = t.TempDir()

	var raw bytes.Buffer
	tw := tar.NewWriter(&raw)
	body := []byte("struct aiScene;")
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "assimp-5.0.0/include/assimp/scene.h", Typeflag: tar.TypeReg, Mode: 0644, Size: int64(len(body))}))
	_, err := tw.Write(body)
	require.NoError(t, err)
	require.NoError(t, tw.Close())

	var compressed bytes.Buffer
	xw, err := xz.NewWriter(&compressed)
	require.NoError(t, err)
	_, err = xw.Write(raw.Bytes())
	require.NoError(t, err)
	require.NoError(t, xw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(bc.ManifestDir, "assimp-5.0.tar.xz"), compressed.Bytes(), 0644))

	r := New(&fakeProber{}, &fakeCompiler{libDir: "lib"}, nil)
	_, set, err := r.ResolvePrimary(context.Background(), bc, assimpEntry(t))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(bc.ManifestDir, "assimp", "include", "assimp", "scene.h")},
		set.Values(directive.KindRerunIfChanged))
}

func TestResolvePrimaryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	compiler := &fakeCompiler{}
	r := New(&fakeProber{}, compiler, nil)
	_, _, err := r.ResolvePrimary(ctx, buildConfig(t, "3", "release"), assimpEntry(t))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, compiler.calls)
}

func TestResolveAuxiliary(t *testing.T) {
	minizip := loadEntry(t, registry.Minizip)

	t.Run("hit", func(t *testing.T) {
		prober := &fakeProber{libs: map[string]*pkgconfig.Library{
			"minizip": {Name: "minizip", Version: "1.2.13", LinkPaths: []string{"/usr/lib"}, Libs: []string{"minizip", "z"}},
		}}
		desc, set, err := New(prober, nil, nil).ResolveAuxiliary(context.Background(), minizip)
		require.NoError(t, err)
		assert.Equal(t, "1.2.13", desc.Version)
		assert.Equal(t, []string{"minizip", "z"}, set.Values(directive.KindLinkLib))
		assert.Equal(t, []pkgconfig.Query{{Name: "minizip"}}, prober.queries)
	})

	t.Run("miss", func(t *testing.T) {
		desc, set, err := New(&fakeProber{}, nil, nil).ResolveAuxiliary(context.Background(), minizip)
		require.NoError(t, err)
		assert.Nil(t, desc)
		assert.Equal(t, 0, set.Len())
	})

	t.Run("required miss", func(t *testing.T) {
		required := *minizip
		required.Optional = false
		desc, set, err := New(&fakeProber{}, nil, nil).ResolveAuxiliary(context.Background(), &required)
		assert.ErrorIs(t, err, pkgconfig.ErrNotFound)
		assert.Nil(t, desc)
		assert.Nil(t, set)
	})
}

func TestStdlibDirectives(t *testing.T) {
	tests := []struct {
		triple platform.Triple
		want   []string
	}{
		{"x86_64-unknown-linux-gnu", []string{"stdc++"}},
		{"x86_64-pc-windows-gnu", []string{"stdc++"}},
		{"aarch64-apple-darwin", []string{"c++"}},
		{"x86_64-apple-ios", []string{"c++"}},
		{"x86_64-pc-windows-msvc", nil},
		{"x86_64-unknown-linux-musl", nil},
	}
	for _, tt := range tests {
		t.Run(string(tt.triple), func(t *testing.T) {
			assert.Equal(t, tt.want, StdlibDirectives(tt.triple).Values(directive.KindLinkLib))
		})
	}
}

func TestCMakeCompilerPassesEntryDefines(t *testing.T) {
	bc := buildConfig(t, "3", "release")
	runner := shelltest.New().
		On("cmake --version", "cmake version 3.27.4\n", nil).
		Fallback(func(c shelltest.Call) shelltest.Response { return shelltest.Response{} })

	c := &CMakeCompiler{Runner: runner}
	install, err := c.Compile(context.Background(), filepath.Join(bc.ManifestDir, "assimp"), bc, assimpEntry(t))
	require.NoError(t, err)
	assert.Equal(t, bc.OutDir, install.Prefix)

	calls := runner.Calls()
	require.Len(t, calls, 3)
	configure := calls[1].Args
	assert.Contains(t, configure, "-DASSIMP_BUILD_TESTS=OFF")
	assert.Contains(t, configure, "-DBUILD_SHARED_LIBS=OFF")
	assert.Contains(t, configure, "-DLIBRARY_SUFFIX=")
	assert.Contains(t, configure, "-DCMAKE_C_COMPILER=clang")
	assert.Contains(t, configure, "-DCMAKE_CXX_STANDARD=11")
}
