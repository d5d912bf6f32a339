// Package assimpsys locates or builds the native Assimp library and generates cgo
// bindings for it.
//
// A probe through pkg-config for exactly version 5.0 comes first. When it misses, the
// bundled source tree is compiled into a static archive with cmake. The resolved include
// paths then drive c-for-go over wrapper.h, and the link flags are written next to the
// generated package as #cgo directives.
//
// The build runs from go generate:
//
//	ASSIMPSYS_OUT_DIR=$PWD/internal/gen go generate ./...
package assimpsys

//go:generate go run ./cmd/assimpsys generate
