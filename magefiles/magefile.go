//go:build mage

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// outDir is where generated bindings land unless ASSIMPSYS_OUT_DIR says otherwise
const outDir = "gen"

var Default = Generate

func env() map[string]string {
	dir := os.Getenv("ASSIMPSYS_OUT_DIR")
	if dir == "" {
		dir = outDir
	}
	return map[string]string{"ASSIMPSYS_OUT_DIR": dir}
}

// Resolves Assimp and generates the binding package.
func Generate() error {
	args := []string{"run", "./cmd/assimpsys", "generate"}
	if mg.Verbose() {
		args = append(args, "--debug", "--print-directives")
	}
	return sh.RunWithV(env(), "go", args...)
}

// Regenerates bindings even when nothing changed.
func Regenerate() error {
	return sh.RunWithV(env(), "go", "run", "./cmd/assimpsys", "generate", "--force")
}

// Clones the bundled Assimp source if it is missing.
func Fetch() error {
	return sh.RunV("go", "run", "./cmd/assimpsys", "fetch")
}

// Runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Removes generated bindings and the cmake build tree.
func Clean() error {
	dir := env()["ASSIMPSYS_OUT_DIR"]
	fmt.Printf("Removing %s\n", dir)
	return sh.Rm(dir)
}
