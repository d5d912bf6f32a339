package platform

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Triple is a target triple in the arch-vendor-os[-env] form used by C toolchains
type Triple string

const (
	TripleX8664LinuxGNU   Triple = "x86_64-unknown-linux-gnu"
	TripleX8664LinuxMusl  Triple = "x86_64-unknown-linux-musl"
	TripleI686LinuxGNU    Triple = "i686-unknown-linux-gnu"
	TripleAarch64LinuxGNU Triple = "aarch64-unknown-linux-gnu"
	TripleArmv7LinuxGNU   Triple = "armv7-unknown-linux-gnueabihf"
	TripleRiscv64LinuxGNU Triple = "riscv64gc-unknown-linux-gnu"
	TripleX8664Darwin     Triple = "x86_64-apple-darwin"
	TripleAarch64Darwin   Triple = "aarch64-apple-darwin"
	TripleAarch64IOS      Triple = "aarch64-apple-ios"
	TripleX8664WindowsGNU Triple = "x86_64-pc-windows-gnu"
	TripleI686WindowsGNU  Triple = "i686-pc-windows-gnu"
	TripleX8664FreeBSD    Triple = "x86_64-unknown-freebsd"
)

// IsGNU reports whether the triple names a GNU environment (glibc or MinGW)
func (t Triple) IsGNU() bool {
	return strings.Contains(string(t), "gnu")
}

// IsApple reports whether the triple names an Apple platform
func (t Triple) IsApple() bool {
	return strings.Contains(string(t), "apple")
}

// Arch returns the architecture component
func (t Triple) Arch() string {
	arch, _, _ := strings.Cut(string(t), "-")
	return arch
}

func (t Triple) String() string {
	return string(t)
}

// FromGo maps a GOOS/GOARCH pair to the target triple cgo compiles for.
// Windows maps to the MinGW triples because cgo on Windows drives a MinGW gcc.
func FromGo(goos, goarch string) (Triple, error) {
	switch goos {
	case "linux":
		switch goarch {
		case "amd64":
			if goos == runtime.GOOS && isAlpine() {
				return TripleX8664LinuxMusl, nil
			}
			return TripleX8664LinuxGNU, nil
		case "386":
			return TripleI686LinuxGNU, nil
		case "arm64":
			return TripleAarch64LinuxGNU, nil
		case "arm":
			return TripleArmv7LinuxGNU, nil
		case "riscv64":
			return TripleRiscv64LinuxGNU, nil
		}
	case "darwin":
		switch goarch {
		case "amd64":
			return TripleX8664Darwin, nil
		case "arm64":
			return TripleAarch64Darwin, nil
		}
	case "ios":
		if goarch == "arm64" {
			return TripleAarch64IOS, nil
		}
	case "windows":
		switch goarch {
		case "amd64":
			return TripleX8664WindowsGNU, nil
		case "386":
			return TripleI686WindowsGNU, nil
		}
	case "freebsd":
		if goarch == "amd64" {
			return TripleX8664FreeBSD, nil
		}
	}
	return "", fmt.Errorf("unsupported platform: %s/%s", goos, goarch)
}

// Host returns the triple of the running system
func Host() (Triple, error) {
	return FromGo(runtime.GOOS, runtime.GOARCH)
}

func isAlpine() bool {
	data, err := os.ReadFile("/etc/os-release")
	if err != nil {
		if _, err := os.Stat("/etc/alpine-release"); err == nil {
			return true
		}
		return false
	}
	content := strings.ToLower(string(data))
	return strings.Contains(content, "alpine")
}
