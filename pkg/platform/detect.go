// pkg/platform/detect.go
package platform

import (
	"fmt"
	"runtime"
)

// Architecture is a package architecture name
type Architecture string

const (
	ArchX86_64  Architecture = "x86_64"  // x86 64-bit
	ArchI686    Architecture = "i686"    // x86 32-bit
	ArchAarch64 Architecture = "aarch64" // ARM 64-bit
	ArchArmv7h  Architecture = "armv7h"  // ARM 32-bit hard float
	ArchRiscv64 Architecture = "riscv64" // RISC-V 64-bit
	ArchAny     Architecture = "any"     // Architecture-independent
)

// AllArchitectures contains the architectures a recipe may target
var AllArchitectures = []Architecture{
	ArchX86_64,
	ArchI686,
	ArchAarch64,
	ArchArmv7h,
	ArchRiscv64,
	ArchAny,
}

// Detect maps the running system to its package architecture
func Detect() (Architecture, error) {
	switch runtime.GOARCH {
	case "amd64":
		return ArchX86_64, nil
	case "386":
		return ArchI686, nil
	case "arm64":
		return ArchAarch64, nil
	case "arm":
		return ArchArmv7h, nil
	case "riscv64":
		return ArchRiscv64, nil
	default:
		return "", fmt.Errorf("unsupported architecture: %s", runtime.GOARCH)
	}
}

// Effective picks the architecture a build of the given target list
// produces on the native machine: "any" stays "any", otherwise the
// native architecture when the list allows it.
func Effective(targets []string, native Architecture) (Architecture, error) {
	for _, t := range targets {
		if Architecture(t) == ArchAny {
			return ArchAny, nil
		}
	}
	for _, t := range targets {
		if Architecture(t) == native {
			return native, nil
		}
	}
	return "", fmt.Errorf("recipe targets %v, native architecture is %s", targets, native)
}
