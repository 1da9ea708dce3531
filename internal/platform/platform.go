package platform

import "runtime"

// OperatingSystem is the host family that decides the extension file suffix.
type OperatingSystem string

const (
	Linux   OperatingSystem = "linux"
	Darwin  OperatingSystem = "darwin"
	Windows OperatingSystem = "windows"
	Other   OperatingSystem = "other"
)

// builtinSuffixes maps operating systems to the file suffix of a compiled
// PHP extension. Anything not listed uses ".so".
var builtinSuffixes = map[OperatingSystem]string{
	Windows: ".dll",
}

const defaultSuffix = ".so"

// Detect returns the OperatingSystem for the running binary.
func Detect() OperatingSystem {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a GOOS value to an OperatingSystem.
func FromGOOS(goos string) OperatingSystem {
	switch goos {
	case "linux":
		return Linux
	case "darwin":
		return Darwin
	case "windows":
		return Windows
	default:
		return Other
	}
}

// ExtensionSuffix returns the extension file suffix for host.
func ExtensionSuffix(host OperatingSystem) string {
	if s, ok := builtinSuffixes[host]; ok {
		return s
	}
	return defaultSuffix
}

// ResolveSuffix returns override when set, otherwise the suffix for the host.
func ResolveSuffix(override string) string {
	if override != "" {
		return override
	}
	return ExtensionSuffix(Detect())
}
