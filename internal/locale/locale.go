package locale

import (
	"runtime"
	"strings"

	golocale "github.com/jeandeaual/go-locale"
)

// DefaultLocale is used whenever the platform locale cannot be
// determined or the vendor rejects it.
const DefaultLocale = "en-US"

// System returns the platform locale in BCP 47 form ("en-US"), falling
// back to DefaultLocale when detection fails.
func System() string {
	loc, err := golocale.GetLocale()
	if err != nil || loc == "" {
		return DefaultLocale
	}
	// Some platforms report underscore-separated POSIX locales.
	return strings.ReplaceAll(loc, "_", "-")
}

// HostArchitecture returns the architecture name of the current host in
// the vendor's naming ("x64", "x86", "ARM64").
func HostArchitecture() string {
	return archFromGOARCH(runtime.GOARCH)
}

func archFromGOARCH(goarch string) string {
	switch goarch {
	case "amd64":
		return "x64"
	case "386":
		return "x86"
	case "arm64":
		return "ARM64"
	case "arm":
		return "ARM32"
	default:
		return goarch
	}
}
