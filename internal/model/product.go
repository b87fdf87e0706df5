package model

// Version is one product line offered by the catalog, e.g. "Windows 11"
// or "UEFI Shell 2.2".
//
// PageType is the vendor's landing-page slug for the product and is kept
// for display/diagnostic purposes only; the resolver always warms up the
// same download landing page regardless of product.
type Version struct {
	Name     string
	PageType string
	Index    int
}

// Release is one build of a version, e.g. "24H2 (Build 26100.1742 - 2024.10)".
type Release struct {
	Name  string
	Index int
}

// Edition is one edition of a release. An edition may carry several
// internal product-edition identifiers (distinct release channels that
// the vendor serves under one consumer-facing name); each identifier
// becomes its own funnel branch during language discovery.
type Edition struct {
	Name string
	IDs  []int
}

// SkuRef links a discovered SKU back to the funnel branch that surfaced
// it. BranchIndex is the zero-based position of the edition identifier
// within Edition.IDs, and is the key under which the branch's session
// identifier is registered.
//
// The download-links call for SkuID must present the exact session that
// was whitelisted for BranchIndex, which is why the linkage is kept per
// branch rather than per language.
type SkuRef struct {
	BranchIndex int
	SkuID       string
}

// Language is one installation language discovered across all funnel
// branches of an edition. When several branches surface the same
// language, their SKUs are merged into one Language record and Refs
// accumulates an entry per contributing branch.
type Language struct {
	// Name is the vendor's English language name, e.g.
	// "English (United States)". Shell products use a locale code
	// ("en-us") instead, since their images are language-neutral.
	Name string

	// DisplayName is the language name localized in that language
	// itself, e.g. "Deutsch" for German.
	DisplayName string

	// Refs holds the (branch, SKU) pairs that serve this language.
	Refs []SkuRef
}

// Architecture is one downloadable artifact flavor: an architecture name
// paired with the resolved download URL.
type Architecture struct {
	Name string
	URL  string
}

// Download type codes returned by the vendor's download-links endpoint.
const (
	downloadTypeX86 = iota
	downloadTypeX64
	downloadTypeARM64
)

// ArchitectureName maps a vendor download-type code to its architecture
// name. Unrecognized codes map to "Unknown" rather than failing, so a new
// code surfaced by the vendor degrades to an unmatchable entry instead of
// aborting the run.
func ArchitectureName(downloadType int) string {
	switch downloadType {
	case downloadTypeX86:
		return "x86"
	case downloadTypeX64:
		return "x64"
	case downloadTypeARM64:
		return "ARM64"
	default:
		return "Unknown"
	}
}
