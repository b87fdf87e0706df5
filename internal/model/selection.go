package model

import "strings"

// Selection is a partially specified product choice. Empty fields are
// filled in with defaults by the download manager (first available
// release/edition, system-locale language, host architecture).
//
// All fields are matched case-insensitively by substring against catalog
// entries and API responses, so "windows 11", "24H2" and "home" are all
// valid fragments.
type Selection struct {
	Version      string
	Release      string
	Edition      string
	Language     string
	Architecture string
}

// String returns the selection as a single human-readable line, skipping
// fields that have not been filled in yet.
func (s Selection) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{s.Version, s.Release, s.Edition, s.Language, s.Architecture} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}

// MatchName reports whether name matches the query fragment using the
// matching policy applied throughout the funnel: case-insensitive
// substring. An empty query matches nothing; callers are expected to
// default empty fields before matching.
func MatchName(name, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}
