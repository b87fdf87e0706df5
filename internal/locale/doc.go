// Package locale detects the host environment (locale and architecture)
// and maps locales to the vendor's language display names.
//
// The resolver's locale negotiator decides which locale the vendor API
// will actually accept; this package only answers what the host would
// prefer. Language defaulting uses MatchesLanguage, a fixed rule table
// keyed by locale prefixes with exact-locale overrides.
package locale
