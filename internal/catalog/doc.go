// Package catalog holds the static table of known product versions,
// releases and editions, and the substring lookups over it.
//
// The catalog is pure data: it is built once at startup, never mutated,
// and involves no network access. Network discovery only begins below the
// edition level (languages and architectures), which is the resolver's
// job.
//
// Lookups follow the funnel-wide matching policy: case-insensitive
// substring, first match wins.
//
//	cat := catalog.Default()
//	v, ok := cat.FindVersion("windows 11")
//	releases, ok := cat.Releases("Windows 11")
//	editions, ok := cat.Editions("Windows 11", "24H2")
package catalog
