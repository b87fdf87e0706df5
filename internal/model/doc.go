// Package model defines the domain types shared across the resolver and
// downloader: partially specified selections, catalog entries (versions,
// releases, editions), discovered languages with their per-branch SKU
// linkage, and resolved architectures.
//
// # Matching Policy
//
// Every name lookup in the funnel uses the same policy, implemented by
// MatchName: case-insensitive substring, first match wins. A selection
// fragment that matches nothing yields a not-found error from the caller,
// never a panic.
//
// # Branch Linkage
//
// Language records preserve which funnel branch discovered each SKU via
// SkuRef. Later pipeline stages use SkuRef.BranchIndex to look up the
// session identifier that must accompany the SKU's download-links call.
package model
