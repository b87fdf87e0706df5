// Package http wraps net/http with the browser-shaped configuration the
// vendor's download API expects.
//
// The vendor gates its endpoints behind anti-automation checks: requests
// must carry a plausible desktop-browser header set, cookies must persist
// across the session, and redirects must not be followed automatically.
// Client bakes all of that in so callers only supply per-request
// overrides (Referer, Accept, attempt-specific User-Agent).
//
// The package also provides streamed file download with progress
// reporting for the resolved artifact.
package http
