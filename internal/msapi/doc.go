// Package msapi talks to Microsoft's session-gated software-download
// API and resolves a product selection down to a direct ISO link.
//
// The entry point is Resolver. Its stages mirror the selection funnel:
//
//	r := msapi.NewResolver(catalog.Default(), msapi.Config{})
//	langs, err := r.Languages(ctx, "Windows 11", "24H2", "Home/Pro")
//	archs, err := r.Architectures(ctx, "Windows 11", "24H2", "Home/Pro", "English")
//	url, err := r.DownloadURL(ctx, "Windows 11", "24H2", "Home/Pro", "English", "x64")
//
// The vendor requires each request to carry a session that was
// allow-listed against its gateway, and it expects the session used to
// fetch download links to be the one that fetched the SKU list. The
// package keeps one session per funnel branch in a registry and reuses
// it across stages. Requests are paced and reshaped per attempt to look
// like a browser; soft failures retry with backoff, and a response that
// names the rate-limit sentinel surfaces as a BlockedError carrying the
// vendor's own explanation when one can be scraped.
//
// UEFI Shell versions never touch the vendor API; their downloads are
// static release assets resolved from a URL template.
package msapi
