package msapi

import (
	"context"
	"time"
)

// Endpoints holds the vendor URLs the resolver talks to. Tests point
// these at local servers; production uses DefaultEndpoints.
type Endpoints struct {
	// LandingPage is the consumer download page: visited once to warm
	// the session, and sent as Referer on every API call.
	LandingPage string

	// SKUInfo lists the SKUs (languages) of a product edition.
	SKUInfo string

	// DownloadLinks lists the download options of a SKU.
	DownloadLinks string

	// Gateway is the session allow-listing endpoint.
	Gateway string

	// SiteBase is the vendor site root, used for the locale probe and
	// the localized ban-message page.
	SiteBase string

	// ShellBase is the release-asset root for firmware-shell products.
	ShellBase string
}

// DefaultEndpoints returns the production vendor endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		LandingPage:   "https://www.microsoft.com/software-download/windows11",
		SKUInfo:       "https://www.microsoft.com/software-download-connector/api/getskuinformationbyproductedition",
		DownloadLinks: "https://www.microsoft.com/software-download-connector/api/GetProductDownloadLinksBySku",
		Gateway:       "https://vlscppe.microsoft.com/tags",
		SiteBase:      "https://www.microsoft.com",
		ShellBase:     "https://github.com/pbatard/UEFI-Shell/releases/download",
	}
}

// sleepFunc abstracts the pacing and backoff sleeps so tests can record
// them instead of waiting.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
