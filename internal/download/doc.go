// Package download orchestrates the end-to-end flow from a partial
// product selection to an ISO on disk.
//
// # Manager
//
// The Manager wraps the resolution pipeline and the artifact download:
//
//  1. Fill in unspecified selection fields (first release/edition,
//     system-locale language, host architecture)
//  2. Resolve the completed selection to a direct download URL
//  3. Stream the artifact to the configured output path
//
// # Basic Usage
//
//	manager := download.NewManager(settings, logger, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	sel, url, err := manager.Resolve(ctx, model.Selection{Version: "windows 11"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	path, err := manager.Download(ctx, url)
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Byte-level progress is polled with GetProgress, which the TUI uses to
// render its progress bar.
//
// # Retry Logic
//
// Failed downloads are automatically retried with exponential cooldown,
// configurable via settings.DownloadMaxRetries and
// settings.DownloadRetryCooldown. An existing file whose size is within
// settings.AllowedFileSizeDifference of the remote size is not
// re-downloaded.
package download
