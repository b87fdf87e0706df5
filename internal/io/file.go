package ioutils

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// isoNamePattern captures the ISO filename embedded in a download URL,
// ignoring any trailing query string (signed URLs carry long tokens after
// the filename).
var isoNamePattern = regexp.MustCompile(`.*/(.+\.iso)`)

// FileNameFromURL extracts the ISO filename from a resolved download URL.
//
// Returns an empty string when the URL does not contain a recognizable
// ISO path segment; callers fall back to a composed filename in that
// case.
//
// Example:
//
//	FileNameFromURL("https://host/path/Win11_24H2_x64.iso?t=abc")
//	// Returns "Win11_24H2_x64.iso"
func FileNameFromURL(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		url = url[:i]
	}
	m := isoNamePattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// SanitizeFileName removes or replaces characters that are invalid in
// file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("24H2 (Build 26100.1742 - 2024.10)") // unchanged
//	SanitizeFileName("a/b:c")                             // "a_b_c"
func SanitizeFileName(name string) string {
	// Replace invalid path/file characters with underscore
	invalidChars := regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	name = invalidChars.ReplaceAllString(name, "_")

	// Remove trailing dots (Windows doesn't allow filenames ending with dots)
	name = regexp.MustCompile(`\.+$`).ReplaceAllString(name, "")

	// Replace multiple whitespace with single space for cleaner names
	name = regexp.MustCompile(`\s+`).ReplaceAllString(name, " ")

	// Remove trailing whitespace
	name = strings.TrimRight(name, " ")

	return name
}

// EnsureDir creates a directory and all parent directories if they don't
// exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// HumanBytes formats a byte count for progress output, e.g. "5.4 GB".
// Values below 1 KB are printed as an exact byte count.
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	units := []string{"KB", "MB", "GB", "TB", "PB"}
	size := float64(n)
	i := -1
	for size >= unit && i < len(units)-1 {
		size /= unit
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
