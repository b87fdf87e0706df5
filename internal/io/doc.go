// Package ioutils provides small file-system and formatting helpers used
// around artifact downloads.
//
// This package contains functions for:
//   - Deriving an output filename from a resolved download URL
//   - Filename sanitization for cross-platform compatibility
//   - Directory creation
//   - Human-readable byte formatting for progress output
//
//	name := ioutils.FileNameFromURL(url) // "Win11_24H2_x64.iso"
//	safe := ioutils.SanitizeFileName("a/b:c")
//	err := ioutils.EnsureDir("/isos")
//	fmt.Println(ioutils.HumanBytes(5 << 30)) // "5.0 GB"
package ioutils
