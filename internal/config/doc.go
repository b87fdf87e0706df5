// Package config manages application settings.
//
// Settings are stored as JSON. A missing settings file is not an error;
// defaults are returned instead, so the tools work with zero
// configuration.
//
//	settings, err := config.Load("/home/user/.config/windl/settings.json")
//	settings.OutputPath = "/isos/win11.iso"
//	err = settings.Save("/home/user/.config/windl/settings.json")
//
// Flag overrides happen at the CLI boundary; packages below receive the
// final Settings value.
package config
