package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Settings holds all configuration options.
type Settings struct {
	// Output settings
	OutputPath string `json:"output_path"` // empty: derive filename from the resolved URL

	// Network settings
	RequestTimeoutSeconds  int `json:"request_timeout_seconds"`
	DownloadTimeoutSeconds int `json:"download_timeout_seconds"`

	// Artifact download retry settings
	DownloadMaxRetries        int     `json:"download_max_retries"`
	DownloadRetryCooldown     float64 `json:"download_retry_cooldown"`
	DownloadRetryExponent     float64 `json:"download_retry_exponent"`
	AllowedFileSizeDifference float64 `json:"allowed_file_size_difference"`

	// Vendor identifiers. These mirror what the consumer download page
	// sends and rarely change; they are configurable so a rotation on the
	// vendor side doesn't require a new build.
	OrgID     string `json:"org_id"`
	ProfileID string `json:"profile_id"`

	// DefaultLocale is adopted when the system locale is rejected by the
	// vendor's landing page probe.
	DefaultLocale string `json:"default_locale"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		OutputPath:                "",
		RequestTimeoutSeconds:     30,
		DownloadTimeoutSeconds:    300,
		DownloadMaxRetries:        3,
		DownloadRetryCooldown:     1.0,
		DownloadRetryExponent:     2.0,
		AllowedFileSizeDifference: 0.05,
		OrgID:                     "y6jn8c31",
		ProfileID:                 "606624d44113c169",
		DefaultLocale:             "en-US",
	}
}

// Load reads settings from a JSON file. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
