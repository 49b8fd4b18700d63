package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds application configuration.
type Config struct {
	// DBPath points at the content database. Defaults to <base>/content.db.
	DBPath string `json:"db_path,omitempty"`

	// UploadsDir points at the media uploads root mirrored into exports.
	// Media copying is skipped when empty.
	UploadsDir string `json:"uploads_dir,omitempty"`

	// BaseURL overrides the site base URL read from the content source.
	// Used when stripping permalinks down to their legacy paths.
	BaseURL string `json:"base_url,omitempty"`

	// PostTypes lists the content types eligible for export.
	// Defaults to post and page.
	PostTypes []string `json:"post_types,omitempty"`

	// BodyFormat declares how item bodies are stored: "markdown" bodies are
	// rendered to HTML on export, "html" bodies pass through verbatim.
	BodyFormat string `json:"body_format,omitempty"`

	// ExportsDir overrides the default exports directory (<base>/exports).
	ExportsDir string `json:"exports_dir,omitempty"`

	// KeepRunDir leaves the export run directory on disk after a successful
	// archive is produced. By default only the archive survives packaging.
	KeepRunDir bool `json:"keep_run_dir,omitempty"`
}

// Body format values accepted in BodyFormat.
const (
	BodyFormatMarkdown = "markdown"
	BodyFormatHTML     = "html"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PostTypes:  []string{"post", "page"},
		BodyFormat: BodyFormatMarkdown,
	}
}

// Load loads configuration from baseDir/config.json and fills in defaults.
// Returns default config if the file doesn't exist. The baseDir parameter
// allows tests to use t.TempDir().
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	if merged.ExportsDir == "" {
		merged.ExportsDir = filepath.Join(baseDir, "exports")
	}
	if merged.DBPath == "" {
		merged.DBPath = filepath.Join(baseDir, "content.db")
	}
	return merged, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs. Overlay values take precedence
// when set.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DBPath = overlay.DBPath
	if result.DBPath == "" {
		result.DBPath = base.DBPath
	}

	result.UploadsDir = overlay.UploadsDir
	if result.UploadsDir == "" {
		result.UploadsDir = base.UploadsDir
	}

	result.BaseURL = overlay.BaseURL
	if result.BaseURL == "" {
		result.BaseURL = base.BaseURL
	}

	result.BodyFormat = overlay.BodyFormat
	if result.BodyFormat == "" {
		result.BodyFormat = base.BodyFormat
	}

	result.ExportsDir = overlay.ExportsDir
	if result.ExportsDir == "" {
		result.ExportsDir = base.ExportsDir
	}

	result.PostTypes = overlay.PostTypes
	if len(result.PostTypes) == 0 {
		result.PostTypes = base.PostTypes
	}

	result.KeepRunDir = base.KeepRunDir || overlay.KeepRunDir

	return result
}
