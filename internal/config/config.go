// Package config loads and validates the site.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	sberrors "git.home.luguber.info/inful/sitebuilder/internal/errors"
)

// FileName is the site configuration file name at the project root.
const FileName = "site.yaml"

// Config represents the project configuration
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Fonts   []FontRef     `yaml:"fonts,omitempty"`
	Images  ImagesConfig  `yaml:"images,omitempty"`
	Capture CaptureConfig `yaml:"capture,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
}

// SiteConfig describes the marketing site being built
type SiteConfig struct {
	Name        string `yaml:"name"`
	Tagline     string `yaml:"tagline,omitempty"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
	Phone       string `yaml:"phone,omitempty"`
	Email       string `yaml:"email,omitempty"`
	Address     string `yaml:"address,omitempty"`
}

// FontRef references a font asset used by the site
type FontRef struct {
	Name string `yaml:"name"`
	File string `yaml:"file"` // path relative to the project root
}

// ImagesConfig controls image asset validation
type ImagesConfig struct {
	// MinAssetBytes is the minimum size for a file to count as a real
	// generated asset rather than a placeholder stub.
	MinAssetBytes int64 `yaml:"min_asset_bytes,omitempty"`
}

// CaptureConfig configures competitor screenshot capture
type CaptureConfig struct {
	Competitors    []string `yaml:"competitors,omitempty"`
	ViewportWidth  int      `yaml:"viewport_width,omitempty"`
	ViewportHeight int      `yaml:"viewport_height,omitempty"`
	FullPage       bool     `yaml:"full_page,omitempty"`
	TimeoutSeconds int      `yaml:"timeout_seconds,omitempty"`
	// Interval between scheduled re-captures in watch mode.
	Interval time.Duration `yaml:"interval,omitempty"`
}

// WatchConfig configures watch mode side channels
type WatchConfig struct {
	MetricsAddr string `yaml:"metrics_addr,omitempty"`
	NATSURL     string `yaml:"nats_url,omitempty"`
	NATSSubject string `yaml:"nats_subject,omitempty"`
}

// DefaultMinAssetBytes separates real generated images from stub files.
const DefaultMinAssetBytes int64 = 1024

// Path returns the configuration file location for a project.
func Path(projectPath string) string {
	return filepath.Join(projectPath, FileName)
}

// Load loads configuration from a project directory.
func Load(projectPath string) (*Config, error) {
	// Load .env if present so ${VAR} references in site.yaml resolve.
	for _, envPath := range []string{
		filepath.Join(projectPath, ".env"),
		filepath.Join(projectPath, ".env.local"),
	} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("load %s: %w", envPath, err)
			}
		}
	}

	configPath := Path(projectPath)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, sberrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults
	if config.Images.MinAssetBytes == 0 {
		config.Images.MinAssetBytes = DefaultMinAssetBytes
	}
	if config.Capture.ViewportWidth == 0 {
		config.Capture.ViewportWidth = 1440
	}
	if config.Capture.ViewportHeight == 0 {
		config.Capture.ViewportHeight = 900
	}
	if config.Capture.TimeoutSeconds == 0 {
		config.Capture.TimeoutSeconds = 30
	}
	if config.Capture.Interval == 0 {
		config.Capture.Interval = 24 * time.Hour
	}

	return &config, nil
}

// ReadRaw returns the configuration file bytes without env expansion.
// Placeholder scanning works on the raw text so unresolved tokens survive.
func ReadRaw(projectPath string) ([]byte, error) {
	data, err := os.ReadFile(Path(projectPath))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return data, nil
}
