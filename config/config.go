// Package config loads the application configuration (TOML) and the
// question-image override file (JSON).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Site holds the source site endpoints.
type Site struct {
	MetaBaseURL  string `toml:"meta_base_url"`
	GuideBaseURL string `toml:"guide_base_url"`
}

// Scrape holds timeouts and limits for crawl runs.
type Scrape struct {
	TableTimeoutSeconds   int `toml:"table_timeout_seconds"`
	ResolveTimeoutSeconds int `toml:"resolve_timeout_seconds"`
	// MapLimit caps how many maps one run processes; 0 means all.
	MapLimit int `toml:"map_limit"`
}

// Output holds destination paths.
type Output struct {
	PackagePath    string `toml:"package_path"`
	CustomImageDir string `toml:"custom_image_dir"`
	ExportDir      string `toml:"export_dir"`
}

// Logging holds logger construction settings.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the root application configuration.
type Config struct {
	Site    Site    `toml:"site"`
	Scrape  Scrape  `toml:"scrape"`
	Output  Output  `toml:"output"`
	Logging Logging `toml:"logging"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Site: Site{
			MetaBaseURL:  "https://geometa-web.pages.dev",
			GuideBaseURL: "https://www.plonkit.net",
		},
		Scrape: Scrape{
			TableTimeoutSeconds:   10,
			ResolveTimeoutSeconds: 5,
		},
		Output: Output{
			PackagePath:    "learnable_meta.apkg",
			CustomImageDir: "images",
			ExportDir:      ".",
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads the TOML config at path, layered over Default. An empty path
// resolves to the default location under the user config directory; a
// missing file at either location is not an error and yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	resolved := path
	if resolved == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return cfg, nil
		}
		resolved = filepath.Join(base, "geoguessr-scripts", "config.toml")
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if path == "" && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", resolved, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", resolved, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", resolved, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Site.MetaBaseURL == "" {
		return errors.New("site.meta_base_url must not be empty")
	}
	if c.Site.GuideBaseURL == "" {
		return errors.New("site.guide_base_url must not be empty")
	}
	if c.Scrape.TableTimeoutSeconds <= 0 || c.Scrape.ResolveTimeoutSeconds <= 0 {
		return errors.New("scrape timeouts must be positive")
	}
	if c.Scrape.MapLimit < 0 {
		return errors.New("scrape.map_limit must not be negative")
	}
	return nil
}
