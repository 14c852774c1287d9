package folio

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds configuration for folio.
type Config struct {
	// InDir is the site root holding config/ and the media it references.
	InDir  string `koanf:"in_dir"`
	OutDir string `koanf:"out_dir"`

	// Remote, if set, is the base URL configuration is fetched from instead
	// of InDir.
	Remote   string `koanf:"remote"`
	RetryMax int    `koanf:"retry_max"`

	Collection      string `koanf:"title"`
	Description     string `koanf:"description"`
	DefaultCategory string `koanf:"default_category"`

	ShowMoreThreshold int    `koanf:"show_more_threshold"`
	AutoTagModel      string `koanf:"autotag_model"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Collection:        "portfolio",
		DefaultCategory:   string(DefaultCategory),
		ShowMoreThreshold: ShowMoreThreshold,
		AutoTagModel:      "gemini-2.5-flash",
	}
}

// LoadConfig reads an optional YAML file, then overlays FOLIO_* environment
// variables. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")
	c := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("FOLIO_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "FOLIO_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return c, nil
}

// Validate checks that the configuration can be built from.
func (c *Config) Validate() error {
	if c.InDir == "" && c.Remote == "" {
		return fmt.Errorf("in_dir or remote is required")
	}
	if c.DefaultCategory != "" {
		if _, err := ParseCategory(c.DefaultCategory); err != nil {
			return fmt.Errorf("default_category: %w", err)
		}
	}
	if c.ShowMoreThreshold < 0 {
		return fmt.Errorf("show_more_threshold must be non-negative")
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("retry_max must be non-negative")
	}
	return nil
}

// Default is the category shown first.
func (c *Config) Default() Category {
	if cat, err := ParseCategory(c.DefaultCategory); err == nil {
		return cat
	}
	return DefaultCategory
}

// Source returns where category configuration is read from.
func (c *Config) Source() Source {
	if c.Remote != "" {
		return NewHTTPSource(c.Remote, c.RetryMax)
	}
	return DirSource{Root: c.InDir}
}
