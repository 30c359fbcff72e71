package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/IshaanNene/shopstalk/internal/dom"
)

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if err := ValidateURL(cfg.Site.RootURL); err != nil {
		return fmt.Errorf("site.root_url: %w", err)
	}
	if cfg.Site.HomePath == "" {
		return fmt.Errorf("site.home_path must not be empty")
	}

	if cfg.Browser.ElementTimeout <= 0 {
		return fmt.Errorf("browser.element_timeout must be > 0")
	}
	if cfg.Browser.NavigationTimeout <= 0 {
		return fmt.Errorf("browser.navigation_timeout must be > 0")
	}

	validStorageTypes := map[string]bool{
		"csv": true, "json": true, "mongo": true,
	}
	var needsDir, needsMongo bool
	for _, kind := range strings.Split(cfg.Storage.Type, ",") {
		kind = strings.TrimSpace(kind)
		if !validStorageTypes[kind] {
			return fmt.Errorf("storage.type %q is not supported (valid: csv, json, mongo)", kind)
		}
		if kind == "mongo" {
			needsMongo = true
		} else {
			needsDir = true
		}
	}
	if needsMongo {
		if cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri is required for mongo storage")
		}
		if cfg.Storage.MongoDatabase == "" {
			return fmt.Errorf("storage.mongo_database is required for mongo storage")
		}
	}
	if needsDir && cfg.Storage.OutputDir == "" {
		return fmt.Errorf("storage.output_dir must not be empty")
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.Port < 1 || cfg.Metrics.Port > 65535 {
			return fmt.Errorf("metrics.port must be 1-65535, got %d", cfg.Metrics.Port)
		}
	}

	if len(cfg.Categories) == 0 {
		return fmt.Errorf("at least one category is required")
	}
	seen := make(map[string]bool, len(cfg.Categories))
	for i, cat := range cfg.Categories {
		if cat.Name == "" {
			return fmt.Errorf("categories[%d].name must not be empty", i)
		}
		if seen[cat.Name] {
			return fmt.Errorf("duplicate category name %q", cat.Name)
		}
		seen[cat.Name] = true
		if _, err := dom.Parse(cat.Entry); err != nil {
			return fmtCategoryErr(cat.Name, "entry", err)
		}
		if cat.Pagination != "" {
			if _, err := dom.Parse(cat.Pagination); err != nil {
				return fmtCategoryErr(cat.Name, "pagination", err)
			}
		}
	}

	return nil
}

// ValidateURL checks if a URL string is usable as a site root.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}
