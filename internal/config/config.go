package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/IshaanNene/shopstalk/internal/dom"
	"github.com/IshaanNene/shopstalk/internal/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for ShopStalk.
type Config struct {
	Site       SiteConfig       `mapstructure:"site"       yaml:"site"`
	Browser    BrowserConfig    `mapstructure:"browser"    yaml:"browser"`
	Storage    StorageConfig    `mapstructure:"storage"    yaml:"storage"`
	Logging    LoggingConfig    `mapstructure:"logging"    yaml:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"    yaml:"metrics"`
	Categories []CategoryConfig `mapstructure:"categories" yaml:"categories"`
}

// SiteConfig identifies the catalog being traversed.
type SiteConfig struct {
	RootURL  string `mapstructure:"root_url"  yaml:"root_url"`
	HomePath string `mapstructure:"home_path" yaml:"home_path"`
}

// StartURL joins the site root and home path into the single URL every
// run opens.
func (s SiteConfig) StartURL() string {
	return strings.TrimSuffix(s.RootURL, "/") + "/" + strings.TrimLeft(s.HomePath, "/")
}

// BrowserConfig controls the driven browser session.
type BrowserConfig struct {
	Headless          bool          `mapstructure:"headless"           yaml:"headless"`
	Stealth           bool          `mapstructure:"stealth"            yaml:"stealth"`
	ElementTimeout    time.Duration `mapstructure:"element_timeout"    yaml:"element_timeout"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
}

// StorageConfig controls output/storage.
type StorageConfig struct {
	Type          string `mapstructure:"type"           yaml:"type"`
	OutputDir     string `mapstructure:"output_dir"     yaml:"output_dir"`
	MongoURI      string `mapstructure:"mongo_uri"      yaml:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database" yaml:"mongo_database"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    int    `mapstructure:"port"    yaml:"port"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// CategoryConfig is the file form of one category: a destination name,
// an entry locator, and an optional load-more locator. Locator strings
// take an optional "css:" or "xpath:" prefix.
type CategoryConfig struct {
	Name       string `mapstructure:"name"       yaml:"name"`
	Entry      string `mapstructure:"entry"      yaml:"entry"`
	Pagination string `mapstructure:"pagination" yaml:"pagination"`
}

// Specs converts the configured categories into traversal specs,
// preserving order.
func (c *Config) Specs() ([]types.CategorySpec, error) {
	specs := make([]types.CategorySpec, 0, len(c.Categories))
	for _, cat := range c.Categories {
		entry, err := dom.Parse(cat.Entry)
		if err != nil {
			return nil, fmtCategoryErr(cat.Name, "entry", err)
		}
		spec := types.CategorySpec{Name: cat.Name, Entry: entry}
		if cat.Pagination != "" {
			pagination, err := dom.Parse(cat.Pagination)
			if err != nil {
				return nil, fmtCategoryErr(cat.Name, "pagination", err)
			}
			spec.Pagination = &pagination
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func fmtCategoryErr(name, field string, err error) error {
	return fmt.Errorf("category %q: invalid %s locator: %w", name, field, err)
}

// DefaultConfig returns a Config with sensible defaults: the webscraper.io
// e-commerce catalog and its six categories.
func DefaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			RootURL:  "https://webscraper.io/",
			HomePath: "test-sites/e-commerce/more/",
		},
		Browser: BrowserConfig{
			Headless:          true,
			Stealth:           false,
			ElementTimeout:    10 * time.Second,
			NavigationTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type:          "csv",
			OutputDir:     "./output",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "shopstalk",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Port:    9090,
			Path:    "/metrics",
		},
		Categories: []CategoryConfig{
			{Name: "home", Entry: "#side-menu a"},
			{Name: "computers", Entry: "#side-menu li:nth-of-type(2) a"},
			{Name: "laptops", Entry: "#side-menu li:nth-of-type(2) ul a", Pagination: ".col-lg-9 > a"},
			{Name: "tablets", Entry: "#side-menu .nav-second-level li:nth-child(2) a", Pagination: ".col-lg-9 > a"},
			{Name: "phones", Entry: "#side-menu li:nth-of-type(3) a"},
			{Name: "touch", Entry: "#side-menu li:nth-of-type(3) ul a", Pagination: ".col-lg-9 > a"},
		},
	}
}
