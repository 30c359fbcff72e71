// Package shopstalk provides a public SDK for embedding ShopStalk as a
// library.
//
// Example usage:
//
//	scraper := shopstalk.New(
//	    shopstalk.WithOutput("csv", "./output"),
//	    shopstalk.WithHeadful(),
//	)
//
//	result, err := scraper.Run(context.Background())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, category := range result.Categories() {
//	    fmt.Println(category, len(result.Get(category)))
//	}
package shopstalk

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/IshaanNene/shopstalk/internal/browser"
	"github.com/IshaanNene/shopstalk/internal/config"
	"github.com/IshaanNene/shopstalk/internal/extract"
	"github.com/IshaanNene/shopstalk/internal/observability"
	"github.com/IshaanNene/shopstalk/internal/snapshot"
	"github.com/IshaanNene/shopstalk/internal/storage"
	"github.com/IshaanNene/shopstalk/internal/traverse"
	"github.com/IshaanNene/shopstalk/internal/types"
)

// Scraper is the high-level API for using ShopStalk as a library.
type Scraper struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures a Scraper.
type Option func(*config.Config)

// WithOutput sets the output format and directory. Format accepts a
// comma-separated list ("csv", "json", "csv,json", "mongo").
func WithOutput(format, dir string) Option {
	return func(c *config.Config) {
		c.Storage.Type = format
		c.Storage.OutputDir = dir
	}
}

// WithMongo points the mongo backend at a deployment.
func WithMongo(uri, database string) Option {
	return func(c *config.Config) {
		c.Storage.MongoURI = uri
		c.Storage.MongoDatabase = database
	}
}

// WithHeadful shows the browser window instead of running headless.
func WithHeadful() Option {
	return func(c *config.Config) { c.Browser.Headless = false }
}

// WithStealth applies bot-detection evasion to the page.
func WithStealth() Option {
	return func(c *config.Config) { c.Browser.Stealth = true }
}

// WithStartPage overrides the site root and home path.
func WithStartPage(rootURL, homePath string) Option {
	return func(c *config.Config) {
		c.Site.RootURL = rootURL
		c.Site.HomePath = homePath
	}
}

// WithTimeouts overrides the element and navigation timeouts.
func WithTimeouts(element, navigation time.Duration) Option {
	return func(c *config.Config) {
		c.Browser.ElementTimeout = element
		c.Browser.NavigationTimeout = navigation
	}
}

// WithCategories replaces the default category list.
func WithCategories(categories ...config.CategoryConfig) Option {
	return func(c *config.Config) { c.Categories = categories }
}

// WithMetricsServer enables the Prometheus endpoint on the given port.
func WithMetricsServer(port int) Option {
	return func(c *config.Config) {
		c.Metrics.Enabled = true
		c.Metrics.Port = port
	}
}

// WithVerbose enables debug-level logging.
func WithVerbose() Option {
	return func(c *config.Config) { c.Logging.Level = "debug" }
}

// New creates a Scraper with the given options applied over the default
// configuration.
func New(opts ...Option) *Scraper {
	cfg := config.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig creates a Scraper from an already-resolved configuration,
// typically one loaded from a file.
func NewWithConfig(cfg *config.Config) *Scraper {
	level := slog.LevelInfo
	if cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)

	s := &Scraper{cfg: cfg, logger: logger}
	if cfg.Metrics.Enabled {
		s.metrics = observability.NewMetrics(logger)
	}
	return s
}

// Config exposes the resolved configuration, mostly for inspection in
// tests and callers that build their own components around the SDK.
func (s *Scraper) Config() *config.Config {
	return s.cfg
}

// Run launches a browser, traverses every configured category in order,
// and persists each one to the configured storage. The returned result
// holds everything harvested, including the partial walk when a
// category fails.
func (s *Scraper) Run(ctx context.Context) (*types.RunResult, error) {
	if err := config.Validate(s.cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	specs, err := s.cfg.Specs()
	if err != nil {
		return nil, err
	}

	sink, err := s.newSink()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := sink.Close(); err != nil {
			s.logger.Warn("storage close failed", "error", err)
		}
	}()

	session, err := browser.Open(s.cfg.Browser, s.logger)
	if err != nil {
		return nil, fmt.Errorf("open browser: %w", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			s.logger.Warn("browser close failed", "error", err)
		}
	}()

	if s.metrics != nil {
		if err := s.metrics.StartServer(s.cfg.Metrics.Port, s.cfg.Metrics.Path); err != nil {
			return nil, fmt.Errorf("start metrics server: %w", err)
		}
	}

	driver := traverse.NewDriver(session, sink, traverse.Options{
		StartURL: s.cfg.Site.StartURL(),
		Consent:  traverse.DefaultConsent,
		Metrics:  s.metrics,
	}, s.logger)

	return driver.Run(ctx, specs)
}

// HarvestSnapshot extracts products from a static document instead of a
// live session: a URL fetched over plain HTTP, or a saved page on disk.
// Records go to the configured storage under destination. Only
// server-rendered cards are visible this way; script-revealed content
// needs Run.
func (s *Scraper) HarvestSnapshot(ctx context.Context, source, destination string) (int, error) {
	view, err := s.loadSnapshot(ctx, source)
	if err != nil {
		return 0, err
	}

	harvester := extract.NewHarvester(extract.DefaultSchema(), s.logger)
	products, skipped, err := harvester.Harvest(view)
	if err != nil {
		return 0, err
	}
	if skipped > 0 {
		s.logger.Warn("snapshot harvest skipped records", "source", source, "skipped", skipped)
	}

	sink, err := s.newSink()
	if err != nil {
		return 0, err
	}
	if err := sink.Write(products, destination); err != nil {
		sink.Close()
		return 0, err
	}
	if err := sink.Close(); err != nil {
		return 0, err
	}
	return len(products), nil
}

func (s *Scraper) loadSnapshot(ctx context.Context, source string) (*snapshot.View, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return snapshot.Fetch(ctx, nil, source)
	}
	return snapshot.Open(source)
}

func (s *Scraper) newSink() (storage.Sink, error) {
	return storage.NewSink(storage.Options{
		Type:          s.cfg.Storage.Type,
		OutputDir:     s.cfg.Storage.OutputDir,
		MongoURI:      s.cfg.Storage.MongoURI,
		MongoDatabase: s.cfg.Storage.MongoDatabase,
	}, s.logger)
}
