package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/shopstalk/internal/config"
	"github.com/IshaanNene/shopstalk/pkg/shopstalk"
)

var (
	cfgFile        string
	verbose        bool
	outputDir      string
	outputType     string
	headful        bool
	stealth        bool
	elementTimeout string
	navTimeout     string
	mongoURI       string
	mongoDatabase  string
	destination    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shopstalk",
		Short: "ShopStalk — Category-Walking Product Scraper",
		Long: `ShopStalk drives a real browser through a JavaScript storefront, walking
its category navigation in order and harvesting every product card.

Features:
  • Real-browser traversal over the Chrome DevTools Protocol
  • Click-through category navigation on a single page load
  • Incremental "load more" exhaustion before each harvest
  • All-or-nothing record extraction with per-card skip accounting
  • CSV, JSON and MongoDB export, one destination per category
  • Static snapshot harvesting for server-rendered pages
  • Prometheus metrics endpoint`,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(harvestCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runCmd creates the "run" subcommand.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Traverse every configured category and export its products",
		Long: "Open the catalog's start page in a browser, walk the configured " +
			"categories in order, exhaust each one's load-more control, and write " +
			"one output per category.",
		Args: cobra.NoArgs,
		RunE: runTraversal,
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "output format: csv, json, mongo (comma-separated for several)")
	cmd.Flags().BoolVar(&headful, "headful", false, "show the browser window")
	cmd.Flags().BoolVar(&stealth, "stealth", false, "apply bot-detection evasion")
	cmd.Flags().StringVar(&elementTimeout, "element-timeout", "", "element wait timeout (e.g. 10s)")
	cmd.Flags().StringVar(&navTimeout, "nav-timeout", "", "navigation timeout (e.g. 30s)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&mongoDatabase, "mongo-db", "", "MongoDB database name")

	return cmd
}

// runTraversal executes the run command.
func runTraversal(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)

	logger.Info("starting traversal",
		"start_url", cfg.Site.StartURL(),
		"categories", len(cfg.Categories),
		"output", cfg.Storage.OutputDir,
		"format", cfg.Storage.Type,
	)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down...", "signal", sig)
		cancel()
	}()

	scraper := shopstalk.NewWithConfig(cfg)

	start := time.Now()
	result, err := scraper.Run(ctx)
	if err != nil {
		return fmt.Errorf("traversal failed: %w", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("\n✅ Traversal complete in %s\n", elapsed.Round(time.Millisecond))
	for _, name := range result.Categories() {
		fmt.Printf("   %-12s %d products\n", name, len(result.Get(name)))
	}
	fmt.Printf("   Output: %s\n", cfg.Storage.OutputDir)
	fmt.Printf("Total time taken: %.2f seconds\n", elapsed.Seconds())

	return nil
}

// harvestCmd creates the "harvest" subcommand.
func harvestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvest [file-or-url]",
		Short: "Extract products from a static page snapshot",
		Long: "Parse a saved HTML file or a server-rendered URL without a browser " +
			"and export every product card it contains. Content revealed by " +
			"scripts is invisible to this mode; use run for those pages.",
		Args: cobra.ExactArgs(1),
		RunE: runHarvest,
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory")
	cmd.Flags().StringVarP(&outputType, "format", "f", "", "output format: csv, json, mongo (comma-separated for several)")
	cmd.Flags().StringVarP(&destination, "dest", "d", "snapshot", "destination name for the harvested records")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI")
	cmd.Flags().StringVar(&mongoDatabase, "mongo-db", "", "MongoDB database name")

	return cmd
}

// runHarvest executes the harvest command.
func runHarvest(cmd *cobra.Command, args []string) error {
	logger := setupLogger()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyCLIOverrides(cfg)

	scraper := shopstalk.NewWithConfig(cfg)

	start := time.Now()
	n, err := scraper.HarvestSnapshot(context.Background(), args[0], destination)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}
	elapsed := time.Since(start)

	logger.Info("snapshot harvested", "source", args[0], "records", n, "elapsed", elapsed)
	fmt.Printf("✅ Harvested %d products from %s in %s\n", n, args[0], elapsed.Round(time.Millisecond))
	fmt.Printf("   Output: %s\n", cfg.Storage.OutputDir)

	return nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ShopStalk %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			applyCLIOverrides(cfg)

			fmt.Printf("Site:\n")
			fmt.Printf("  Root URL:          %s\n", cfg.Site.RootURL)
			fmt.Printf("  Home Path:         %s\n", cfg.Site.HomePath)
			fmt.Printf("  Start URL:         %s\n", cfg.Site.StartURL())
			fmt.Printf("\nBrowser:\n")
			fmt.Printf("  Headless:          %v\n", cfg.Browser.Headless)
			fmt.Printf("  Stealth:           %v\n", cfg.Browser.Stealth)
			fmt.Printf("  Element Timeout:   %s\n", cfg.Browser.ElementTimeout)
			fmt.Printf("  Nav Timeout:       %s\n", cfg.Browser.NavigationTimeout)
			fmt.Printf("\nStorage:\n")
			fmt.Printf("  Type:              %s\n", cfg.Storage.Type)
			fmt.Printf("  Output Dir:        %s\n", cfg.Storage.OutputDir)
			fmt.Printf("  Mongo URI:         %s\n", cfg.Storage.MongoURI)
			fmt.Printf("  Mongo Database:    %s\n", cfg.Storage.MongoDatabase)
			fmt.Printf("\nMetrics:\n")
			fmt.Printf("  Enabled:           %v\n", cfg.Metrics.Enabled)
			fmt.Printf("  Port:              %d\n", cfg.Metrics.Port)
			fmt.Printf("\nCategories (%d, in traversal order):\n", len(cfg.Categories))
			for _, cat := range cfg.Categories {
				if cat.Pagination != "" {
					fmt.Printf("  %-12s entry=%q load-more=%q\n", cat.Name, cat.Entry, cat.Pagination)
				} else {
					fmt.Printf("  %-12s entry=%q\n", cat.Name, cat.Entry)
				}
			}
			return nil
		},
	}
	return cmd
}

// setupLogger creates a structured logger.
func setupLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if outputDir != "" {
		cfg.Storage.OutputDir = outputDir
	}
	if outputType != "" {
		cfg.Storage.Type = strings.ToLower(outputType)
	}
	if headful {
		cfg.Browser.Headless = false
	}
	if stealth {
		cfg.Browser.Stealth = true
	}
	if elementTimeout != "" {
		if d, err := time.ParseDuration(elementTimeout); err == nil {
			cfg.Browser.ElementTimeout = d
		}
	}
	if navTimeout != "" {
		if d, err := time.ParseDuration(navTimeout); err == nil {
			cfg.Browser.NavigationTimeout = d
		}
	}
	if mongoURI != "" {
		cfg.Storage.MongoURI = mongoURI
	}
	if mongoDatabase != "" {
		cfg.Storage.MongoDatabase = mongoDatabase
	}
}
