package cmd

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/argos/internal/config"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

// CLI represents the complete command structure for the argos application
type CLI struct {
	// Global flags
	Verbose bool `short:"v" help:"Show the per-field attempt log after scraping"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`
	NoCache     bool   `help:"Bypass the persistent response cache"`

	Scrape ScrapeCmd `cmd:"" help:"Resolve metadata for a catalog number"`
	Cache  CacheCmd  `cmd:"" help:"Manage the persistent response cache"`
}

// CacheCmd represents the cache command and its subcommands
type CacheCmd struct {
	Clear ClearCmd `cmd:"" help:"Clear cached provider responses"`
}

// ClearCmd represents the cache clear command
type ClearCmd struct {
	Expired bool `help:"Only remove entries past their TTL"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("argos"),
		kong.Description("A tool to resolve media metadata from multiple sites into one record."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	err := ctx.Run(&cli)
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	config.SetDefaults()

	// Enable environment variable support
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}
}

func updateGlobalConfig(cli *CLI) {
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)
	if cli.NoCache {
		viper.Set("cache.enabled", false)
	}
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
