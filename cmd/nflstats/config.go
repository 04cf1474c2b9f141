package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/nflstats/internal/config"
	"github.com/nao1215/nflstats/internal/log"
)

// addScrapeFlags registers the flags shared by scrape and backfill.
// Their defaults are only used when neither the flag nor the
// configuration file sets a value.
func addScrapeFlags(cmd *cobra.Command) {
	defaults := config.DefaultSettings()

	cmd.Flags().StringSliceP("level", "l", defaults.Levels,
		"Statistics levels to scrape (player, team)")
	cmd.Flags().StringP("output", "o", defaults.OutputDir,
		"Root directory for exported files")
	cmd.Flags().StringP("format", "f", defaults.Format,
		"Export format (csv, xlsx)")
	cmd.Flags().Int("max-pages", defaults.MaxPages,
		"Maximum number of pages followed per category")
	cmd.Flags().Duration("timeout", defaults.Timeout,
		"Timeout for each page fetch")
	cmd.Flags().String("base-url", defaults.BaseURL,
		"Statistics site root URL")
	cmd.Flags().String("history-dir", defaults.HistoryDir,
		"Directory of the export history database")
	cmd.Flags().Bool("no-history", false,
		"Do not record exports in the history database")
	cmd.Flags().String("summary", "",
		"Write a Markdown run summary to this file")
	cmd.Flags().String("metrics-file", "",
		"Write Prometheus metrics to this textfile after the run")
}

// buildConfig creates a Config from defaults, the configuration file and
// command line flags, in that order of precedence (last wins).
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfig creates a Config from defaults and the configuration file,
// and reads the global logging flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently keep the defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		settings, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cfg.Apply(settings); err != nil {
			return nil, err
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogJSON, err = cmd.Flags().GetBool("log-json")
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags copies every flag the user set explicitly into cfg.
// Flags that were not set leave the configuration file value alone.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("level") {
		if cfg.Levels, err = flags.GetStringSlice("level"); err != nil {
			return err
		}
	}
	if flags.Changed("output") {
		if cfg.OutputDir, err = flags.GetString("output"); err != nil {
			return err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return err
		}
	}
	if flags.Changed("max-pages") {
		if cfg.MaxPages, err = flags.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("base-url") {
		if cfg.BaseURL, err = flags.GetString("base-url"); err != nil {
			return err
		}
	}
	if flags.Changed("history-dir") {
		if cfg.HistoryDir, err = flags.GetString("history-dir"); err != nil {
			return err
		}
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return err
	}
	cfg.SaveHistory = !noHistory

	if cfg.SummaryFile, err = flags.GetString("summary"); err != nil {
		return err
	}
	if cfg.MetricsFile, err = flags.GetString("metrics-file"); err != nil {
		return err
	}
	return nil
}

// getVerboseFlag gets the verbose flag value from the command or its parents.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		// Try persistent flags from parent
		verbose, _ = cmd.Root().PersistentFlags().GetBool("verbose")
	}
	return verbose
}

// setupLogger creates a structured logger writing to stderr.
func setupLogger(cfg *config.Config) *slog.Logger {
	return log.NewLogger(os.Stderr, log.Options{
		Verbose: cfg.Verbose,
		JSON:    cfg.LogJSON,
	})
}
