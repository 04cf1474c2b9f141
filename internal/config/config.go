package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/nflstats/internal/export"
	"github.com/nao1215/nflstats/internal/model"
)

// Default configuration values.
const (
	// DefaultBaseURL is the statistics site every landing page is resolved against.
	DefaultBaseURL = "https://www.nfl.com"

	// DefaultTimeout bounds each individual fetch.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages caps the page sequence of a single category.
	DefaultMaxPages = 100

	// DefaultOutputDir is the root directory exports are written under.
	DefaultOutputDir = "data"

	// DefaultUserAgent identifies nflstats in HTTP requests.
	DefaultUserAgent = "nflstats/1.0 (+https://github.com/nao1215/nflstats)"

	// AppName is the application name used for XDG directory paths.
	AppName = "nflstats"
)

// Settings are the options that can be set from the configuration file.
// Command line flags override them.
type Settings struct {
	// BaseURL is the scheme and host of the statistics site.
	BaseURL string `yaml:"baseURL,omitempty"`

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Timeout bounds each fetch.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// MaxPages caps the page sequence of one category.
	MaxPages int `yaml:"maxPages,omitempty"`

	// OutputDir is the root directory for exports.
	OutputDir string `yaml:"output,omitempty"`

	// Format is the export file format, "csv" or "xlsx".
	Format string `yaml:"format,omitempty"`

	// Levels are the statistics levels to scrape, in order.
	Levels []string `yaml:"levels,omitempty"`

	// HistoryDir is the directory of the export history database.
	HistoryDir string `yaml:"historyDir,omitempty"`

	// Player and Team hold the markup selectors of each level.
	Player LevelMarkup `yaml:"player,omitempty"`
	Team   LevelMarkup `yaml:"team,omitempty"`
}

// Config holds all configuration options for one nflstats invocation.
// It is populated from defaults, then the configuration file, then flags,
// and passed down explicitly; nothing reads global state.
type Config struct {
	Settings

	// Season is the season to scrape. Zero means the current season.
	Season int

	// From and To bound a backfill (inclusive). Zero means the default
	// historic range: 1970 through the previous season.
	From int
	To   int

	// ConfigFilePath is the configuration file given on the command line.
	// If empty, the file is searched for (see FindConfigFile).
	ConfigFilePath string

	// SaveHistory records every export in the history database.
	SaveHistory bool

	// SummaryFile is the path of a Markdown run summary. Empty disables it.
	SummaryFile string

	// MetricsFile is the path of a Prometheus textfile. Empty disables it.
	MetricsFile string

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output from text to JSON lines.
	LogJSON bool
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		BaseURL:    DefaultBaseURL,
		UserAgent:  DefaultUserAgent,
		Timeout:    DefaultTimeout,
		MaxPages:   DefaultMaxPages,
		OutputDir:  DefaultOutputDir,
		Format:     export.FormatCSV,
		Levels:     []string{model.LevelPlayer.String(), model.LevelTeam.String()},
		HistoryDir: XDGDataDir(),
		Player:     DefaultPlayerMarkup(),
		Team:       DefaultTeamMarkup(),
	}
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Settings:    DefaultSettings(),
		SaveHistory: true,
	}
}

// XDGDataDir returns the XDG data directory for nflstats.
// On Linux: ~/.local/share/nflstats
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for nflstats.
// On Linux: ~/.config/nflstats
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ParsedLevels returns the configured levels.
func (c *Config) ParsedLevels() ([]model.Level, error) {
	return model.ParseLevels(c.Levels)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if !export.SupportedFormat(c.Format) {
		return ErrInvalidFormat
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	if _, err := c.ParsedLevels(); err != nil {
		return ErrInvalidLevel
	}

	if !c.Player.Complete() || !c.Team.Complete() {
		return ErrIncompleteMarkup
	}

	if c.From != 0 && c.To != 0 && c.From > c.To {
		return ErrInvalidSeasonRange
	}

	return nil
}
