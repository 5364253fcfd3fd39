// Package config provides configuration management for the application.
// Values come from an optional YAML file, BLOGCRAWL_* environment
// variables, and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Crawl defaults.
const (
	defaultMaxPages    = 10
	defaultMaxArticles = 100
	defaultDelay       = time.Second
	defaultWorkers     = 1
	// defaultMaxWorkers is the per-platform concurrency ceiling, kept low
	// to stay under anti-automation thresholds.
	defaultMaxWorkers = 4
)

// Fetch defaults.
const (
	defaultTimeout      = 5 * time.Second
	defaultMaxRedirects = 0
	defaultUserAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"
)

// Extraction and render defaults.
const (
	defaultMinContentLen = 20
	defaultWaitTimeout   = 10 * time.Second
	defaultSettleDelay   = 2 * time.Second
	defaultScrollPause   = 2 * time.Second
	defaultMaxScrolls    = 20
)

// defaultQuery is the search keyword when none is given.
const defaultQuery = "IT면접"

// envPrefix namespaces environment variable overrides.
const envPrefix = "BLOGCRAWL"

// Config represents the application configuration.
type Config struct {
	// Query is the search keyword driving a run.
	Query string `mapstructure:"query"`
	// MaxPages bounds listing pages (or scroll iterations) per run.
	MaxPages int `mapstructure:"max_pages"`
	// MaxArticles bounds collected records per run.
	MaxArticles int `mapstructure:"max_articles"`
	// OutputPath is the JSON output file; empty means the per-platform
	// default "<platform>_results.json".
	OutputPath string `mapstructure:"output_path"`

	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Extract ExtractConfig `mapstructure:"extract"`
	Render  RenderConfig  `mapstructure:"render"`
	Log     LogConfig     `mapstructure:"log"`
}

// CrawlConfig holds orchestration settings.
type CrawlConfig struct {
	// Delay is the politeness pause between outbound requests.
	Delay time.Duration `mapstructure:"delay"`
	// Workers is the fetch concurrency; clamped to MaxWorkers.
	Workers int `mapstructure:"workers"`
	// MaxWorkers is the per-platform concurrency ceiling.
	MaxWorkers int `mapstructure:"max_workers"`
}

// FetchConfig holds static fetch settings.
type FetchConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRedirects int           `mapstructure:"max_redirects"`
	UserAgent    string        `mapstructure:"user_agent"`
}

// ExtractConfig holds extraction settings.
type ExtractConfig struct {
	// MinContentLen is the static-to-dynamic escalation threshold in
	// runes. It is a tunable heuristic, not a contract.
	MinContentLen int `mapstructure:"min_content_len"`
}

// RenderConfig holds dynamic render settings.
type RenderConfig struct {
	WaitTimeout time.Duration `mapstructure:"wait_timeout"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	ScrollPause time.Duration `mapstructure:"scroll_pause"`
	MaxScrolls  int           `mapstructure:"max_scrolls"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

// SetDefaults registers every default on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("query", defaultQuery)
	v.SetDefault("max_pages", defaultMaxPages)
	v.SetDefault("max_articles", defaultMaxArticles)
	v.SetDefault("output_path", "")

	v.SetDefault("crawl.delay", defaultDelay)
	v.SetDefault("crawl.workers", defaultWorkers)
	v.SetDefault("crawl.max_workers", defaultMaxWorkers)

	v.SetDefault("fetch.timeout", defaultTimeout)
	v.SetDefault("fetch.max_redirects", defaultMaxRedirects)
	v.SetDefault("fetch.user_agent", defaultUserAgent)

	v.SetDefault("extract.min_content_len", defaultMinContentLen)

	v.SetDefault("render.wait_timeout", defaultWaitTimeout)
	v.SetDefault("render.settle_delay", defaultSettleDelay)
	v.SetDefault("render.scroll_pause", defaultScrollPause)
	v.SetDefault("render.max_scrolls", defaultMaxScrolls)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")
	v.SetDefault("log.development", false)
}

// Load reads configuration from the viper instance. When cfgFile is
// non-empty the file must exist and parse; otherwise a missing config file
// is fine and defaults apply.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for values that would make a run
// meaningless or unsafe.
func (c *Config) Validate() error {
	if c.Query == "" {
		return errors.New("query must not be empty")
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("max_pages must be positive, got %d", c.MaxPages)
	}
	if c.MaxArticles < 1 {
		return fmt.Errorf("max_articles must be positive, got %d", c.MaxArticles)
	}
	if c.Crawl.Workers < 1 {
		return fmt.Errorf("crawl.workers must be positive, got %d", c.Crawl.Workers)
	}
	if c.Crawl.MaxWorkers < 1 {
		return fmt.Errorf("crawl.max_workers must be positive, got %d", c.Crawl.MaxWorkers)
	}
	if c.Fetch.Timeout <= 0 {
		return errors.New("fetch.timeout must be positive")
	}
	if c.Extract.MinContentLen < 0 {
		return errors.New("extract.min_content_len must not be negative")
	}
	return nil
}

// EffectiveWorkers returns the configured worker count clamped to the
// per-platform ceiling.
func (c *Config) EffectiveWorkers() int {
	if c.Crawl.Workers > c.Crawl.MaxWorkers {
		return c.Crawl.MaxWorkers
	}
	return c.Crawl.Workers
}

// OutputPathFor resolves the output path, falling back to the platform's
// default file name.
func (c *Config) OutputPathFor(platformName string) string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	return platformName + "_results.json"
}
