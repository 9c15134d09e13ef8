// Package config handles configuration loading for NewsVoice.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Sources  SourcesConfig  `mapstructure:"sources"  yaml:"sources"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Speech   SpeechConfig   `mapstructure:"speech"   yaml:"speech"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// SourcesConfig describes where raw articles come from.
type SourcesConfig struct {
	Feeds       []FeedConfig `mapstructure:"feeds"        yaml:"feeds"`        // RSS feeds to poll
	ArticleURLs []string     `mapstructure:"article_urls" yaml:"article_urls"` // direct article pages to scrape
	CacheTTL    int          `mapstructure:"cache_ttl"    yaml:"cache_ttl"`    // seconds
	RatePerSec  int          `mapstructure:"rate_per_sec" yaml:"rate_per_sec"` // max requests per second
}

// FeedConfig describes a single RSS feed source.
type FeedConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	URL  string `mapstructure:"url"  yaml:"url"`
}

// AnalysisConfig holds pipeline and scorer settings.
type AnalysisConfig struct {
	SentimentScorer  string `mapstructure:"sentiment_scorer"  yaml:"sentiment_scorer"`  // "vader" or "lexicon"
	ScoringWorkers   int    `mapstructure:"scoring_workers"   yaml:"scoring_workers"`   // parallel scorer calls
	TopArticles      int    `mapstructure:"top_articles"      yaml:"top_articles"`      // articles included in the report
}

// SpeechConfig holds translation and TTS settings for the spoken report.
type SpeechConfig struct {
	Language  string `mapstructure:"language"   yaml:"language"`   // BCP-47-ish code, e.g. "hi"
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"` // where the MP3 is written
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.newsvoice/config.yaml (home directory)
//  3. /etc/newsvoice/config.yaml (system)
//
// Environment variables override config file values.
// Format: NEWSVOICE_<SECTION>_<KEY>, e.g., NEWSVOICE_API_PORT
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".newsvoice"))
	v.AddConfigPath("/etc/newsvoice")

	v.SetEnvPrefix("NEWSVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found — that's fine, use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("NEWSVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("sources.cache_ttl", 600) // 10 minutes
	v.SetDefault("sources.rate_per_sec", 2)
	v.SetDefault("sources.feeds", []map[string]string{})
	v.SetDefault("sources.article_urls", []string{})

	// Analysis defaults
	v.SetDefault("analysis.sentiment_scorer", "vader")
	v.SetDefault("analysis.scoring_workers", 4)
	v.SetDefault("analysis.top_articles", 5)

	// Speech defaults
	v.SetDefault("speech.language", "hi")
	v.SetDefault("speech.output_dir", ".")

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
