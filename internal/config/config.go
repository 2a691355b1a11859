package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all settings for the mining pipeline.
type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Gemini GeminiConfig `mapstructure:"gemini"`
	Mining MiningConfig `mapstructure:"mining"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

type GitHubConfig struct {
	Token     string `mapstructure:"token"`
	RateLimit int    `mapstructure:"rate_limit"` // Requests per second
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type MiningConfig struct {
	Limit      int    `mapstructure:"limit"` // Pull requests to scan per run
	ResultsDir string `mapstructure:"results_dir"`
}

type CacheConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			RateLimit: 10,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Mining: MiningConfig{
			Limit:      100,
			ResultsDir: "results",
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// Load reads configuration from an optional YAML file and the
// environment. Secrets (GITHUB_TOKEN, GEMINI_API_KEY) always come
// from the environment, with .env supported for local runs.
func Load(path string) (*Config, error) {
	LoadEnv()

	v := viper.New()
	v.SetDefault("github.rate_limit", 10)
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("mining.limit", 100)
	v.SetDefault("mining.results_dir", "results")
	v.SetDefault("cache.enabled", true)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".fixminer")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if path != "" {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file found; defaults plus environment are enough.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}

	return cfg, nil
}
