package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultWordPressAPIURL = "https://wp.fmd.gg/wp-json/wp/v2"

// Config holds the application configuration loaded from the environment
// and an optional .env file.
type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	WordPressAPIURL string `mapstructure:"wordpress_api_url"`

	EmbyServer string `mapstructure:"emby_server"`
	EmbyAPIKey string `mapstructure:"emby_api_key"`
	EmbyUserID string `mapstructure:"emby_user_id"`

	TMDBAPIKey string `mapstructure:"tmdb_api_key"`

	CacheTTLSeconds    int64         `mapstructure:"cache_ttl_seconds"`
	CacheTTL           time.Duration `mapstructure:"-"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables. Missing upstream
// credentials are not an error here; each client validates its own required
// settings at construction.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("wordpress_api_url", defaultWordPressAPIURL)
	v.SetDefault("emby_server", "")
	v.SetDefault("emby_api_key", "")
	v.SetDefault("emby_user_id", "")
	v.SetDefault("tmdb_api_key", "")
	v.SetDefault("cache_ttl_seconds", 300)
	v.SetDefault("http_timeout_seconds", 10)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CacheTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid cache_ttl_seconds (must be positive)")
	}
	cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	return &cfg, nil
}
