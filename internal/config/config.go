// Package config loads server settings from defaults, an optional YAML file
// and REACT_SSR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/3-lines-studio/reactssr/internal/styles"
)

const EnvPrefix = "REACT_SSR"

type Config struct {
	Addr        string        `mapstructure:"addr"`
	Dev         bool          `mapstructure:"dev"`
	LogLevel    string        `mapstructure:"log_level"`
	AssetPrefix string        `mapstructure:"asset_prefix"`
	AssetsDir   string        `mapstructure:"assets_dir"`
	Manifest    string        `mapstructure:"manifest"`
	Strategy    string        `mapstructure:"strategy"`
	CacheTTL    time.Duration `mapstructure:"cache_ttl"`
	Runtime     RuntimeConfig `mapstructure:"runtime"`
}

// RuntimeConfig controls the Bun process used for React component files.
type RuntimeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Bun     string `mapstructure:"bun"`
}

func DefaultConfig() *Config {
	return &Config{
		Addr:        ":8080",
		LogLevel:    "info",
		AssetPrefix: "/_react-ssr/",
		AssetsDir:   "dist",
		Strategy:    "default",
		Runtime: RuntimeConfig{
			Bun: "bun",
		},
	}
}

// Load reads configPath when given, otherwise looks for react-ssr.yaml in the
// working directory. A missing default file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("react-ssr")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if _, err := styles.ParseStrategy(c.Strategy); err != nil {
		return err
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	return nil
}

// StyleStrategy returns the parsed strategy. Validate has already checked it.
func (c *Config) StyleStrategy() styles.Strategy {
	s, _ := styles.ParseStrategy(c.Strategy)
	return s
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("dev", defaults.Dev)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("asset_prefix", defaults.AssetPrefix)
	v.SetDefault("assets_dir", defaults.AssetsDir)
	v.SetDefault("manifest", defaults.Manifest)
	v.SetDefault("strategy", defaults.Strategy)
	v.SetDefault("cache_ttl", defaults.CacheTTL)
	v.SetDefault("runtime.enabled", defaults.Runtime.Enabled)
	v.SetDefault("runtime.bun", defaults.Runtime.Bun)
}
