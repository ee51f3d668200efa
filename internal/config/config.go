package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultConfigPath = "config.yaml"

// Config is the full service configuration as read from YAML.
type Config struct {
	Server struct {
		Host           string `yaml:"host"`
		Port           string `yaml:"port"`
		Prefork        bool   `yaml:"prefork"`
		BodyLimitBytes int    `yaml:"body_limit_bytes"`
	} `yaml:"server"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	Convert struct {
		// ImageDPI is the resolution recorded when an image is placed on a PDF page.
		ImageDPI int `yaml:"image_dpi"`
		// RenderDPI is the resolution PDF pages are rasterized at.
		RenderDPI float64 `yaml:"render_dpi"`
	} `yaml:"convert"`

	Workspace struct {
		BaseDir       string        `yaml:"base_dir"`
		MaxAge        time.Duration `yaml:"max_age"`
		SweepSchedule string        `yaml:"sweep_schedule"`
	} `yaml:"workspace"`

	Cache struct {
		Enabled     bool          `yaml:"enabled"`
		TTL         time.Duration `yaml:"ttl"`
		RedisHost   string        `yaml:"redis_host"`
		ResultDB    int           `yaml:"redis_result_db"`
		RateLimitDB int           `yaml:"redis_rate_db"`
	} `yaml:"cache"`

	Auth struct {
		PostgresDSN         string        `yaml:"postgres_dsn"`
		TokenReloadInterval time.Duration `yaml:"token_reload_interval"`
	} `yaml:"auth"`

	RateLimiter struct {
		Interval               time.Duration `yaml:"interval"`
		UserLimit              int           `yaml:"user_limit"`
		EnableUserLimiter      bool          `yaml:"enable_user_limiter"`
		EnableTokenRateLimiter bool          `yaml:"enable_token_rate_limiter"`
	} `yaml:"rate_limiter"`
}

// Default returns a configuration with every field set to its built-in default.
func Default() Config {
	var cfg Config
	applyDefaults(&cfg)
	return cfg
}

// Load reads the file named by CONFIG_PATH, falling back to ./config.yaml.
// When neither is present the built-in defaults are used.
func Load() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			applyEnv(&cfg)
			mustValidate(cfg)
			return cfg
		}
		path = defaultConfigPath
	}
	return LoadFrom(path)
}

// LoadFrom reads and validates the YAML file at path. It panics on unreadable
// files and invalid values, since the service cannot start without them.
func LoadFrom(path string) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("config: read %s: %v", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		panic(fmt.Sprintf("config: parse %s: %v", path, err))
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)
	mustValidate(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.BodyLimitBytes == 0 {
		cfg.Server.BodyLimitBytes = 64 * 1024 * 1024
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Logger.MaxSizeMB == 0 {
		cfg.Logger.MaxSizeMB = 10
	}
	if cfg.Logger.MaxBackups == 0 {
		cfg.Logger.MaxBackups = 3
	}
	if cfg.Logger.MaxAgeDays == 0 {
		cfg.Logger.MaxAgeDays = 7
	}
	if cfg.Convert.ImageDPI == 0 {
		cfg.Convert.ImageDPI = 100
	}
	if cfg.Convert.RenderDPI == 0 {
		cfg.Convert.RenderDPI = 72
	}
	if cfg.Workspace.MaxAge == 0 {
		cfg.Workspace.MaxAge = 30 * time.Minute
	}
	if cfg.Workspace.SweepSchedule == "" {
		cfg.Workspace.SweepSchedule = "@every 10m"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
	if cfg.Auth.TokenReloadInterval == 0 {
		cfg.Auth.TokenReloadInterval = time.Minute
	}
	if cfg.RateLimiter.Interval == 0 {
		cfg.RateLimiter.Interval = time.Minute
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("IMGPDF_WORKSPACE_DIR"); v != "" {
		cfg.Workspace.BaseDir = v
	}
}

func mustValidate(cfg Config) {
	if err := Validate(cfg); err != nil {
		panic("config: " + err.Error())
	}
}

// Validate reports the first invalid value in cfg.
func Validate(cfg Config) error {
	if !strings.HasPrefix(cfg.Server.Port, ":") {
		return fmt.Errorf("server.port must look like \":8080\", got %q", cfg.Server.Port)
	}
	if cfg.Server.BodyLimitBytes < 0 {
		return errors.New("server.body_limit_bytes must not be negative")
	}
	if cfg.Convert.ImageDPI <= 0 {
		return errors.New("convert.image_dpi must be positive")
	}
	if cfg.Convert.RenderDPI <= 0 {
		return errors.New("convert.render_dpi must be positive")
	}
	if cfg.Workspace.MaxAge < 0 {
		return errors.New("workspace.max_age must not be negative")
	}
	if cfg.Cache.TTL < 0 {
		return errors.New("cache.ttl must not be negative")
	}
	if cfg.Auth.TokenReloadInterval <= 0 {
		return errors.New("auth.token_reload_interval must be positive")
	}
	if cfg.RateLimiter.Interval <= 0 {
		return errors.New("rate_limiter.interval must be positive")
	}
	if cfg.RateLimiter.UserLimit < 0 {
		return errors.New("rate_limiter.user_limit must not be negative")
	}
	return nil
}
