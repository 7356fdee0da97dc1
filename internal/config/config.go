package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Download DownloadConfig `yaml:"download"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DownloadConfig struct {
	// Binary is the yt-dlp executable name or path.
	Binary string `yaml:"binary"`
	// CookiesFile is an optional Netscape cookie jar passed to yt-dlp.
	// The file is re-checked on every invocation; a missing file disables
	// the flag rather than failing the request.
	CookiesFile string `yaml:"cookies_file"`
	// TempRoot is the directory under which per-download workspaces are
	// created. Empty means os.TempDir().
	TempRoot string `yaml:"temp_root"`
	// Timeout caps the duration of a single download subprocess.
	// Zero means unlimited.
	Timeout time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads config from a YAML file and applies environment variable
// overrides. A missing file is not an error: the service can run from
// defaults and environment alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Download.Binary == "" {
		cfg.Download.Binary = "yt-dlp"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LILA_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("LILA_API_KEY"); v != "" {
		cfg.Server.APIKey = v
	}
	if v := os.Getenv("LILA_YTDLP_BINARY"); v != "" {
		cfg.Download.Binary = v
	}
	if v := os.Getenv("COOKIES_FILE"); v != "" {
		cfg.Download.CookiesFile = v
	}
	if v := os.Getenv("LILA_TEMP_ROOT"); v != "" {
		cfg.Download.TempRoot = v
	}
	if v := os.Getenv("LILA_DOWNLOAD_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Download.Timeout = d
		}
	}
	if v := os.Getenv("LILA_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LILA_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
