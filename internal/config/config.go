package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrMissingBaseURL is returned when no API base URL is configured.
var ErrMissingBaseURL = errors.New("api base URL is not configured (set HOOKLENS_API_BASE_URL or --api-base-url)")

type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Poll    PollConfig    `mapstructure:"poll"`
	Toast   ToastConfig   `mapstructure:"toast"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
	DataDir string        `mapstructure:"data_dir"`
}

type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

type ToastConfig struct {
	Lifetime time.Duration `mapstructure:"lifetime"`
}

type UIConfig struct {
	CursorBlink bool `mapstructure:"cursor_blink"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

// flagKeys maps command-line flags onto config keys.
var flagKeys = map[string]string{
	"api-base-url": "api.base_url",
	"timeout":      "api.timeout",
	"log-level":    "logging.level",
	"data-dir":     "data_dir",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("poll.interval", 5*time.Second)
	v.SetDefault("toast.lifetime", 3*time.Second)
	v.SetDefault("ui.cursor_blink", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "file")
	v.SetDefault("logging.file_path", "")
	v.SetDefault("data_dir", "~/.hooklens")
}

// Load reads configuration from, in increasing precedence: defaults, the
// YAML file at path (or <data_dir>/config.yaml if path is empty and the file
// exists), HOOKLENS_* environment variables, and the given flags.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("hooklens")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	if path == "" {
		candidate := filepath.Join(ExpandHome(v.GetString("data_dir")), "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.DataDir = ExpandHome(config.DataDir)
	if config.Logging.FilePath == "" {
		config.Logging.FilePath = filepath.Join(config.DataDir, "hooklens.log")
	}

	return &config, nil
}

// Validate checks settings every command needs.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return ErrMissingBaseURL
	}
	if c.Poll.Interval <= 0 {
		return errors.New("poll.interval must be positive")
	}
	if c.Toast.Lifetime <= 0 {
		return errors.New("toast.lifetime must be positive")
	}
	return nil
}

// LocationDBPath is the SQLite file holding the persisted location.
func (c *Config) LocationDBPath() string {
	return filepath.Join(c.DataDir, "hooklens.db")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
