// Package config loads lucollection settings from the config file, the
// environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. LUCOLLECTION_HOST_URL.
const EnvPrefix = "LUCOLLECTION"

// Config holds the complete application configuration
type Config struct {
	Host     HostConfig     `mapstructure:"host"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Data     DataConfig     `mapstructure:"data"`
	Resolver ResolverConfig `mapstructure:"resolver"`
	Logging  LoggingConfig  `mapstructure:"logging"`

	// Path is the config file in use.
	Path string `mapstructure:"-"`
}

type HostConfig struct {
	URL      string        `mapstructure:"url"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"` // env only, never written to the file
	Timeout  time.Duration `mapstructure:"timeout"`
}

// AssetsConfig says where bundled files are fetched from. Dir, when set,
// replaces the host's static tree as the primary location.
type AssetsConfig struct {
	PrimaryPath   string `mapstructure:"primary_path"`
	SecondaryPath string `mapstructure:"secondary_path"`
	Dir           string `mapstructure:"dir"`
	Embedded      bool   `mapstructure:"embedded"`
}

type DataConfig struct {
	DBPath    string `mapstructure:"db_path"`
	ExportDir string `mapstructure:"export_dir"`
}

type ResolverConfig struct {
	MaxSuffix int `mapstructure:"max_suffix"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Dir is the per-user directory holding the config file, database and log.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".lucollection"
	}
	return filepath.Join(home, ".lucollection")
}

// DefaultPath is the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()

	v.SetDefault("host.url", "http://127.0.0.1:8000")
	v.SetDefault("host.username", "")
	v.SetDefault("host.timeout", "30s")
	v.SetDefault("assets.primary_path", "/scripts/extensions/third-party/lu-collection")
	v.SetDefault("assets.secondary_path", "/extensions/lu-collection")
	v.SetDefault("assets.dir", "")
	v.SetDefault("assets.embedded", true)
	v.SetDefault("data.db_path", filepath.Join(Dir(), "lucollection.db"))
	v.SetDefault("data.export_dir", filepath.Join(home, "Downloads", "lu-collection"))
	v.SetDefault("resolver.max_suffix", 1000)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", filepath.Join(Dir(), "lucollection.log"))
}

// FlagBindings maps config keys to the persistent flags that override them.
var FlagBindings = map[string]string{
	"host.url":      "host",
	"logging.level": "log-level",
}

// Load reads .env from the working directory, then the config file at path
// (DefaultPath when empty, created with defaults when missing), then
// LUCOLLECTION_* variables, then flags. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := WriteDefaults(path); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("host.password"); err != nil {
		return nil, err
	}

	if flags != nil {
		for key, name := range FlagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Path = path
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// WriteDefaults writes a config file holding only the defaults.
func WriteDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	v := viper.New()
	setDefaults(v)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Set updates one key in the config file at path.
func Set(path, key string, value any) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	v.Set(key, value)
	return v.WriteConfig()
}

func (c *Config) Validate() error {
	if c.Host.URL == "" {
		return fmt.Errorf("host.url is required")
	}
	if !strings.HasPrefix(c.Host.URL, "http://") && !strings.HasPrefix(c.Host.URL, "https://") {
		return fmt.Errorf("host.url must start with http:// or https://, got %q", c.Host.URL)
	}
	if c.Resolver.MaxSuffix < 0 {
		return fmt.Errorf("resolver.max_suffix must not be negative")
	}
	return nil
}

func (c *Config) expandPaths() {
	c.Assets.Dir = expandHome(c.Assets.Dir)
	c.Data.DBPath = expandHome(c.Data.DBPath)
	c.Data.ExportDir = expandHome(c.Data.ExportDir)
	c.Logging.File = expandHome(c.Logging.File)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
