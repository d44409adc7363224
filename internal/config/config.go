// ABOUTME: Nightly configuration loaded from YAML and NIGHTLY_* environment variables.
// ABOUTME: Handles defaults, path expansion, and opening the SQLite store.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/nightly/internal/storage"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. NIGHTLY_OURA_TOKEN.
const EnvPrefix = "NIGHTLY"

// Defaults.
const (
	DefaultSyncWindowDays  = 2
	DefaultCorrelationDays = 90
	DefaultTrendDays       = 30
	DefaultLogLevel        = "info"
	DefaultProxyAddr       = ":8787"
)

// Config stores nightly configuration.
type Config struct {
	// DataDir holds nightly.db. Supports ~ expansion. Defaults to ~/.local/share/nightly.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir,omitempty"`

	// OuraToken is the personal access token sent as a bearer token to Oura.
	OuraToken   string `mapstructure:"oura_token" yaml:"oura_token,omitempty"`
	OuraBaseURL string `mapstructure:"oura_base_url" yaml:"oura_base_url,omitempty"`

	SyncWindowDays  int `mapstructure:"sync_window_days" yaml:"sync_window_days,omitempty"`
	CorrelationDays int `mapstructure:"correlation_days" yaml:"correlation_days,omitempty"`
	TrendDays       int `mapstructure:"trend_days" yaml:"trend_days,omitempty"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level,omitempty"`
	// LogFile enables a rotated JSON log file in addition to stderr.
	LogFile string `mapstructure:"log_file" yaml:"log_file,omitempty"`

	ProxyAddr string `mapstructure:"proxy_addr" yaml:"proxy_addr,omitempty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "")
	v.SetDefault("oura_token", "")
	v.SetDefault("oura_base_url", "")
	v.SetDefault("sync_window_days", DefaultSyncWindowDays)
	v.SetDefault("correlation_days", DefaultCorrelationDays)
	v.SetDefault("trend_days", DefaultTrendDays)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("proxy_addr", DefaultProxyAddr)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the SQLite file inside the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "nightly.db")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage opens the SQLite store in the data directory.
func (c *Config) OpenStorage() (*storage.DB, error) {
	return storage.Open(c.DBPath())
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "nightly", "config.yaml")
}

// Load reads config from the default path. A missing file yields defaults.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path, then applies NIGHTLY_* environment overrides.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// OURA_TOKEN is accepted too so an existing token export keeps working.
	if err := v.BindEnv("oura_token", EnvPrefix+"_OURA_TOKEN", "OURA_TOKEN"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config as YAML with owner-only permissions, since it may hold the token.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
