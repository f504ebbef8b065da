// ABOUTME: ShapeMentor configuration loaded from file, .env, and SHAPEMENTOR_* variables.
// ABOUTME: Defaults, XDG paths, and the process logger live here; factories live in open.go.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/harperreed/shapementor/internal/storage"
)

// EnvPrefix namespaces environment overrides, e.g. SHAPEMENTOR_SESSION_BACKEND.
const EnvPrefix = "SHAPEMENTOR"

// Config stores ShapeMentor settings.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "postgres".
	Backend string `mapstructure:"backend" json:"backend,omitempty"`

	// DataDir is the root directory for local data. SQLite puts
	// shapementor.db here and the badger rate store uses DataDir/reference.
	// Supports ~ expansion. Defaults to ~/.local/share/shapementor.
	DataDir string `mapstructure:"data_dir" json:"data_dir,omitempty"`

	// DatabaseURL is the postgres connection string.
	DatabaseURL string `mapstructure:"database_url" json:"database_url,omitempty"`

	ListenAddr  string `mapstructure:"listen_addr" json:"listen_addr,omitempty"`
	MetricsAddr string `mapstructure:"metrics_addr" json:"metrics_addr,omitempty"`

	LogLevel  string `mapstructure:"log_level" json:"log_level,omitempty"`
	LogFormat string `mapstructure:"log_format" json:"log_format,omitempty"`

	Session   SessionConfig   `mapstructure:"session" json:"session"`
	Reference ReferenceConfig `mapstructure:"reference" json:"reference"`
}

// SessionConfig selects where selected-user sessions live.
type SessionConfig struct {
	Backend       string `mapstructure:"backend" json:"backend,omitempty"`
	TTL           string `mapstructure:"ttl" json:"ttl,omitempty"`
	CookieName    string `mapstructure:"cookie_name" json:"cookie_name,omitempty"`
	RedisAddr     string `mapstructure:"redis_addr" json:"redis_addr,omitempty"`
	RedisPassword string `mapstructure:"redis_password" json:"redis_password,omitempty"`
	RedisDB       int    `mapstructure:"redis_db" json:"redis_db,omitempty"`
}

// ReferenceConfig selects where the calorie rate tables live.
type ReferenceConfig struct {
	Backend string `mapstructure:"backend" json:"backend,omitempty"`
	Dir     string `mapstructure:"dir" json:"dir,omitempty"`
}

var defaults = map[string]any{
	"backend":                "sqlite",
	"data_dir":               "",
	"database_url":           "",
	"listen_addr":            ":8012",
	"metrics_addr":           "",
	"log_level":              "info",
	"log_format":             "text",
	"session.backend":        "memory",
	"session.ttl":            "24h",
	"session.cookie_name":    "shapementor_session",
	"session.redis_addr":     "localhost:6379",
	"session.redis_password": "",
	"session.redis_db":       0,
	"reference.backend":      "memory",
	"reference.dir":          "",
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetListenAddr returns the HTTP listen address, defaulting to ":8012".
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return ":8012"
	}
	return c.ListenAddr
}

// GetSessionTTL parses the session lifetime, defaulting to 24h.
func (c *Config) GetSessionTTL() (time.Duration, error) {
	if c.Session.TTL == "" {
		return 24 * time.Hour, nil
	}
	ttl, err := time.ParseDuration(c.Session.TTL)
	if err != nil {
		return 0, fmt.Errorf("parse session.ttl: %w", err)
	}
	if ttl <= 0 {
		return 0, fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}
	return ttl, nil
}

// GetReferenceDir returns where the badger rate store lives.
func (c *Config) GetReferenceDir() string {
	if c.Reference.Dir == "" {
		return filepath.Join(c.GetDataDir(), "reference")
	}
	return ExpandPath(c.Reference.Dir)
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

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "shapementor", "config.json")
}

// Load reads config from disk, then applies .env and SHAPEMENTOR_* overrides.
// A missing config file or .env is not an error.
func Load() (*Config, error) {
	return LoadFile(GetConfigPath())
}

// LoadFile is Load with an explicit config path.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// NewLogger builds the process logger from log_level and log_format.
func (c *Config) NewLogger(w io.Writer) (*log.Logger, error) {
	level := log.InfoLevel
	if c.LogLevel != "" {
		parsed, err := log.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("parse log_level: %w", err)
		}
		level = parsed
	}

	opts := log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "shapementor",
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		opts.Formatter = log.TextFormatter
	case "json":
		opts.Formatter = log.JSONFormatter
	case "logfmt":
		opts.Formatter = log.LogfmtFormatter
	default:
		return nil, fmt.Errorf("unknown log_format: %q", c.LogFormat)
	}
	return log.NewWithOptions(w, opts), nil
}
