package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/debloatkit/debloat/internal/branding"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized configuration keys.
const (
	KeyCatalogDir      = "catalog_dir"
	KeyCatalogRepo     = "catalog_repo"
	KeyShell           = "shell"
	KeyTimeout         = "timeout"
	KeyMatchPolicy     = "match_policy"
	KeyInventoryFile   = "inventory_file"
	KeyMetricsTextfile = "metrics_textfile"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
)

// Keys lists every recognized key in display order.
var Keys = []string{
	KeyCatalogDir,
	KeyCatalogRepo,
	KeyShell,
	KeyTimeout,
	KeyMatchPolicy,
	KeyInventoryFile,
	KeyMetricsTextfile,
	KeyLogLevel,
	KeyLogFormat,
}

// Dir returns the path to the config directory (~/.debloat/).
func Dir() string {
	if v := os.Getenv(branding.EnvVar("HOME")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.debloat/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	setDefaults()
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

func setDefaults() {
	viper.SetDefault(KeyShell, "auto")
	viper.SetDefault(KeyTimeout, "10m")
	viper.SetDefault(KeyMatchPolicy, "substring")
	viper.SetDefault(KeyLogLevel, "warn")
	viper.SetDefault(KeyLogFormat, "text")
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Duration returns a duration-valued key. Unparseable values yield zero,
// which callers treat as "no timeout".
func Duration(key string) time.Duration {
	return viper.GetDuration(key)
}

// Path returns a path-valued key with a leading ~ expanded.
func Path(key string) (string, error) {
	v := viper.GetString(key)
	if v == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(v)
	if err != nil {
		return "", fmt.Errorf("expanding %s %q: %w", key, v, err)
	}
	return expanded, nil
}

// IsKnownKey reports whether key is one of Keys.
func IsKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !IsKnownKey(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
