// Package config resolves the data directory and reads the optional
// config.yaml stored inside it. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the data directory.
const FileName = "config.yaml"

// Backend selects the cache implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendZstore Backend = "zstore"
)

// defaultPassphrase keys the local cache when none is configured. The cache
// holds demo data only.
const defaultPassphrase = "zattend-demo"

// Config holds runtime settings.
type Config struct {
	DataDir    string  `yaml:"-"`
	Backend    Backend `yaml:"backend"`
	Passphrase string  `yaml:"passphrase"`
	LogLevel   string  `yaml:"log_level"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		DataDir:    DataDir(),
		Backend:    BackendFile,
		Passphrase: defaultPassphrase,
		LogLevel:   "info",
	}
}

// DataDir returns the data directory for zattend.
func DataDir() string {
	if d := os.Getenv("ZATTEND_DATA_DIR"); d != "" {
		return d
	}
	if d := os.Getenv("XDG_DATA_HOME"); d != "" {
		return d + "/zattend"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".zattend"
	}
	return home + "/.local/share/zattend"
}

// Load reads config.yaml from the default data directory, applies
// environment overrides and validates the result.
func Load() (Config, error) {
	return LoadDir(DataDir())
}

// LoadDir is Load with an explicit data directory.
// A missing config file is not an error.
func LoadDir(dir string) (Config, error) {
	cfg := Default()
	cfg.DataDir = dir

	b, err := os.ReadFile(filepath.Join(dir, FileName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ZATTEND_BACKEND"); v != "" {
		c.Backend = Backend(v)
	}
	if v := os.Getenv("ZATTEND_PASSPHRASE"); v != "" {
		c.Passphrase = v
	}
	if v := os.Getenv("ZATTEND_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks backend and log level.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendZstore:
	default:
		return fmt.Errorf("config: unknown backend %q", c.Backend)
	}

	if _, err := c.Level(); err != nil {
		return err
	}

	if c.Passphrase == "" {
		return errors.New("config: passphrase must not be empty")
	}
	return nil
}

// Level parses LogLevel into a slog level.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// LogPath is where the application log is written.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "zattend.log")
}
