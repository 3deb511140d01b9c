package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// DataDir holds the content tables; empty means the embedded defaults
	DataDir          string        `yaml:"data_dir" json:"data_dir"`
	DBPath           string        `yaml:"db_path" json:"db_path"`
	Slot             string        `yaml:"slot" json:"slot"`
	TickInterval     time.Duration `yaml:"tick_interval" json:"tick_interval"`
	AutoSaveInterval time.Duration `yaml:"auto_save_interval" json:"auto_save_interval"`
	LogLevel         string        `yaml:"log_level" json:"log_level"`
}

// Default returns the configuration used when nothing is set
func Default() Config {
	return Config{
		DBPath:           "atoms.db",
		Slot:             "main",
		TickInterval:     250 * time.Millisecond,
		AutoSaveInterval: 30 * time.Second,
		LogLevel:         "info",
	}
}

// ApplyDefaults fills every zero field from Default
func (c *Config) ApplyDefaults() {
	d := Default()
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.Slot == "" {
		c.Slot = d.Slot
	}
	if c.TickInterval <= 0 {
		c.TickInterval = d.TickInterval
	}
	if c.AutoSaveInterval <= 0 {
		c.AutoSaveInterval = d.AutoSaveInterval
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
}

// Load reads a YAML config file
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	c.ApplyDefaults()
	return &c, nil
}

// ApplyEnv overrides fields from ATOMS_* environment variables. Unparsable
// durations are ignored.
func (c *Config) ApplyEnv() {
	if val := os.Getenv("ATOMS_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("ATOMS_DB"); val != "" {
		c.DBPath = val
	}
	if val := os.Getenv("ATOMS_SLOT"); val != "" {
		c.Slot = val
	}
	if val := getEnvDuration("ATOMS_TICK"); val > 0 {
		c.TickInterval = val
	}
	if val := getEnvDuration("ATOMS_AUTOSAVE"); val > 0 {
		c.AutoSaveInterval = val
	}
	if val := os.Getenv("ATOMS_LOG_LEVEL"); val != "" {
		c.LogLevel = val
	}
}

// SlogLevel parses LogLevel
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

func getEnvDuration(key string) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0
	}
	return d
}
