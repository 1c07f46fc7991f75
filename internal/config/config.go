// Package config loads kneeplan settings from a TOML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the config file looked up when none is given explicitly
const DefaultPath = "kneeplan.toml"

// Config holds all process settings
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	Planning PlanningConfig `toml:"planning"`
	Store    StoreConfig    `toml:"store"`
	Watch    WatchConfig    `toml:"watch"`
}

// ServerConfig configures the HTTP control interface
type ServerConfig struct {
	Addr         string `toml:"addr"`
	ReadTimeout  int    `toml:"read_timeout"`  // seconds
	WriteTimeout int    `toml:"write_timeout"` // seconds
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text or json
}

// PlanningConfig holds the initial planning parameters and the frame rate
type PlanningConfig struct {
	FrameRate        int     `toml:"frame_rate"`
	VarusValgus      float64 `toml:"varus_valgus"`      // degrees
	FlexionExtension float64 `toml:"flexion_extension"` // degrees
	ResectionDepth   float64 `toml:"resection_depth"`   // millimeters
	ResectionVisible bool    `toml:"resection_visible"`
}

// StoreConfig locates the plan history database
type StoreConfig struct {
	Path string `toml:"path"`
}

// WatchConfig configures case file watching
type WatchConfig struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":3000",
			ReadTimeout:  10,
			WriteTimeout: 10,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Planning: PlanningConfig{
			FrameRate:        60,
			VarusValgus:      3,
			FlexionExtension: 3,
			ResectionDepth:   10,
		},
		Store: StoreConfig{
			Path: "data/kneeplan.db",
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// Load reads settings from path on top of the defaults, then applies KNEEPLAN_*
// environment overrides. An empty path tries DefaultPath and tolerates its absence.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("KNEEPLAN_ADDR", c.Server.Addr)
	c.Log.Level = getEnv("KNEEPLAN_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("KNEEPLAN_LOG_FORMAT", c.Log.Format)
	c.Store.Path = getEnv("KNEEPLAN_DB_PATH", c.Store.Path)
	c.Planning.FrameRate = getEnvAsInt("KNEEPLAN_FRAME_RATE", c.Planning.FrameRate)
}

// Validate rejects settings the session cannot run with
func (c *Config) Validate() error {
	if c.Planning.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive, got %d", c.Planning.FrameRate)
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("debounce_ms must not be negative, got %d", c.Watch.DebounceMS)
	}
	return nil
}

// FrameInterval returns the time between frame ticks
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Planning.FrameRate)
}

// Debounce returns the case file watch debounce
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMS) * time.Millisecond
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
