package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/djwarf/calgrid/pkg/calendar"
)

// Config holds application configuration
type Config struct {
	// Data directory holding the event database
	DataDir string `yaml:"data_dir"`

	// DefaultView is the initial grid: "month" or "week".
	DefaultView string `yaml:"default_view"`

	// InitialDate anchors the first grid, as YYYY-MM-DD. Empty means today.
	InitialDate string `yaml:"initial_date,omitempty"`

	// Week view geometry in pixels.
	HourHeight     float64 `yaml:"hour_height"`
	MinBlockHeight float64 `yaml:"min_block_height"`
	// ClampOverflow keeps event blocks inside the 24 hour axis.
	ClampOverflow bool `yaml:"clamp_overflow"`

	// MaxPills is the number of events listed per month cell before "+N more".
	MaxPills int `yaml:"max_pills"`

	Colors     []string `yaml:"colors"`
	Categories []string `yaml:"categories"`

	// LogLevel is DEBUG, INFO or ERROR.
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		DataDir:        getDefaultDataDir(),
		DefaultView:    string(calendar.ViewMonth),
		HourHeight:     calendar.DefaultHourHeight,
		MinBlockHeight: calendar.DefaultMinHeight,
		ClampOverflow:  false,
		MaxPills:       calendar.DefaultMaxPills,
		Colors:         append([]string(nil), calendar.DefaultColors...),
		Categories:     append([]string(nil), calendar.DefaultCategories...),
		LogLevel:       "INFO",
	}
}

// Normalize fills missing or invalid values with defaults so older or
// hand-edited files still load.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if _, err := calendar.ParseView(c.DefaultView); err != nil || c.DefaultView == "" {
		c.DefaultView = def.DefaultView
	}
	if c.InitialDate != "" {
		if _, err := time.ParseInLocation("2006-01-02", c.InitialDate, time.Local); err != nil {
			c.InitialDate = ""
		}
	}
	if c.HourHeight <= 0 {
		c.HourHeight = def.HourHeight
	}
	if c.MinBlockHeight <= 0 {
		c.MinBlockHeight = def.MinBlockHeight
	}
	if c.MaxPills == 0 {
		c.MaxPills = def.MaxPills
	}
	if len(c.Colors) == 0 {
		c.Colors = def.Colors
	}
	if len(c.Categories) == 0 {
		c.Categories = def.Categories
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
}

// Load loads config from path. A missing file is created with defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			// Even if save fails, return cfg with error so caller can decide.
			return cfg, cfg.Save(path)
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return cfg, nil
}

// Save writes the config to path atomically with 0600 permissions.
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	c.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calgrid-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// DatabasePath returns the path to the SQLite database
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "calgrid.db")
}

// Options returns the widget's initial view and anchor date.
func (c *Config) Options() calendar.Options {
	view, err := calendar.ParseView(c.DefaultView)
	if err != nil {
		view = calendar.ViewMonth
	}
	opts := calendar.Options{InitialView: view}
	if c.InitialDate != "" {
		if d, err := time.ParseInLocation("2006-01-02", c.InitialDate, time.Local); err == nil {
			opts.InitialDate = d
		}
	}
	return opts
}

// Settings returns the widget settings described by the config.
func (c *Config) Settings() calendar.Settings {
	return calendar.Settings{
		Choices: calendar.Choices{Colors: c.Colors, Categories: c.Categories},
		Layout: calendar.Layout{
			HourHeight: c.HourHeight,
			MinHeight:  c.MinBlockHeight,
			Clamp:      c.ClampOverflow,
		},
		MaxPills: c.MaxPills,
	}
}

// DefaultPath returns the path to the config file
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "calgrid", "config.yaml")
}

// getDefaultDataDir returns the default data directory
func getDefaultDataDir() string {
	dataDir, err := os.UserConfigDir()
	if err != nil {
		dataDir = filepath.Join(os.Getenv("HOME"), ".local", "share")
	}
	return filepath.Join(dataDir, "calgrid")
}
