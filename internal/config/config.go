package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all mapletrack configuration.
type Config struct {
	General    GeneralConfig              `toml:"general"`
	Appearance AppearanceConfig           `toml:"appearance"`
	Server     ServerConfig               `toml:"server"`
	TUI        TUIConfig                  `toml:"tui"`
	Symbols    map[string]SymbolOverride  `toml:"symbols,omitempty"`
	StatScale  map[string]StatScaleConfig `toml:"stat_scale,omitempty"`
}

// GeneralConfig holds data-source preferences.
type GeneralConfig struct {
	DataDir string `toml:"data_dir,omitempty"`
	DataURL string `toml:"data_url,omitempty"`
	Format  string `toml:"format"`
	Sort    string `toml:"sort"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme    string `toml:"theme"`
	DarkMode bool   `toml:"dark_mode"`
}

// ServerConfig holds settings for the web server.
type ServerConfig struct {
	Addr         string `toml:"addr"`
	PollInterval string `toml:"poll_interval"`
	EventsBuffer int    `toml:"events_buffer"`
}

// TUIConfig holds dashboard refresh settings.
type TUIConfig struct {
	AutoRefresh        bool `toml:"auto_refresh"`
	RefreshIntervalSec int  `toml:"refresh_interval_sec"`
}

// SymbolOverride replaces individual constants of a symbol kind.
type SymbolOverride struct {
	BaseForce     *int `toml:"base_force,omitempty"`
	ForcePerLevel *int `toml:"force_per_level,omitempty"`
	BaseStat      *int `toml:"base_stat,omitempty"`
	StatPerLevel  *int `toml:"stat_per_level,omitempty"`
	MaxLevel      *int `toml:"max_level,omitempty"`
}

// StatScaleConfig overrides the stat scaling of a single job.
type StatScaleConfig struct {
	Multiplier int `toml:"multiplier"`
	Divisor    int `toml:"divisor"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			DataDir: "data",
			Format:  "auto",
			Sort:    "class",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			PollInterval: "15s",
			EventsBuffer: 200,
		},
		TUI: TUIConfig{
			AutoRefresh:        true,
			RefreshIntervalSec: 30,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mapletrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mapletrack")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// The active symbol tables are reset, then overrides found in the file
// are applied to them.
func Load() (Config, error) {
	ResetOverrides()
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if err := ApplyOverrides(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// ResolveDataDir returns the data directory from env var or config, in that order.
func ResolveDataDir(cfg Config) string {
	if dir := os.Getenv("MAPLETRACK_DATA_DIR"); dir != "" {
		return dir
	}
	return cfg.General.DataDir
}

// ResolveDataURL returns the remote data URL from env var or config, in that order.
func ResolveDataURL(cfg Config) string {
	if u := os.Getenv("MAPLETRACK_DATA_URL"); u != "" {
		return u
	}
	return cfg.General.DataURL
}

// PollEvery parses the server poll interval, falling back to 15s.
func (c ServerConfig) PollEvery() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
