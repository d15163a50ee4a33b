// Package config loads roadmap settings from .roadmap.yaml, ROADMAP_* env
// vars and command flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"roadmap/internal/layout"
	"roadmap/internal/roadmap"
	"roadmap/internal/storage"
)

const EnvPrefix = "ROADMAP"

type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"oneof=file sqlite"`
	Path    string `mapstructure:"path" validate:"required"`
	Key     string `mapstructure:"key" validate:"required"`
}

type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	Tier   string `mapstructure:"tier" validate:"oneof=lite standard advanced"`
}

type LayoutConfig struct {
	Mode           string `mapstructure:"mode" validate:"oneof=serpentine wrap"`
	layout.Options `mapstructure:",squash"`
}

type ExportConfig struct {
	PNG   bool    `mapstructure:"png"`
	Scale float64 `mapstructure:"scale" validate:"gt=0,lte=8"`
}

// Config holds all runtime configuration.
type Config struct {
	SaveDirectory string        `mapstructure:"save_directory"`
	StartMenu     bool          `mapstructure:"start_menu"`
	Confirmations bool          `mapstructure:"confirmations"`
	HistoryLimit  int           `mapstructure:"history_limit" validate:"gte=1"`
	LogFile       string        `mapstructure:"log_file"`
	Verbose       bool          `mapstructure:"verbose"`
	Storage       StorageConfig `mapstructure:"storage"`
	Gemini        GeminiConfig  `mapstructure:"gemini"`
	Layout        LayoutConfig  `mapstructure:"layout"`
	Export        ExportConfig  `mapstructure:"export"`
}

// SetDefaults registers built-in values for every key.
func SetDefaults(v *viper.Viper) {
	opts := layout.DefaultOptions()

	v.SetDefault("save_directory", "")
	v.SetDefault("start_menu", true)
	v.SetDefault("confirmations", true)
	v.SetDefault("history_limit", roadmap.DefaultHistoryLimit)
	v.SetDefault("log_file", "")
	v.SetDefault("verbose", false)
	v.SetDefault("storage.backend", storage.BackendFile)
	v.SetDefault("storage.path", "~/.roadmap")
	v.SetDefault("storage.key", storage.DefaultKey)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "")
	v.SetDefault("gemini.tier", "standard")
	v.SetDefault("layout.mode", string(layout.ModeSerpentine))
	v.SetDefault("layout.stage_width", opts.StageWidth)
	v.SetDefault("layout.height", opts.Height)
	v.SetDefault("layout.amplitude", opts.Amplitude)
	v.SetDefault("layout.min_width", opts.MinWidth)
	v.SetDefault("layout.padding", opts.Padding)
	v.SetDefault("layout.row_capacity", opts.RowCapacity)
	v.SetDefault("layout.row_height", opts.RowHeight)
	v.SetDefault("export.png", true)
	v.SetDefault("export.scale", 2.0)
}

// BindEnv makes ROADMAP_STORAGE_BACKEND style variables override nested
// keys. The Gemini key is also read from the conventional GEMINI_API_KEY.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY")
}

// Load reads configuration from the global viper instance.
func Load() (Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom applies defaults, unmarshals and validates.
func LoadFrom(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	BindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.SaveDirectory = expandPath(cfg.SaveDirectory)
	cfg.LogFile = expandPath(cfg.LogFile)
	if cfg.Storage.Path != ":memory:" {
		cfg.Storage.Path = expandPath(cfg.Storage.Path)
	}
	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)
	cfg.Layout.Mode = strings.ToLower(cfg.Layout.Mode)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LayoutMode returns the validated layout mode.
func (c Config) LayoutMode() layout.Mode {
	mode, err := layout.ParseMode(c.Layout.Mode)
	if err != nil {
		return layout.ModeSerpentine
	}
	return mode
}

// SavePath places filename inside the save directory, creating it if
// needed. With no save directory the name is returned unchanged.
func (c Config) SavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	_ = os.MkdirAll(c.SaveDirectory, 0o755)
	return filepath.Join(c.SaveDirectory, filename)
}

// ExportDir is where exports land by default.
func (c Config) ExportDir() string {
	if c.SaveDirectory == "" {
		return "."
	}
	return c.SaveDirectory
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
