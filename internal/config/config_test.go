package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap/internal/layout"
	"roadmap/internal/roadmap"
	"roadmap/internal/storage"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.StartMenu)
	assert.True(t, cfg.Confirmations)
	assert.Equal(t, "", cfg.SaveDirectory)
	assert.Equal(t, roadmap.DefaultHistoryLimit, cfg.HistoryLimit)
	assert.Equal(t, storage.BackendFile, cfg.Storage.Backend)
	assert.Equal(t, storage.DefaultKey, cfg.Storage.Key)
	assert.True(t, filepath.IsAbs(cfg.Storage.Path))
	assert.True(t, strings.HasSuffix(cfg.Storage.Path, ".roadmap"))
	assert.Equal(t, "standard", cfg.Gemini.Tier)
	assert.Equal(t, layout.ModeSerpentine, cfg.LayoutMode())
	assert.Equal(t, layout.DefaultOptions(), cfg.Layout.Options)
	assert.True(t, cfg.Export.PNG)
	assert.Equal(t, 2.0, cfg.Export.Scale)
}

func TestLoad_EnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{"backend", "ROADMAP_STORAGE_BACKEND", "sqlite", func(c Config) any { return c.Storage.Backend }, "sqlite"},
		{"confirmations", "ROADMAP_CONFIRMATIONS", "false", func(c Config) any { return c.Confirmations }, false},
		{"layout mode", "ROADMAP_LAYOUT_MODE", "wrap", func(c Config) any { return c.Layout.Mode }, "wrap"},
		{"stage width", "ROADMAP_LAYOUT_STAGE_WIDTH", "300", func(c Config) any { return c.Layout.StageWidth }, 300.0},
		{"gemini key", "GEMINI_API_KEY", "abc", func(c Config) any { return c.Gemini.APIKey }, "abc"},
		{"prefixed gemini key", "ROADMAP_GEMINI_API_KEY", "xyz", func(c Config) any { return c.Gemini.APIKey }, "xyz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, tt.field(cfg))
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".roadmap.yaml")
	content := `
save_directory: ` + dir + `
storage:
  backend: sqlite
  path: ` + dir + `
layout:
  mode: wrap
  row_capacity: 2
export:
  png: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.SaveDirectory)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, layout.ModeWrap, cfg.LayoutMode())
	assert.Equal(t, 2, cfg.Layout.RowCapacity)
	assert.Equal(t, layout.DefaultOptions().StageWidth, cfg.Layout.StageWidth)
	assert.False(t, cfg.Export.PNG)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value any
	}{
		{"storage.backend", "redis"},
		{"layout.mode", "spiral"},
		{"layout.row_capacity", 0},
		{"export.scale", 0},
		{"gemini.tier", "ultra"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.value)
			_, err := LoadFrom(v)
			assert.Error(t, err)
		})
	}
}

func TestSavePath(t *testing.T) {
	assert.Equal(t, "roadmap.svg", Config{}.SavePath("roadmap.svg"))

	dir := filepath.Join(t.TempDir(), "exports")
	cfg := Config{SaveDirectory: dir}
	assert.Equal(t, filepath.Join(dir, "roadmap.svg"), cfg.SavePath("roadmap.svg"))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", expandPath(""))
	assert.Equal(t, filepath.Join(home, "notes"), expandPath("~/notes"))
	assert.Equal(t, "/tmp/x", expandPath("/tmp/x"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := Config{}.NewLogger(&buf)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown", "k", "v")
	require.NoError(t, closeFn())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "k=v")

	logPath := filepath.Join(t.TempDir(), "roadmap.log")
	logger, closeFn, err = Config{LogFile: logPath, Verbose: true}.NewLogger(nil)
	require.NoError(t, err)
	logger.Debug("to file")
	require.NoError(t, closeFn())
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
