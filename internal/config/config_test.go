package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PATIENTRECORDS_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".local", "share", "patientrecords", "patientrecords.db"), cfg.Database.Path)
	require.Equal(t, 3, cfg.UI.PageSize)
	require.Equal(t, 3, cfg.UI.ConsultationPageSize)
	require.Equal(t, "theme, base, components", cfg.UI.ThemeLayers)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ui]
page_size = 5
timezone = "Europe/Berlin"

[log]
format = "ecs"
`), 0o600))
	t.Setenv("PATIENTRECORDS_UI_CONSULTATION_PAGE_SIZE", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 5, cfg.UI.PageSize)
	require.Equal(t, 7, cfg.UI.ConsultationPageSize)
	require.Equal(t, "Europe/Berlin", cfg.UI.Timezone)
	require.Equal(t, "ecs", cfg.Log.Format)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui\npage_size = "), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Config{
		Database: DatabaseConfig{Path: "/tmp/p.db"},
		UI:       UIConfig{PageSize: 4, ConsultationPageSize: 2, DateFormat: "2006-01-02", Timezone: "UTC", ThemeLayers: "base, theme, components"},
		Log:      LogConfig{Path: "/tmp/p.log", Level: "debug", Format: "console"},
	}
	require.NoError(t, Save(cfg, path))

	got, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}
