package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	UI       UIConfig       `mapstructure:"ui"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize             int    `mapstructure:"page_size"`
	ConsultationPageSize int    `mapstructure:"consultation_page_size"`
	DateFormat           string `mapstructure:"date_format"`
	Timezone             string `mapstructure:"timezone"`
	ThemeLayers          string `mapstructure:"theme_layers"`
}

// LogConfig selects where and how logs are written.
type LogConfig struct {
	Path   string `mapstructure:"path"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console | ecs
}

// Load reads configuration from file and env. Env var overrides use prefix
// PATIENTRECORDS_. An explicit path wins over PATIENTRECORDS_CONFIG.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("PATIENTRECORDS_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "patientrecords"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("PATIENTRECORDS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "patientrecords", "patientrecords.db"))
	v.SetDefault("ui.page_size", 3)
	v.SetDefault("ui.consultation_page_size", 3)
	v.SetDefault("ui.date_format", "02 Jan 2006")
	v.SetDefault("ui.timezone", "UTC")
	v.SetDefault("ui.theme_layers", "theme, base, components")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "patientrecords", "patientrecords.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = os.Getenv("PATIENTRECORDS_CONFIG")
	}
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "patientrecords", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.consultation_page_size", cfg.UI.ConsultationPageSize)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.theme_layers", cfg.UI.ThemeLayers)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
