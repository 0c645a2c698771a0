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
	UI   UIConfig
	Log  LogConfig
	Keys KeysConfig
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DefaultUnit  string `mapstructure:"default_unit"`
	DefaultShape string `mapstructure:"default_shape"`
	Mouse        bool
}

// LogConfig holds zap settings. An empty File disables logging in the TUI.
type LogConfig struct {
	Level string
	File  string
}

// KeysConfig points at the keybinding overrides file.
type KeysConfig struct {
	File string
}

// Dir returns the shapearea config directory, honouring XDG_CONFIG_HOME.
func Dir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "shapearea")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "shapearea")
}

// Path returns the config file path. SHAPEAREA_CONFIG overrides the default.
func Path() string {
	if p := os.Getenv("SHAPEAREA_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix SHAPEAREA_.
// path may be empty to use Path().
func Load(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("ui.default_unit", "cm")
	v.SetDefault("ui.default_shape", "")
	v.SetDefault("ui.mouse", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("keys.file", filepath.Join(Dir(), "keybindings.toml"))

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("SHAPEAREA_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(Dir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SHAPEAREA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// no config file; defaults and env apply
		case explicit && errors.Is(err, fs.ErrNotExist):
			// an explicit path that does not exist yet is created on Save
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.UI.DefaultUnit = strings.TrimSpace(c.UI.DefaultUnit)
	c.UI.DefaultShape = strings.ToLower(strings.TrimSpace(c.UI.DefaultShape))
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The TUI uses it to remember the last chosen unit.
func Save(path string, cfg Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("ui.default_unit", cfg.UI.DefaultUnit)
	v.Set("ui.default_shape", cfg.UI.DefaultShape)
	v.Set("ui.mouse", cfg.UI.Mouse)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("keys.file", cfg.Keys.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
