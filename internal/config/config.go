// Package config loads tada settings from defaults, a config file and TADA_* env vars.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/idilsaglam/tada/internal/storage"
)

// Config represents the complete tada configuration
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StorageConfig controls where the task list lives
type StorageConfig struct {
	// Dir holds one JSON file per key
	Dir string `mapstructure:"dir"`
	// Key names the slot the task list is stored under
	Key string `mapstructure:"key"`
}

// UIConfig controls rendering
type UIConfig struct {
	// Theme options: "classic", "neon", "mono"
	Theme string `mapstructure:"theme"`
	// Locale is the BCP 47 tag used for alphabetical sorting
	Locale string `mapstructure:"locale"`
}

type LoggingConfig struct {
	// Level options: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
}

var (
	validThemes = []string{"classic", "neon", "mono"}
	validLevels = []string{"debug", "info", "warn", "error"}
)

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir: DataDir(),
			Key: "todo-list",
		},
		UI: UIConfig{
			Theme:  "classic",
			Locale: "en",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("storage.dir", defaults.Storage.Dir)
	v.SetDefault("storage.key", defaults.Storage.Key)
	v.SetDefault("ui.theme", defaults.UI.Theme)
	v.SetDefault("ui.locale", defaults.UI.Locale)
	v.SetDefault("logging.level", defaults.Logging.Level)
}

// Init wires defaults, the config file search path and env overrides into v.
// A missing config file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(ConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TADA")
	// TADA_STORAGE_DIR for storage.dir
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if cfgFile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Storage.Dir = expandHome(cfg.Storage.Dir)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks option values.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Storage.Dir) == "" {
		errs = append(errs, errors.New("storage.dir: must not be empty"))
	}
	if err := storage.CheckKey(c.Storage.Key); err != nil {
		errs = append(errs, fmt.Errorf("storage.key: %w", err))
	}
	if !contains(validThemes, strings.ToLower(c.UI.Theme)) {
		errs = append(errs, fmt.Errorf("ui.theme: %q is not one of %s", c.UI.Theme, strings.Join(validThemes, ", ")))
	}
	if _, err := language.Parse(c.UI.Locale); err != nil {
		errs = append(errs, fmt.Errorf("ui.locale: %w", err))
	}
	if !contains(validLevels, strings.ToLower(c.Logging.Level)) {
		errs = append(errs, fmt.Errorf("logging.level: %q is not one of %s", c.Logging.Level, strings.Join(validLevels, ", ")))
	}
	return errors.Join(errs...)
}

// Language returns the parsed locale, falling back to English.
func (c *Config) Language() language.Tag {
	tag, err := language.Parse(c.UI.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// LogPath is where the interactive screen writes its log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Storage.Dir, "tada.log")
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tada")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tada"
	}
	return filepath.Join(home, ".config", "tada")
}

// DataDir is the default storage directory, ~/.tada.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tada"
	}
	return filepath.Join(home, ".tada")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
