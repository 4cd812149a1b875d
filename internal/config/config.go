// Package config loads formstudio settings from an optional YAML file, the
// FORMSTUDIO_ environment and command line flags bound by the CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-formstudio/pkg/state"
	"github.com/goliatone/go-formstudio/pkg/validation"
)

// EnvPrefix prefixes every environment override, e.g. FORMSTUDIO_LOCALE.
const EnvPrefix = "FORMSTUDIO"

// Setting keys.
const (
	KeyLocale               = "locale"
	KeyReadonly             = "readonly"
	KeyValidationMode       = "validation_mode"
	KeyRenderers            = "renderers"
	KeyNotificationDuration = "notification_duration"
	KeyCatalogDir           = "catalog_dir"
	KeyOpenAPI              = "openapi"
	KeyTemplateDir          = "template_dir"
	KeyFormOnly             = "form_only"
	KeyLogLevel             = "log_level"
	KeyRendererConfig       = "renderer_config"
)

// Config is the decoded settings file.
type Config struct {
	Locale               string         `mapstructure:"locale"`
	Readonly             bool           `mapstructure:"readonly"`
	ValidationMode       string         `mapstructure:"validation_mode"`
	Renderers            []string       `mapstructure:"renderers"`
	NotificationDuration time.Duration  `mapstructure:"notification_duration"`
	CatalogDir           string         `mapstructure:"catalog_dir"`
	OpenAPI              string         `mapstructure:"openapi"`
	TemplateDir          string         `mapstructure:"template_dir"`
	FormOnly             bool           `mapstructure:"form_only"`
	LogLevel             string         `mapstructure:"log_level"`
	RendererConfig       map[string]any `mapstructure:"renderer_config"`
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLocale, "en")
	v.SetDefault(KeyReadonly, false)
	v.SetDefault(KeyValidationMode, string(validation.ModeValidateAndShow))
	v.SetDefault(KeyRenderers, []string{"tui"})
	v.SetDefault(KeyNotificationDuration, 3*time.Second)
	v.SetDefault(KeyCatalogDir, "")
	v.SetDefault(KeyOpenAPI, "")
	v.SetDefault(KeyTemplateDir, "")
	v.SetDefault(KeyFormOnly, false)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyRendererConfig, map[string]any{})
}

// New returns a viper instance with defaults and environment overrides. The
// configuration file is read from path when given, otherwise formstudio.yaml
// is searched in the working directory and $HOME/.config/formstudio. A
// missing search result is not an error; a missing explicit path is.
func New(path string) (*viper.Viper, error) {
	var searchPaths []string
	if path == "" {
		searchPaths = append(searchPaths, ".")
		if home, err := os.UserHomeDir(); err == nil {
			searchPaths = append(searchPaths, filepath.Join(home, ".config", "formstudio"))
		}
	}
	return newViper(path, searchPaths)
}

func newViper(path string, searchPaths []string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("formstudio")
		v.SetConfigType("yaml")
		for _, dir := range searchPaths {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", describe(path), err)
	}
	return v, nil
}

func describe(path string) string {
	if path == "" {
		return "formstudio.yaml"
	}
	return path
}

// Load decodes and validates the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("config: viper instance is nil")
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown validation modes and log levels.
func (c Config) Validate() error {
	if _, ok := validation.ParseMode(c.ValidationMode); !ok {
		return fmt.Errorf("config: unknown validation mode %q", c.ValidationMode)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.NotificationDuration < 0 {
		return fmt.Errorf("config: notification duration must not be negative, got %s", c.NotificationDuration)
	}
	return nil
}

// Settings converts the decoded file into the process-wide form settings.
func (c Config) Settings() state.Settings {
	mode, _ := validation.ParseMode(c.ValidationMode)
	settings := state.Settings{
		Renderers:      normalizeNames(c.Renderers),
		Readonly:       c.Readonly,
		ValidationMode: mode,
		Locale:         strings.TrimSpace(c.Locale),
	}
	if len(c.RendererConfig) > 0 {
		settings.Config = make(map[string]any, len(c.RendererConfig))
		for key, value := range c.RendererConfig {
			settings.Config[key] = value
		}
	}
	if settings.Locale == "" {
		settings.Locale = state.DefaultSettings().Locale
	}
	if len(settings.Renderers) == 0 {
		settings.Renderers = state.DefaultSettings().Renderers
	}
	return settings
}

// Level returns the slog level named by LogLevel, info when unset.
func (c Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(raw string) (slog.Level, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(trimmed)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", raw)
	}
	return level, nil
}

func normalizeNames(names []string) []string {
	var out []string
	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
