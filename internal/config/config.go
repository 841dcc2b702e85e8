// Package config handles persisted user preferences for groqchat.
// The API key is never part of the configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/diogo/groqchat/internal/models"
)

// EnvPrefix is the prefix of environment overrides, e.g. GROQCHAT_TEMPERATURE
const EnvPrefix = "GROQCHAT"

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style" mapstructure:"style"`                           // glamour style name or path to JSON theme
	EnableEmoji      bool   `json:"enable_emoji" mapstructure:"enable_emoji"`             // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines" mapstructure:"preserve_newlines"`   // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap" mapstructure:"table_wrap"`                 // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links" mapstructure:"inline_table_links"` // Render links inline in tables
}

// Config represents the user configuration
type Config struct {
	// DefaultModel is preselected in the model picker
	DefaultModel string `json:"default_model" mapstructure:"default_model"`
	// Temperature and MaxTokens seed the sampling sliders
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`
	// Verbose writes a debug log to the config directory
	Verbose         bool           `json:"verbose" mapstructure:"verbose"`
	CopyToClipboard bool           `json:"copy_to_clipboard" mapstructure:"copy_to_clipboard"`
	TUITheme        string         `json:"tui_theme,omitempty" mapstructure:"tui_theme"`
	Markdown        MarkdownConfig `json:"markdown,omitempty" mapstructure:"markdown"`
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DefaultModel:    models.DefaultModel.ID,
		Temperature:     models.DefaultTemperature,
		MaxTokens:       models.DefaultMaxTokens,
		Verbose:         false,
		CopyToClipboard: false,
		TUITheme:        "tokyonight",
		Markdown:        DefaultMarkdownConfig(),
	}
}

// RequestConfig returns the sampling snapshot seeded from the configuration
func (c Config) RequestConfig() models.RequestConfig {
	return models.RequestConfig{
		Model:       c.DefaultModel,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}.Normalize()
}

// normalize replaces out-of-range values with usable ones
func (c Config) normalize() Config {
	if _, ok := models.ModelFromID(c.DefaultModel); !ok {
		c.DefaultModel = models.DefaultModel.ID
	}
	c.Temperature = models.ClampTemperature(c.Temperature)
	c.MaxTokens = models.ClampMaxTokens(c.MaxTokens)
	return c
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".groqchat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// newViper builds a viper instance seeded with the defaults so that every
// key can be overridden from the environment.
func newViper() *viper.Viper {
	v := viper.New()
	def := DefaultConfig()

	v.SetDefault("default_model", def.DefaultModel)
	v.SetDefault("temperature", def.Temperature)
	v.SetDefault("max_tokens", def.MaxTokens)
	v.SetDefault("verbose", def.Verbose)
	v.SetDefault("copy_to_clipboard", def.CopyToClipboard)
	v.SetDefault("tui_theme", def.TUITheme)
	v.SetDefault("markdown.style", def.Markdown.Style)
	v.SetDefault("markdown.enable_emoji", def.Markdown.EnableEmoji)
	v.SetDefault("markdown.preserve_newlines", def.Markdown.PreserveNewLines)
	v.SetDefault("markdown.table_wrap", def.Markdown.TableWrap)
	v.SetDefault("markdown.inline_table_links", def.Markdown.InlineTableLinks)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig loads the configuration: defaults, then the config file, then
// GROQCHAT_* environment variables.
func LoadConfig() (Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(configPath)
}

// LoadConfigFrom loads the configuration from an explicit file path
func LoadConfigFrom(configPath string) (Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	var readErr error
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			readErr = fmt.Errorf("failed to parse config file: %w", err)
			// fall back to defaults and environment only
			v = newViper()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg.normalize(), readErr
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg.normalize(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
