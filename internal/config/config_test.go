package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/groqchat/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultModel != "llama-3.3-70b-versatile" {
		t.Errorf("Expected default model to be 'llama-3.3-70b-versatile', got '%s'", cfg.DefaultModel)
	}
	if cfg.Temperature != 0.7 {
		t.Errorf("Expected temperature 0.7, got %v", cfg.Temperature)
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("Expected max tokens 1024, got %d", cfg.MaxTokens)
	}
	if cfg.Verbose {
		t.Errorf("Expected Verbose to be false, got %v", cfg.Verbose)
	}
}

func TestGetConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".groqchat", "config.json"), path)
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveAndLoadConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()
	cfg.DefaultModel = "gemma2-9b-it"
	cfg.Temperature = 1.3
	cfg.MaxTokens = 2048
	cfg.Verbose = true
	cfg.Markdown.Style = "light"

	require.NoError(t, SaveConfig(cfg))

	info, err := os.Stat(filepath.Join(home, ".groqchat", "config.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSavedConfigNeverContainsCredential(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, SaveConfig(DefaultConfig()))

	path, err := GetConfigPath()
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	for key := range raw {
		assert.NotContains(t, key, "key")
		assert.NotContains(t, key, "credential")
	}
}

func TestLoadConfig_NormalizesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"default_model": "unknown-model",
		"temperature": 9,
		"max_tokens": 1
	}`), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultModel.ID, cfg.DefaultModel)
	assert.Equal(t, 2.0, cfg.Temperature)
	assert.Equal(t, 256, cfg.MaxTokens)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))

	cfg, err := LoadConfigFrom(path)
	assert.Error(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"temperature": 0.2}`), 0o600))

	t.Setenv("GROQCHAT_TEMPERATURE", "1.5")
	t.Setenv("GROQCHAT_DEFAULT_MODEL", "mixtral-8x7b-32768")
	t.Setenv("GROQCHAT_MARKDOWN_STYLE", "notty")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, cfg.Temperature)
	assert.Equal(t, "mixtral-8x7b-32768", cfg.DefaultModel)
	assert.Equal(t, "notty", cfg.Markdown.Style)
}

func TestConfigRequestConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxTokens = 700

	rc := cfg.RequestConfig()
	assert.Equal(t, models.RequestConfig{
		Model:       "llama-3.3-70b-versatile",
		Temperature: 0.7,
		MaxTokens:   768,
	}, rc)
}

func TestLoadConfig_KeepsInRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"temperature": 0.75, "max_tokens": 1000}`), 0o600))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 0.75, cfg.Temperature)
	assert.Equal(t, 1000, cfg.MaxTokens)
	assert.Equal(t, models.RequestConfig{
		Model:       models.DefaultModel.ID,
		Temperature: 0.75,
		MaxTokens:   1000,
	}, cfg.RequestConfig())
}
