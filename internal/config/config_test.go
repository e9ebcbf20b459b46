package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStruct(t *testing.T) {
	cfg := &Config{
		ServerURL: "http://localhost:3000",
		TokenFile: "TOKEN",
		LogLevel:  "DEBUG",
	}

	assert.Equal(t, "http://localhost:3000", cfg.ServerURL)
	assert.Equal(t, "TOKEN", cfg.TokenFile)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
}

func TestConfigLoad_File(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `server_url: http://localhost:3001
token_file: MY_TOKEN
log_level: DEBUG
cooldown:
  buffer_seconds: 2
`

	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3001", cfg.ServerURL)
	assert.Equal(t, "MY_TOKEN", cfg.TokenFile)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 2.0, cfg.Cooldown.BufferSeconds)
}

func TestConfigLoad_Defaults(t *testing.T) {
	nonExistentPath := filepath.Join(t.TempDir(), "does-not-exist.yaml")

	cfg, err := Load(nonExistentPath)
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.ServerURL, "should have default server URL")
	assert.Equal(t, "TOKEN", cfg.TokenFile)
	assert.Equal(t, 1.0, cfg.Cooldown.BufferSeconds)
	assert.Equal(t, 10000, cfg.Planner.MaxNodes)
}

func TestConfigSave(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	cfg := Defaults()
	cfg.ServerURL = "http://saved.example.com"
	cfg.TokenFile = "SAVED_TOKEN"

	err := Save(cfg, configPath)
	require.NoError(t, err)

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "server_url: http://saved.example.com")
	assert.Contains(t, content, "token_file: SAVED_TOKEN")
}

func TestDurationHelpers(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 180*time.Second, cfg.MapCacheTTL())
	assert.Equal(t, 300*time.Second, cfg.SaveInterval())
	assert.Equal(t, 2*time.Second, cfg.ReplanBackoff())
	assert.Equal(t, time.Duration(0), cfg.MaxRuntime())
	assert.Equal(t, time.Second, cfg.CooldownBuffer())

	cfg.Loop.MaxRuntime = "2h"
	assert.Equal(t, 2*time.Hour, cfg.MaxRuntime())

	cfg.MapCache.TTL = "not-a-duration"
	assert.Equal(t, 180*time.Second, cfg.MapCacheTTL(), "invalid duration falls back to default")
}

func TestDiscoverPath_FlagProvided(t *testing.T) {
	tempDir := t.TempDir()
	flagPath := filepath.Join(tempDir, "flag-config.yaml")

	discovered := DiscoverPath(flagPath)
	assert.Equal(t, flagPath, discovered, "should use flag-provided path")
}

func TestDiscoverPath_DataPrefix(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("DATA_PREFIX", tempDir)

	discovered := DiscoverPath("")
	assert.Equal(t, filepath.Join(tempDir, "config.yaml"), discovered)
}

func TestDiscoverPath_Default(t *testing.T) {
	t.Setenv("DATA_PREFIX", "")

	discovered := DiscoverPath("")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	expectedDefault := filepath.Join(homeDir, ".artifactsmmo", "config.yaml")
	assert.Equal(t, expectedDefault, discovered, "should fallback to default path")
}

func TestDataDir(t *testing.T) {
	t.Setenv("DATA_PREFIX", "")
	assert.Equal(t, ".", DataDir(Defaults()))

	t.Setenv("DATA_PREFIX", "/tmp/prefix")
	assert.Equal(t, "/tmp/prefix", DataDir(Defaults()))

	cfg := Defaults()
	cfg.DataDir = "/explicit"
	assert.Equal(t, "/explicit", DataDir(cfg))
}

func TestLoadFromEnv_ServerURL(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `server_url: http://file.example.com
token_file: FILE_TOKEN
`
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)

	t.Setenv("ARTIFACTS_SERVER_URL", "http://env.example.com")

	cfg, err := LoadWithEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example.com", cfg.ServerURL, "env var should override file")
	assert.Equal(t, "FILE_TOKEN", cfg.TokenFile, "non-overridden values should come from file")
}

func TestLoadFromEnv_Precedence(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.yaml")

	content := `server_url: http://file.example.com
log_level: INFO
`
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)

	t.Setenv("ARTIFACTS_SERVER_URL", "http://env.example.com")
	t.Setenv("ARTIFACTS_LOG_LEVEL", "DEBUG")

	cfg, err := LoadWithEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example.com", cfg.ServerURL, "env should override file")
	assert.Equal(t, "DEBUG", cfg.LogLevel, "env var should override file")
}

func TestReadToken(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "TOKEN")
	require.NoError(t, os.WriteFile(path, []byte("abc123\n"), 0600))

	tok, err := ReadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok)
}
