package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOOKLENS_DATA_DIR", dir)

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Poll.Interval)
	assert.Equal(t, 3*time.Second, cfg.Toast.Lifetime)
	assert.True(t, cfg.UI.CursorBlink)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "file", cfg.Logging.Output)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "hooklens.log"), cfg.Logging.FilePath)
	assert.Equal(t, filepath.Join(dir, "hooklens.db"), cfg.LocationDBPath())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
api:
  base_url: https://hooks.example.com/api
  timeout: 10s
poll:
  interval: 2s
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_DefaultFileInDataDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOOKLENS_DATA_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api:\n  base_url: http://from-file/api\n"), 0644))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file/api", cfg.API.BaseURL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file/api\n"), 0644))
	t.Setenv("HOOKLENS_API_BASE_URL", "http://env/api")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://env/api", cfg.API.BaseURL)
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("HOOKLENS_DATA_DIR", t.TempDir())
	t.Setenv("HOOKLENS_API_BASE_URL", "http://env/api")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-base-url", "", "")
	require.NoError(t, flags.Parse([]string{"--api-base-url", "http://flag/api"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "http://flag/api", cfg.API.BaseURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{
		API:   APIConfig{BaseURL: "http://x/api"},
		Poll:  PollConfig{Interval: time.Second},
		Toast: ToastConfig{Lifetime: time.Second},
	}
	assert.NoError(t, valid.Validate())

	missing := valid
	missing.API.BaseURL = "  "
	assert.ErrorIs(t, missing.Validate(), ErrMissingBaseURL)

	badPoll := valid
	badPoll.Poll.Interval = 0
	assert.Error(t, badPoll.Validate())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".hooklens"), ExpandHome("~/.hooklens"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
}
