package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(ConfigPathEnv, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	s, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".config", "notebox"), s.Path)
	assert.Equal(t, filepath.Join(s.Path, "notebox.db"), s.DatabasePath())
	assert.Equal(t, filepath.Join(s.Path, "notebox.log"), s.LogPath())
	assert.Equal(t, 8, s.Search.Queue)
	assert.Equal(t, 15*time.Second, s.Search.Timeout)
	assert.Equal(t, "rustfmt", s.Code.Formatter)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(ConfigPathEnv, dir)
	t.Setenv("NOTEBOX_SEARCH_QUEUE", "3")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".notebox.yaml"), []byte(`
path: `+dir+`
database: `+filepath.Join(dir, "other.db")+`
search:
  timeout: 2s
code:
  formatter: ""
`), 0o644))

	s, err := loadConfig(viper.New())
	require.NoError(t, err)
	assert.Equal(t, dir, s.BasePath())
	assert.Equal(t, filepath.Join(dir, "other.db"), s.DatabasePath())
	assert.Equal(t, 3, s.Search.Queue)
	assert.Equal(t, 2*time.Second, s.Search.Timeout)
	assert.Empty(t, s.Code.Formatter)
}

func TestValidateRejectsBadSettings(t *testing.T) {
	s := DefaultSettings()
	s.Log.Level = "loud"
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.Search.Queue = 0
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.Path = ""
	assert.Error(t, s.Validate())

	assert.NoError(t, DefaultSettings().Validate())
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, DefaultSettings().WriteYAML(&buf))
	out := buf.String()
	assert.Contains(t, out, "path: ~/.config/notebox")
	assert.Contains(t, out, "queue: 8")
	assert.Contains(t, out, "formatter: rustfmt")
}
