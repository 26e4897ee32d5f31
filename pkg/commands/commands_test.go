package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tableflip.dev/notebox/pkg/store"
)

func TestCommandTree(t *testing.T) {
	root := New()
	for _, name := range []string{"ui", "list", "search", "export", "info", "key", "config", "version", "completion"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		require.Equal(t, name, cmd.Name())
	}
	cmd, _, err := root.Find([]string{"config", "init"})
	require.NoError(t, err)
	require.Equal(t, "init", cmd.Name())
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".notebox.yaml")
	require.NoError(t, writeDefaultConfig(path, false))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got store.Settings
	require.NoError(t, yaml.Unmarshal(b, &got))
	require.Equal(t, store.DefaultSettings().Search.CratesURL, got.Search.CratesURL)

	require.Error(t, writeDefaultConfig(path, false))
	require.NoError(t, writeDefaultConfig(path, true))
}
