package logging_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"tableflip.dev/notebox/pkg/logging"
)

func TestLogToBuffer(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	l, err := logging.New().FromBuffer(buff).Make()
	require.NoError(t, err)
	require.Equal(t, 0, buff.Len())
	l.Logger.Info().Msg("Test")
	require.Contains(t, buff.String(), "Test")
	require.NoError(t, l.Close())
}

func TestLogLevelFilters(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	l, err := logging.New().FromBuffer(buff).WithLevel("warn").Make()
	require.NoError(t, err)
	l.Logger.Info().Msg("quiet")
	require.Equal(t, 0, buff.Len())
	l.Logger.Warn().Msg("loud")
	require.Contains(t, buff.String(), "loud")

	_, err = logging.New().WithLevel("shouting").Make()
	require.Error(t, err)
}

func TestLogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "notebox.log")
	l, err := logging.New().FromPath(path).Make()
	require.NoError(t, err)
	l.Logger.Info().Str("k", "v").Msg("written")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), `"k":"v"`)
}
