package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locofvijay/room-reservation-service/internal/config"
)

func TestNewDefaults(t *testing.T) {
	logger, closer, err := New(config.LoggingConfig{}, config.AppConfig{Name: "test"})
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.NotNil(t, logger)
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := New(config.LoggingConfig{Output: "file", FilePath: path}, config.AppConfig{Name: "test"})
	require.NoError(t, err)
	require.NotNil(t, closer)
	defer closer.Close()

	logger.Info().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), `"app":"test"`)
}

func TestNewFileOutputRequiresPath(t *testing.T) {
	_, _, err := New(config.LoggingConfig{Output: "file"}, config.AppConfig{})
	assert.Error(t, err)
}

func TestComponent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	base, closer, err := New(config.LoggingConfig{Output: "file", FilePath: path}, config.AppConfig{})
	require.NoError(t, err)
	defer closer.Close()

	sub := Component(base, "sweeper")
	sub.Info().Msg("pass done")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"component":"sweeper"`)
}
