package types

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLoad(t *testing.T) {
	t.Run("valid directories", func(t *testing.T) {
		cfg := &Config{
			LogsDir: t.TempDir(),
			DataDir: filepath.Join(t.TempDir(), "data"),
		}
		assert.NoError(t, cfg.ValidateLoad())
	})

	t.Run("existing data directory is fine", func(t *testing.T) {
		cfg := &Config{LogsDir: t.TempDir(), DataDir: t.TempDir()}
		assert.NoError(t, cfg.ValidateLoad())
	})

	t.Run("missing logs directory", func(t *testing.T) {
		cfg := &Config{
			LogsDir: filepath.Join(t.TempDir(), "nope"),
			DataDir: filepath.Join(t.TempDir(), "data"),
		}
		assert.Error(t, cfg.ValidateLoad())
	})

	t.Run("logs path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

		cfg := &Config{LogsDir: path, DataDir: filepath.Join(t.TempDir(), "data")}
		assert.Error(t, cfg.ValidateLoad())
	})

	t.Run("data path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

		cfg := &Config{LogsDir: t.TempDir(), DataDir: path}
		assert.Error(t, cfg.ValidateLoad())
	})
}

func TestValidateServe(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		cfg := &Config{DataDir: t.TempDir(), ServerPort: 8041}
		assert.NoError(t, cfg.ValidateServe())
	})

	t.Run("missing data directory", func(t *testing.T) {
		cfg := &Config{DataDir: filepath.Join(t.TempDir(), "nope"), ServerPort: 8041}
		assert.Error(t, cfg.ValidateServe())
	})

	t.Run("zero port", func(t *testing.T) {
		cfg := &Config{DataDir: t.TempDir(), ServerPort: 0}
		assert.Error(t, cfg.ValidateServe())
	})
}
