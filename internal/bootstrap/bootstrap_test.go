package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/jra-analyzer/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	rt, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	defer rt.Close()

	assert.Equal(t, "Asia/Tokyo", rt.Location.String())
	assert.NotNil(t, rt.Logger)
	assert.False(t, rt.Config.HasDatabase())

	opts := rt.SpeedIndexOptions()
	assert.Equal(t, 10.0, opts.ShrinkageLambda)
	assert.Equal(t, 300, opts.MinRows)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app:\n  environment: moon\n"), 0o600))

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestOpenStorageNotConfigured(t *testing.T) {
	rt, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	err = rt.OpenStorage(context.Background())
	assert.ErrorIs(t, err, models.ErrStorageNotConfigured)
	assert.Nil(t, rt.DB)
	assert.Nil(t, rt.Repos)
}
