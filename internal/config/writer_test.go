package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Write:
// - Written defaults load back unchanged
// - An existing file is kept unless force is set

func TestWrite_RoundTripsThroughLoader(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfg := Default()
	cfg.Extract.IncludeDocs = true
	cfg.Extract.Languages = []string{"rust", "go"}
	cfg.Workers = 4

	path, err := Write(root, cfg, false)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := newTestLoader(t, root).Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestWrite_ExistingFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	_, err := Write(root, Default(), false)
	require.NoError(t, err)

	_, err = Write(root, Default(), false)
	assert.ErrorIs(t, err, ErrConfigExists)

	cfg := Default()
	cfg.Cache.Size = 7
	path, err := Write(root, cfg, true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "size: 7")
}
