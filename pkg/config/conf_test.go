package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadOrCreate_FirstRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "confdir")

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data.db"), c.DBPath)
	assert.Equal(t, filepath.Join(dir, "models.json"), c.ModelFile)
	assert.Equal(t, "info", c.LogLevel)

	_, err = os.Stat(filepath.Join(dir, configFileName))
	assert.NoError(t, err)
}

func TestReadOrCreate_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	c := &Config{DBPath: "/tmp/x.db", ModelFile: "/tmp/m.json", LogLevel: "debug"}
	require.NoError(t, Save(dir, c))

	got, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestReadOrCreate_EmptyDir(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
}

func TestSave_Validation(t *testing.T) {
	assert.Error(t, Save("", &Config{}))
	assert.Error(t, Save(t.TempDir(), nil))
}

func TestGetOrCreateHomeDir_EmptyName(t *testing.T) {
	_, err := GetOrCreateHomeDir("")
	assert.Error(t, err)
}
