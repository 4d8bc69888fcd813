package config

import (
	"os"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withMemFs(t *testing.T) afero.Fs {
	t.Helper()
	prev := AppFs
	fs := afero.NewMemMapFs()
	AppFs = fs
	homedir.DisableCache = true
	t.Cleanup(func() { AppFs = prev })
	return fs
}

func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadConfig_Defaults(t *testing.T) {
	withMemFs(t)
	t.Setenv("HOME", "/home/tester")
	t.Setenv("DATABASE_URL", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgresql", cfg.Dialect)
	assert.Equal(t, "text", cfg.Format)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.File)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	fs := withMemFs(t)
	t.Setenv("HOME", "/home/tester")
	t.Setenv("QUERYCOMPILER_FORMAT", "json")

	require.NoError(t, afero.WriteFile(fs, "/etc/qc.yaml", []byte("dialect: sqlite\nformat: table\n"), 0644))

	cfg, err := LoadConfig("/etc/qc.yaml")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Dialect)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "/etc/qc.yaml", cfg.File)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	withMemFs(t)

	_, err := LoadConfig("/nope.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	fs := withMemFs(t)
	t.Setenv("HOME", "/home/tester")
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("DATABASE_URL=postgres://base\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, ".env.local", []byte("DATABASE_URL=postgres://local\n"), 0644))

	unsetEnv(t, "DATABASE_URL")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://local", cfg.DatabaseURL)

	t.Setenv("DATABASE_URL", "postgres://real")
	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://real", cfg.DatabaseURL)
}

func TestSaveConfig(t *testing.T) {
	fs := withMemFs(t)
	t.Setenv("HOME", "/home/tester")

	path, err := SaveConfig(&Config{Dialect: "mysql", Format: "table"})
	require.NoError(t, err)
	assert.Equal(t, "/home/tester/.config/querycompiler/.querycompiler.yaml", path)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "dialect: mysql")
}
