package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TASKHIVE_AUTH_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "./data/taskhive.db", cfg.DB.Path)
	assert.Equal(t, "test-secret", cfg.Auth.Secret)
}

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	t.Setenv("TASKHIVE_AUTH_SECRET", "")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"server:\n  addr: \":9090\"\ndb:\n  path: /tmp/file.db\nauth:\n  secret: from-file\n",
	), 0o644))

	t.Setenv("TASKHIVE_DB_PATH", "/tmp/env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "/tmp/env.db", cfg.DB.Path, "environment wins over the file")
	assert.Equal(t, "from-file", cfg.Auth.Secret)
}

func TestLoad_AbsentFileIsSkipped(t *testing.T) {
	t.Setenv("TASKHIVE_AUTH_SECRET", "test-secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}
