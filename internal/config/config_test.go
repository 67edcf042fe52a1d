package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "data/customers.db", cfg.Database.Path)
	assert.Equal(t, 60, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, "customer-snapshots", cfg.Storage.KeyPrefix)
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.ExportEnabled())
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CUSTOMER_API_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("CUSTOMER_API_DATABASE_DRIVER", "postgres")
	t.Setenv("CUSTOMER_API_DATABASE_URL", "postgres://localhost/customers")
	t.Setenv("CUSTOMER_API_AUTH_JWTSECRET", "s3cret")
	t.Setenv("CUSTOMER_API_STORAGE_BUCKET", "backups")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/customers", cfg.Database.URL)
	assert.True(t, cfg.AuthEnabled())
	assert.True(t, cfg.ExportEnabled())
}

func TestLoadRejectsBadDriver(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CUSTOMER_API_DATABASE_DRIVER", "oracle")

	_, err := Load()
	assert.ErrorContains(t, err, "unknown database driver")
}

func TestLoadRequiresPostgresURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CUSTOMER_API_DATABASE_DRIVER", "postgres")

	_, err := Load()
	assert.ErrorContains(t, err, "database url")
}

func TestLoadDotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"# comment\nCUSTOMER_API_DOTENV_A=\"from file\"\nCUSTOMER_API_DOTENV_B=from file\nnot a pair\n",
	), 0o600))
	t.Setenv("CUSTOMER_API_DOTENV_B", "from env")
	t.Cleanup(func() { os.Unsetenv("CUSTOMER_API_DOTENV_A") })

	loadDotEnv(path)
	assert.Equal(t, "from file", os.Getenv("CUSTOMER_API_DOTENV_A"))
	assert.Equal(t, "from env", os.Getenv("CUSTOMER_API_DOTENV_B"))
}
