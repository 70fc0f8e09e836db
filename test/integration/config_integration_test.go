//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteshorts/api/internal/platform/config"
)

// writeConfigs lays out a configs/ directory in a temp working
// directory, since Load resolves config paths relative to the process
// working directory.
func writeConfigs(t *testing.T, base, profile string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "configs"), 0o755))

	if base != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "base.yaml"), []byte(base), 0o600))
	}

	if profile != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "configs", "qa.yaml"), []byte(profile), 0o600))
	}

	t.Chdir(dir)
}

func TestConfigLoad_FileChain(t *testing.T) {
	writeConfigs(t, `
server:
  port: 9000
log:
  level: warn
storage:
  driver: memory
`, `
app:
  environment: qa
log:
  level: error
`)

	cfg, err := config.Load("qa")
	require.NoError(t, err)

	// Profile overrides base, base overrides defaults.
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "qa", cfg.App.Environment)
	assert.Equal(t, "memory", cfg.Storage.Driver)

	require.NoError(t, cfg.Validate())
}

func TestConfigLoad_EnvOverridesFiles(t *testing.T) {
	writeConfigs(t, `
server:
  port: 9000
`, "")

	t.Setenv("APP_SERVER_PORT", "9100")
	t.Setenv("APP_STORAGE_DRIVER", "mongo")
	t.Setenv("APP_STORAGE_MONGO_URI", "mongodb://db.internal:27017")
	t.Setenv("APP_STORAGE_MONGO_DATABASE", "quoteshorts_qa")

	cfg, err := config.Load("local")
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "mongo", cfg.Storage.Driver)
	assert.Equal(t, "mongodb://db.internal:27017", cfg.Storage.Mongo.URI)

	require.NoError(t, cfg.Validate())
}

func TestConfigLoad_MongoDriverRequiresURI(t *testing.T) {
	writeConfigs(t, `
storage:
  driver: mongo
  mongo:
    uri: ""
    database: ""
`, "")

	cfg, err := config.Load("local")
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.mongo.uri")
}

func TestConfigLoad_MissingProfileFileIsFine(t *testing.T) {
	writeConfigs(t, "", "")

	cfg, err := config.Load("nonexistent-profile")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
}
