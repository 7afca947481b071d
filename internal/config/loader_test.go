package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfigYAML = `
server:
  port: 8090
  mode: "release"
database:
  host: "db.internal"
  port: 5432
  user: "lexmeta"
  password: "secret"
  db_name: "lexmeta"
redis:
  addr: "cache.internal:6379"
kafka:
  brokers:
    - "broker1:9092"
    - "broker2:9092"
opensearch:
  addresses:
    - "http://search.internal:9200"
minio:
  endpoint: "storage.internal:9000"
  bucket: "opinions"
extraction:
  batch_concurrency: 8
loader:
  input_dir: "/var/opinions"
log:
  level: "debug"
  format: "console"
`

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadValidFile(t *testing.T) {
	path := createTempConfigFile(t, validConfigYAML)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 8, cfg.Extraction.BatchConcurrency)
	assert.Equal(t, "/var/opinions", cfg.Loader.InputDir)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Defaults still fill the gaps the file leaves open.
	assert.Equal(t, DefaultFileSuffix, cfg.Loader.FileSuffix)
	assert.Equal(t, DefaultOpenSearchIndex, cfg.OpenSearch.IndexPrefix)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := createTempConfigFile(t, "server: [")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadValidationFailure(t *testing.T) {
	path := createTempConfigFile(t, `
server:
  mode: "carnival"
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromEnvDefaultsOnly(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultDBName, cfg.Database.DBName)
}

func TestMustLoadPanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}
