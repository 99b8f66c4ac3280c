package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ADMIN_EMAILS", " Lead@Council.in , web@council.in,")
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("DB_MAX_OPEN_CONNS", "4")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, []string{"lead@council.in", "web@council.in"}, cfg.Admin.Emails)
	assert.Equal(t, "cms_session", cfg.JWT.CookieName)
}

func TestLoadConfigFileWithOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
storage:
  backend: postgres
  overrides:
    events: file
  file:
    dir: /srv/data
  blob:
    provider: gcs
    bucket: council-site
jwt:
  secret: from-file
legacy:
  source: blob
  blob:
    provider: s3
    bucket: old-blob
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, BackendFile, cfg.BackendFor("events"))
	assert.Equal(t, BackendPostgres, cfg.BackendFor("clubs"))
	assert.Equal(t, "/srv/data", cfg.Storage.File.Dir)
	assert.Equal(t, BlobProviderGCS, cfg.Storage.Blob.Provider)
	assert.Equal(t, "old-blob", cfg.Legacy.Blob.Bucket)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("STORAGE_BACKEND", "firestore")

	_, err := LoadConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "firestore")
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestPostgresConnectionStringPrefersURL(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)
	cfg.Database.Password = "pw"
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/council?sslmode=disable", cfg.GetPostgresConnectionString())

	cfg.Database.URL = "postgres://neon/db?sslmode=require"
	assert.Equal(t, "postgres://neon/db?sslmode=require", cfg.GetPostgresConnectionString())
}

func TestBackendSettingsFromPrefixedEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("STORAGE_BLOB_BUCKET", "council-site")
	t.Setenv("STORAGE_BLOB_SECRET_ACCESS_KEY", "blob-secret")
	t.Setenv("LEGACY_FILE_DIR", "/srv/legacy")
	t.Setenv("LEGACY_DYNAMODB_TABLE_PREFIX", "old_")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "council-site", cfg.Storage.Blob.Bucket)
	assert.Equal(t, "blob-secret", cfg.Storage.Blob.SecretAccessKey)
	assert.Empty(t, cfg.Legacy.Blob.Bucket)
	assert.Equal(t, "/srv/legacy", cfg.Legacy.File.Dir)
	assert.Equal(t, "old_", cfg.Legacy.DynamoDB.TablePrefix)
	assert.Equal(t, "data", cfg.Storage.File.Dir)
}
