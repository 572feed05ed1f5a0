package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("OPSHUB_CONFIG", "")
	t.Setenv("OPSHUB_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OPSHUB_CONFIG", "")
	t.Setenv("OPSHUB_JWT_SECRET", "s3cret")
	t.Setenv("APP_ADDR", "")
	t.Setenv("OPSHUB_DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:3306", cfg.DB.Host)
	assert.Equal(t, "opshub", cfg.DB.Name)
}

func TestEnvOverridesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app_addr: ":9000"
jwt_secret: from-file
db:
  host: db.internal:3306
  name: opshub_prod
`), 0o600))

	t.Setenv("OPSHUB_CONFIG", path)
	t.Setenv("OPSHUB_JWT_SECRET", "from-env")
	t.Setenv("APP_ADDR", "")
	t.Setenv("OPSHUB_DB_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.AppAddr)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, "db.internal:3306", cfg.DB.Host)
	assert.Equal(t, "opshub_prod", cfg.DB.Name)
}

func TestDSNContainsParseTime(t *testing.T) {
	dsn := DBConfig{User: "root", Password: "pw", Host: "localhost:3306", Name: "opshub"}.DSN()
	assert.Contains(t, dsn, "root:pw@tcp(localhost:3306)/opshub")
	assert.Contains(t, dsn, "parseTime=true")
}

func TestSplitListTrimsAndSkipsEmpty(t *testing.T) {
	assert.Equal(t,
		[]string{"http://a.test", "http://b.test"},
		splitList(" http://a.test , ,http://b.test"))
}
