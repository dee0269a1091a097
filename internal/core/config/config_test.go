package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  name: crud-test
  mode: debug
  http:
    port: 9090
    readTimeoutSec: 3
db:
  driver: postgres
  dsn: host=localhost user=app dbname=app
  seed: false
redis:
  addr: 127.0.0.1:6379
  ttlSec: 30
admin:
  username: root
  passwordHash: $2a$10$abc
limits:
  perIPRPS: 2.5
  timeoutSec: 4
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestReadFile(t *testing.T) {
	c, err := Read(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "crud-test", c.App.Name)
	assert.Equal(t, "debug", c.App.Mode)
	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, 3*time.Second, c.App.HTTP.ReadTimeout())
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.False(t, c.DB.Seed)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	assert.Equal(t, 30*time.Second, c.Redis.TTL())
	assert.Equal(t, "root", c.Admin.Username)
	assert.Equal(t, "$2a$10$abc", c.Admin.PasswordHash)
	assert.InDelta(t, 2.5, c.Limits.PerIPRPS, 0.0001)
	assert.Equal(t, 4*time.Second, c.Limits.Timeout())

	// 未写的键走默认值
	assert.Equal(t, 10*time.Second, c.App.HTTP.WriteTimeout())
	assert.Equal(t, 8081, c.App.Admin.Port)
	assert.Equal(t, "usercrud:", c.Redis.Prefix)
	assert.True(t, c.DB.AutoMigrate)
	assert.EqualValues(t, 1<<20, c.Limits.MaxBodyBytes)
}

func TestReadEnvOverride(t *testing.T) {
	t.Setenv("APP_DB_DRIVER", "mysql")
	t.Setenv("APP_APP_HTTP_PORT", "7000")
	t.Setenv("APP_JWT_SECRET", "from-env")

	c, err := Read(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "mysql", c.DB.Driver)
	assert.Equal(t, 7000, c.App.HTTP.Port)
	assert.Equal(t, "from-env", c.JWT.Secret)
}

func TestReadConfigPathEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, sample))

	c, err := Read("")
	require.NoError(t, err)
	assert.Equal(t, "crud-test", c.App.Name)
}

func TestReadDefaultsWhenNoFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	c, err := Read("")
	require.NoError(t, err)
	assert.Equal(t, "user-crud", c.App.Name)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 8080, c.App.HTTP.Port)
	assert.True(t, c.DB.Seed)
	assert.Equal(t, 2*time.Hour, c.JWT.TTL())
}

func TestReadMissingExplicitFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
