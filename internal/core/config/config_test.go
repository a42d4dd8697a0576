package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app:
  name: lapor-fasilitas
  env: test
  http:
    port: 5000
  cors_origins:
    - http://localhost:3000
log:
  level: debug
  json: false
jwt:
  access_secret: akses
  refresh_secret: segar
  issuer: lapor-fasilitas
  access_token_ttl_min: 15
  refresh_token_ttl_hrs: 24
db:
  driver: mysql
  dsn: user:pass@tcp(localhost:3306)/lapor
  maxopenconns: 10
reportdb:
  driver: postgres
  dsn: postgres://localhost:5432/lapor_report
redis:
  addr: ""
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))

	c := Load(path)

	assert.Equal(t, "lapor-fasilitas", c.App.Name)
	assert.Equal(t, 5000, c.App.HTTP.Port)
	assert.Equal(t, []string{"http://localhost:3000"}, c.App.CORSOrigins)
	assert.Equal(t, "akses", c.JWT.AccessSecret)
	assert.Equal(t, "segar", c.JWT.RefreshSecret)
	assert.Equal(t, 15, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, 24, c.JWT.RefreshTokenTTLHrs)
	assert.Equal(t, "mysql", c.DB.Driver)
	assert.Equal(t, "postgres", c.ReportDB.Driver)
	assert.Empty(t, c.Redis.Addr)

	// upload section omitted entirely, defaults kick in
	assert.Equal(t, "uploads/laporan", c.Upload.Dir)
	assert.Equal(t, 5, c.Upload.MaxSizeMB)
}
