package config

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Storage.Driver)
	assert.Equal(t, "HS256", c.JWT.Algorithm)
	assert.Equal(t, 30*time.Minute, c.JWT.AccessTTL)
	assert.Equal(t, "https://oauth.yandex.ru/token", c.Providers.Yandex.TokenURL)
	assert.Equal(t, 10*time.Second, c.Providers.Yandex.Timeout)
	assert.Equal(t, 5*time.Minute, c.Providers.Yandex.ProfileCacheTTL)
	assert.Equal(t, 1000, c.Providers.Yandex.ProfileCacheSize)
	assert.Equal(t, int64(10<<20), c.Uploads.MaxSize)
	assert.Equal(t, []string{"mp3", "wav", "ogg"}, c.Uploads.AllowedExtensions)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
jwt:
  secret: from-yaml
  access_ttl: 15m
providers:
  yandex:
    client_id: yaml-client
`), 0o600))

	t.Setenv("SECRET_KEY", "from-env")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "45")
	t.Setenv("YANDEX_CLIENT_SECRET", "s3cr3t")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.Server.Addr)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, 45*time.Minute, c.JWT.AccessTTL)
	assert.Equal(t, "yaml-client", c.Providers.Yandex.ClientID)
	assert.Equal(t, "s3cr3t", c.Providers.Yandex.ClientSecret)
}

func TestLoad_PostgresDSNFromParts(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_PASSWORD", "p@ss")
	t.Setenv("POSTGRES_DB", "audio")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", c.Storage.Driver)
	assert.Equal(t, "postgres://app:p%40ss@db:5432/audio?sslmode=disable", c.Storage.DSN)
}

func TestValidate(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Error(t, c.Validate(), "missing secret")

	c.JWT.Secret = "k"
	assert.NoError(t, c.Validate())

	c.JWT.Algorithm = "RS256"
	assert.Error(t, c.Validate())

	c.JWT.Algorithm = "HS256"
	c.Storage.Driver = "postgres"
	c.Storage.DSN = ""
	assert.Error(t, c.Validate())

	c.Storage.Driver = "memory"
	c.App.Env = "prod"
	assert.Error(t, c.Validate(), "prod requires provider credentials")
}

func TestLoad_BootstrapFromEnv(t *testing.T) {
	t.Setenv("BOOTSTRAP_ADMIN_EMAIL", "root@example.com")
	t.Setenv("BOOTSTRAP_ADMIN_USERNAME", "root")
	t.Setenv("BOOTSTRAP_ADMIN_PASSWORD", "correct-horse")
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "root@example.com", c.Bootstrap.AdminEmail)
	assert.Equal(t, "root", c.Bootstrap.AdminUsername)
	assert.Equal(t, "correct-horse", c.Bootstrap.AdminPassword)
}

func TestTrustedProxyPrefixes(t *testing.T) {
	t.Setenv("SERVER_TRUSTED_PROXIES", "10.0.0.0/8, 127.0.0.1,::1")
	c, err := Load("")
	require.NoError(t, err)

	got, err := c.TrustedProxyPrefixes()
	require.NoError(t, err)
	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("127.0.0.1/32"),
		netip.MustParsePrefix("::1/128"),
	}, got)

	c.JWT.Secret = "k"
	require.NoError(t, c.Validate())
	c.Server.TrustedProxies = []string{"10.0.0.0/33"}
	assert.Error(t, c.Validate())
	c.Server.TrustedProxies = []string{"proxy.local"}
	assert.Error(t, c.Validate())
}
