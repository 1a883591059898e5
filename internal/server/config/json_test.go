package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestParseJson_OverlaysOnlyPresentKeys(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempConfig(t, `{
		"database_dsn": "postgres://localhost/authd",
		"private_key_path": "/keys/private.pem",
		"public_key_path": "/keys/public.pem",
		"token_issuer": "authd",
		"token_audience": "clients",
		"access_token_validity_duration": "5m"
	}`)
	os.Args = []string{"testbin", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, "postgres://localhost/authd", c.DatabaseDSN)
	assert.Equal(t, "/keys/private.pem", c.PrivateKeyPath)
	assert.Equal(t, "/keys/public.pem", c.PublicKeyPath)
	assert.Equal(t, "authd", c.TokenIssuer)
	assert.Equal(t, "clients", c.TokenAudience)
	assert.Equal(t, 5*time.Minute, c.AccessTokenValidityDuration)

	// keys absent from the file keep their defaults
	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
}

func TestParseJson_NoFileFlagIsNoop(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c := &Config{}
	c.LoadDefaults()
	parseJson(c)

	assert.Equal(t, ":8080", c.EndpointAddrHTTP)
	assert.Empty(t, c.DatabaseDSN)
}

func TestParseJson_MalformedFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempConfig(t, `{not json`)
	os.Args = []string{"testbin", "-c", path}

	c := &Config{}
	c.LoadDefaults()
	require.Panics(t, func() { parseJson(c) })
}
