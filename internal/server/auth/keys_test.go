package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppetrovs/authd/internal/common"
)

func writeTestKeyFiles(t *testing.T) (privPath, pubPath string) {
	t.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(priv),
	})

	pubDER, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})

	dir := t.TempDir()
	privPath = filepath.Join(dir, "private.pem")
	pubPath = filepath.Join(dir, "public.pem")
	require.NoError(t, os.WriteFile(privPath, privPEM, 0o600))
	require.NoError(t, os.WriteFile(pubPath, pubPEM, 0o600))
	return privPath, pubPath
}

func TestLoadKeyPair_OK(t *testing.T) {
	privPath, pubPath := writeTestKeyFiles(t)

	kp, err := LoadKeyPair(privPath, pubPath)
	require.NoError(t, err)
	require.NotNil(t, kp.Private)
	require.NotNil(t, kp.Public)
	assert.Equal(t, kp.Private.PublicKey.N, kp.Public.N)
}

func TestLoadKeyPair_UnsetPaths(t *testing.T) {
	_, err := LoadKeyPair("", "")
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestLoadKeyPair_MissingFile(t *testing.T) {
	privPath, pubPath := writeTestKeyFiles(t)

	_, err := LoadKeyPair(filepath.Join(t.TempDir(), "nope.pem"), pubPath)
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = LoadKeyPair(privPath, filepath.Join(t.TempDir(), "nope.pem"))
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestLoadKeyPair_GarbagePEM(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.pem")
	require.NoError(t, os.WriteFile(bad, []byte("not a key"), 0o600))

	_, pubPath := writeTestKeyFiles(t)
	_, err := LoadKeyPair(bad, pubPath)
	assert.ErrorIs(t, err, common.ErrConfiguration)
}
