// Package auth implements the token and credential primitives of authd:
// RSA key loading, the RS256 token codec, and bcrypt password hashing.
package auth

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ppetrovs/authd/internal/common"
)

// KeyPair holds the RSA signing pair. The private key signs every issued
// token; the public key verifies. Loaded once at startup and treated as
// immutable afterwards, so unsynchronized concurrent reads are safe.
type KeyPair struct {
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// LoadKeyPair reads and parses both PEM files. Any failure wraps
// common.ErrConfiguration: without the pair the service can neither issue
// nor verify tokens, so the caller must treat this as fatal.
func LoadKeyPair(privatePath, publicPath string) (*KeyPair, error) {
	if privatePath == "" || publicPath == "" {
		return nil, fmt.Errorf("%w: signing key paths are not set", common.ErrConfiguration)
	}

	privPEM, err := os.ReadFile(privatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading private key %s: %v", common.ErrConfiguration, privatePath, err)
	}
	priv, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing private key %s: %v", common.ErrConfiguration, privatePath, err)
	}

	pubPEM, err := os.ReadFile(publicPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading public key %s: %v", common.ErrConfiguration, publicPath, err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing public key %s: %v", common.ErrConfiguration, publicPath, err)
	}

	return &KeyPair{Private: priv, Public: pub}, nil
}
