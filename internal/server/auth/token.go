package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ppetrovs/authd/internal/common"
	"github.com/ppetrovs/authd/internal/server/config"
)

// TokenKind selects the lifetime a minted token gets.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Claims is the payload signed into every token: the subject's ID and
// email on top of the registered claim set. Both fields are cross-checked
// against the live user record when a refresh token is redeemed.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Email  string `json:"email"`
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Codec mints and verifies RS256-signed tokens. The private key signs, the
// public key verifies; issuer and audience are stamped into every token and
// required back on verification. Immutable after construction.
type Codec struct {
	keys       *KeyPair
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec constructs a Codec from the loaded key pair and server config.
func NewCodec(keys *KeyPair, cfg *config.Config) *Codec {
	return &Codec{
		keys:       keys,
		issuer:     cfg.TokenIssuer,
		audience:   cfg.TokenAudience,
		accessTTL:  cfg.AccessTokenValidityDuration,
		refreshTTL: cfg.RefreshTokenValidityDuration,
	}
}

// Mint signs a token for the given subject. kind selects the expiry window;
// everything else (algorithm, issuer, audience) is fixed.
func (c *Codec) Mint(userID, email string, kind TokenKind) (string, error) {
	ttl := c.accessTTL
	if kind == TokenRefresh {
		ttl = c.refreshTTL
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Audience:  jwt.ClaimStrings{c.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
		Email:  email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(c.keys.Private)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// MintPair mints one access and one refresh token from the same subject.
func (c *Codec) MintPair(userID, email string) (*TokenPair, error) {
	access, err := c.Mint(userID, email, TokenAccess)
	if err != nil {
		return nil, err
	}
	refresh, err := c.Mint(userID, email, TokenRefresh)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify decodes a token and returns its claims. Every failure mode (bad
// signature, unexpected algorithm, issuer or audience mismatch, expiry,
// malformed input) collapses to common.ErrInvalidToken so callers cannot
// be used as an oracle; the wrapped cause stays available for internal logs.
func (c *Codec) Verify(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithAudience(c.audience),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return c.keys.Public, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}
