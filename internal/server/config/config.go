// Package config handles configuration for the authd server,
// including defaults, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ppetrovs/authd/internal/common"
)

// Config holds runtime settings for the authd server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx).
//   - PrivateKeyPath / PublicKeyPath: PEM files for the RS256 signing pair.
//   - TokenIssuer / TokenAudience: claims stamped into and required from every token.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - CookieSecure: whether the refresh-token cookie carries the Secure attribute.
type Config struct {
	EndpointAddrHTTP             string
	DatabaseDSN                  string
	PrivateKeyPath               string
	PublicKeyPath                string
	TokenIssuer                  string
	TokenAudience                string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	CookieSecure                 bool
}

// LoadDefaults populates Config with its compiled defaults. Only the bind
// address and token lifetimes have defaults; key material, issuer, audience
// and the database DSN must be provided explicitly.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.CookieSecure = false
}

// Validate checks that every setting without a default has been supplied.
// Failures wrap common.ErrConfiguration and are fatal at startup: the
// service cannot mint or verify tokens without its key pair, and cannot
// persist users without a database.
func (c *Config) Validate() error {
	var missing []string
	if c.PrivateKeyPath == "" {
		missing = append(missing, "private key path")
	}
	if c.PublicKeyPath == "" {
		missing = append(missing, "public key path")
	}
	if c.TokenIssuer == "" {
		missing = append(missing, "token issuer")
	}
	if c.TokenAudience == "" {
		missing = append(missing, "token audience")
	}
	if c.DatabaseDSN == "" {
		missing = append(missing, "database DSN")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required settings: %s",
			common.ErrConfiguration, strings.Join(missing, ", "))
	}
	if c.AccessTokenValidityDuration <= 0 || c.RefreshTokenValidityDuration <= 0 {
		return fmt.Errorf("%w: token validity durations must be positive", common.ErrConfiguration)
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
