package config

import (
	"encoding/json"
	"os"

	"github.com/ppetrovs/authd/internal/flagx"
	"github.com/ppetrovs/authd/internal/timex"
)

// JsonConfig is the intermediate DTO for reading JSON configuration files.
// Interval fields use timex.Duration so both "15m"-style strings and integer
// nanoseconds parse. After unmarshalling, values are copied into the runtime
// Config struct.
type JsonConfig struct {
	EndpointAddrHTTP             *string         `json:"endpoint_addr_http"`
	DatabaseDSN                  *string         `json:"database_dsn"`
	PrivateKeyPath               *string         `json:"private_key_path"`
	PublicKeyPath                *string         `json:"public_key_path"`
	TokenIssuer                  *string         `json:"token_issuer"`
	TokenAudience                *string         `json:"token_audience"`
	AccessTokenValidityDuration  *timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration *timex.Duration `json:"refresh_token_validity_duration"`
	CookieSecure                 *bool           `json:"cookie_secure"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. Absent keys leave the current
// value (default or prior overlay) untouched. An unreadable or malformed
// file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != nil {
		config.EndpointAddrHTTP = *c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.PrivateKeyPath != nil {
		config.PrivateKeyPath = *c.PrivateKeyPath
	}
	if c.PublicKeyPath != nil {
		config.PublicKeyPath = *c.PublicKeyPath
	}
	if c.TokenIssuer != nil {
		config.TokenIssuer = *c.TokenIssuer
	}
	if c.TokenAudience != nil {
		config.TokenAudience = *c.TokenAudience
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration != nil {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
}
