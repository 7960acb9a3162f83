package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/axent-pl/idtoken/idtoken"
	"github.com/axent-pl/idtoken/jwks"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Google  GoogleConfig  `yaml:"google"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type GoogleConfig struct {
	ClientIDs    []string `yaml:"client_ids"`
	JWKSURL      string   `yaml:"jwks_url"`
	Issuers      []string `yaml:"issuers"`
	KeyMaxAge    int      `yaml:"key_max_age"`   // seconds (default: 3600)
	ClockSkew    *int     `yaml:"clock_skew"`    // seconds (default: 300, 0 allows no skew)
	FetchTimeout int      `yaml:"fetch_timeout"` // seconds (default: 5)
	StaleAlarm   *int     `yaml:"stale_alarm"`   // seconds (default: 86400, 0 disables)
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *ServerConfig) GetPort() int {
	if c.Port <= 0 {
		return 8080
	}
	return c.Port
}

func (c *GoogleConfig) GetJWKSURL() string {
	if c.JWKSURL == "" {
		return jwks.GoogleCertsURL
	}
	return c.JWKSURL
}

func (c *GoogleConfig) GetIssuers() []string {
	if len(c.Issuers) == 0 {
		return idtoken.GoogleIssuers
	}
	return c.Issuers
}

func (c *GoogleConfig) GetKeyMaxAge() time.Duration {
	if c.KeyMaxAge <= 0 {
		return jwks.DefaultMaxAge
	}
	return time.Duration(c.KeyMaxAge) * time.Second
}

func (c *GoogleConfig) GetClockSkew() time.Duration {
	if c.ClockSkew == nil || *c.ClockSkew < 0 {
		return idtoken.DefaultClockSkew
	}
	return time.Duration(*c.ClockSkew) * time.Second
}

func (c *GoogleConfig) GetFetchTimeout() time.Duration {
	if c.FetchTimeout <= 0 {
		return jwks.DefaultTimeout
	}
	return time.Duration(c.FetchTimeout) * time.Second
}

func (c *GoogleConfig) GetStaleAlarm() time.Duration {
	if c.StaleAlarm == nil {
		return jwks.DefaultStaleAlarm
	}
	return time.Duration(*c.StaleAlarm) * time.Second
}

// KeyStore builds the key cache described by the configuration.
func (c *GoogleConfig) KeyStore() *jwks.KeyStore {
	ks := jwks.NewKeyStore(c.GetJWKSURL())
	ks.MaxAge = c.GetKeyMaxAge()
	ks.Timeout = c.GetFetchTimeout()
	ks.StaleAlarm = c.GetStaleAlarm()
	return ks
}

// Verifier builds a token verifier reading keys from keys.
func (c *GoogleConfig) Verifier(keys idtoken.KeySource) *idtoken.Verifier {
	v := idtoken.NewVerifier(keys)
	v.Issuers = c.GetIssuers()
	v.ClockSkew = c.GetClockSkew()
	return v
}

func (c *Config) Validate() error {
	if len(c.Google.ClientIDs) == 0 {
		return errors.New("google.client_ids: at least one client id is required")
	}
	for i, id := range c.Google.ClientIDs {
		if id == "" {
			return fmt.Errorf("google.client_ids[%d]: empty client id", i)
		}
	}
	return nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
