package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines supported JWT signing algorithms.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// DefaultTTL is the session token lifetime used when none is configured.
const DefaultTTL = 2 * time.Minute

// Config configures the session token codec.
type Config struct {
	// Secret is the HMAC signing key. Required.
	Secret string `yaml:"secret" mapstructure:"secret"`

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod `yaml:"method" mapstructure:"method"`

	// Issuer is the "iss" claim. When set, tokens from other issuers are rejected.
	Issuer string `yaml:"issuer" mapstructure:"issuer"`

	// Audience is the "aud" claim (optional).
	Audience []string `yaml:"audience" mapstructure:"audience"`

	// TTL is the lifetime of issued tokens (default: 2m).
	TTL time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TTL == 0 {
		c.TTL = DefaultTTL
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	switch c.Method {
	case HS256, HS384, HS512:
	default:
		return fmt.Errorf("unsupported signing method: %s", c.Method)
	}
	if c.TTL < 0 {
		return fmt.Errorf("ttl must be positive (got: %s)", c.TTL)
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return gojwt.SigningMethodHS256
	}
}
