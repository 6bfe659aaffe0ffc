package auth

import (
	"fmt"

	"github.com/huzzdev/sincrolab-backend/auth/jwt"
	"github.com/huzzdev/sincrolab-backend/auth/password"
)

// Config holds all authentication configuration.
type Config struct {
	JWT      jwt.Config      `yaml:"jwt" mapstructure:"jwt"`
	Password password.Config `yaml:"password" mapstructure:"password"`

	// SeedAdmin, when both fields are set, creates an admin account at
	// startup if none exists with that email.
	SeedAdmin SeedAdmin `yaml:"seed_admin" mapstructure:"seed_admin"`
}

// SeedAdmin identifies the bootstrap administrator.
type SeedAdmin struct {
	Email    string `yaml:"email" mapstructure:"email"`
	Password string `yaml:"password" mapstructure:"password"`
}

// Enabled reports whether seeding is configured.
func (s SeedAdmin) Enabled() bool { return s.Email != "" && s.Password != "" }

// ApplyDefaults sets defaults on the sub-configurations.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
}

// Validate checks the sub-configurations.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	if (c.SeedAdmin.Email == "") != (c.SeedAdmin.Password == "") {
		return fmt.Errorf("auth.seed_admin: email and password must be set together")
	}
	return nil
}

// Describe returns a one-liner for the startup log.
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(%s) TTL=%s password=%s", c.JWT.Method, c.JWT.TTL, c.Password.Algorithm)
}
