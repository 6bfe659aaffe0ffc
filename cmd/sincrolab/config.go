package main

import (
	"fmt"

	"github.com/huzzdev/sincrolab-backend/auth"
	"github.com/huzzdev/sincrolab-backend/config"
	"github.com/huzzdev/sincrolab-backend/database"
	"github.com/huzzdev/sincrolab-backend/observability"
	"github.com/huzzdev/sincrolab-backend/server"
)

const serviceName = "sincrolab"

// legacyEnv maps the plain variable names used by existing deployments.
var legacyEnv = map[string]string{
	"JWT_SECRET":   "auth.jwt.secret",
	"PORT":         "server.port",
	"DATABASE_URL": "database.dsn",
	"CLIENT_URL":   "server.cors.allowed_origins",
}

// AppConfig is the full service configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Auth.ApplyDefaults()
	if c.Auth.JWT.Issuer == "" {
		c.Auth.JWT.Issuer = c.Name
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section. A missing JWT secret fails here, before
// anything listens.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}

func loadConfig(path string) (*AppConfig, error) {
	opts := []config.LoaderOption{}
	if path != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	for env, key := range legacyEnv {
		opts = append(opts, config.WithEnvAlias(env, key))
	}

	cfg := &AppConfig{}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	return cfg, nil
}
