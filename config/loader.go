// Package config loads service configuration from YAML files, .env files
// and the process environment into a typed struct with viper.
//
// Precedence, highest first: environment, .env file, config.<environment>.yml,
// config.yml. Zero values left after loading are filled by the struct's own
// ApplyDefaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts the file lookups the loader performs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv loads path into the process environment without overriding
// variables that are already set.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string            // explicit config file path
	EnvFile    string            // explicit .env path
	EnvAliases map[string]string // ENV_NAME -> config key
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvAlias binds an extra environment variable name to a config key.
// The derived name (auth.jwt.secret -> AUTH_JWT_SECRET) still wins when
// both are set.
func WithEnvAlias(env, key string) LoaderOption {
	return func(lc *LoaderConfig) {
		if lc.EnvAliases == nil {
			lc.EnvAliases = make(map[string]string)
		}
		lc.EnvAliases[env] = key
	}
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// Resolver finds config and env files for a service.
type Resolver struct {
	FileSystem FileSystem
}

// ResolveFiles returns the explicit paths when given, otherwise the first
// match from the standard search locations.
func (r *Resolver) ResolveFiles(serviceName string, lc LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(
			filepath.Join("cmd", serviceName, "config.yml"),
			filepath.Join("config", "config.yml"),
			"config.yml",
		)
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(
			filepath.Join("cmd", serviceName, ".env"),
			".env",
		)
	}
	return files
}

func (r *Resolver) first(paths ...string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoadConfig loads configuration for serviceName into cfg, which must be a
// pointer to a struct with mapstructure tags.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = RealFileSystem{}
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	v := viper.New()
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("load env file %s: %w", files.EnvFile, err)
		}
	}

	if err := bindEnv(v, cfg, lc.EnvAliases); err != nil {
		return err
	}

	if files.ConfigFile != "" {
		if err := mergeEnvironmentFile(v, files.ConfigFile, lc.FileSystem); err != nil {
			return err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// mergeEnvironmentFile merges config.<environment>.yml next to base when
// the resolved environment names one that exists.
func mergeEnvironmentFile(v *viper.Viper, base string, fs FileSystem) error {
	env := strings.TrimSpace(v.GetString("environment"))
	if env == "" {
		return nil
	}
	ext := filepath.Ext(base)
	overlay := strings.TrimSuffix(base, ext) + "." + env + ext
	if !fs.Exists(overlay) {
		return nil
	}
	v.SetConfigFile(overlay)
	if err := v.MergeInConfig(); err != nil {
		return fmt.Errorf("merge config %s: %w", overlay, err)
	}
	return nil
}
