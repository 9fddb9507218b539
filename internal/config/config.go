// Package config loads the server configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Library   LibraryConfig   `yaml:"library"`
	Templates TemplatesConfig `yaml:"templates"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	Name       string `yaml:"name"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	SSLMode    string `yaml:"sslmode"`
	MaxConns   int32  `yaml:"max_conns"`
	Migrations string `yaml:"migrations"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// TailscaleConfig enables serving on a tailnet via tsnet instead of a local port.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// LibraryConfig controls the exercise library. Seed loads the built-in
// catalog when the library is empty.
type LibraryConfig struct {
	Seed bool `yaml:"seed"`
}

// TemplatesConfig points at an optional YAML template catalog. When Path is
// empty the built-in templates are used.
type TemplatesConfig struct {
	Path string `yaml:"path"`
}

// DSN returns a PostgreSQL connection string. User and password are escaped.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
}

func defaults() *Config {
	return &Config{
		Server:    ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database:  DatabaseConfig{Port: 5432, Migrations: "migrations"},
		Tailscale: TailscaleConfig{Hostname: "mesoplan", StateDir: "tsnet-state"},
		Library:   LibraryConfig{Seed: true},
	}
}

// Load reads config from a YAML file over built-in defaults, then applies
// environment variable overrides. Env vars use the prefix MESOPLAN_:
//
//	MESOPLAN_SERVER_HOST, MESOPLAN_SERVER_PORT,
//	MESOPLAN_DB_HOST, MESOPLAN_DB_PORT, MESOPLAN_DB_NAME, MESOPLAN_DB_USER,
//	MESOPLAN_DB_PASSWORD, MESOPLAN_DB_SSLMODE, MESOPLAN_DB_MAX_CONNS,
//	MESOPLAN_AUTH_API_KEY,
//	MESOPLAN_TAILSCALE_ENABLED, MESOPLAN_TAILSCALE_HOSTNAME,
//	MESOPLAN_LIBRARY_SEED, MESOPLAN_TEMPLATES_PATH
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = n
		}
		return nil
	}
	flag := func(name string, dst *bool) error {
		if v := os.Getenv(name); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			*dst = b
		}
		return nil
	}

	str("MESOPLAN_SERVER_HOST", &cfg.Server.Host)
	str("MESOPLAN_DB_HOST", &cfg.Database.Host)
	str("MESOPLAN_DB_NAME", &cfg.Database.Name)
	str("MESOPLAN_DB_USER", &cfg.Database.User)
	str("MESOPLAN_DB_PASSWORD", &cfg.Database.Password)
	str("MESOPLAN_DB_SSLMODE", &cfg.Database.SSLMode)
	str("MESOPLAN_AUTH_API_KEY", &cfg.Auth.APIKey)
	str("MESOPLAN_TAILSCALE_HOSTNAME", &cfg.Tailscale.Hostname)
	str("MESOPLAN_TEMPLATES_PATH", &cfg.Templates.Path)

	if err := num("MESOPLAN_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	if err := num("MESOPLAN_DB_PORT", &cfg.Database.Port); err != nil {
		return err
	}
	maxConns := int(cfg.Database.MaxConns)
	if err := num("MESOPLAN_DB_MAX_CONNS", &maxConns); err != nil {
		return err
	}
	cfg.Database.MaxConns = int32(maxConns)

	if err := flag("MESOPLAN_TAILSCALE_ENABLED", &cfg.Tailscale.Enabled); err != nil {
		return err
	}
	return flag("MESOPLAN_LIBRARY_SEED", &cfg.Library.Seed)
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.MaxConns < 0 {
		return fmt.Errorf("database.max_conns must not be negative")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	return nil
}
