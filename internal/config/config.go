package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Athlete   AthleteConfig   `yaml:"athlete"`
	Autosave  AutosaveConfig  `yaml:"autosave"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// AthleteConfig carries the single user's training preferences. Body
// weight feeds the calorie estimate; zero leaves calories at zero.
type AthleteConfig struct {
	BodyWeightKg       float64 `yaml:"body_weight_kg"`
	DefaultRestSeconds int     `yaml:"default_rest_seconds"`
}

type AutosaveConfig struct {
	Dir string `yaml:"dir"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix REPLINE_ and underscore-separated paths:
//
//	REPLINE_SERVER_HOST, REPLINE_SERVER_PORT,
//	REPLINE_DB_HOST, REPLINE_DB_PORT, REPLINE_DB_NAME,
//	REPLINE_DB_USER, REPLINE_DB_PASSWORD, REPLINE_DB_SSLMODE,
//	REPLINE_AUTH_API_KEY, REPLINE_AUTOSAVE_DIR,
//	REPLINE_BODY_WEIGHT_KG, REPLINE_DEFAULT_REST_SECONDS
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("REPLINE_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("REPLINE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REPLINE_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("REPLINE_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("REPLINE_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REPLINE_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("REPLINE_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("REPLINE_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("REPLINE_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("REPLINE_AUTOSAVE_DIR"); v != "" {
		cfg.Autosave.Dir = v
	}
	if v := os.Getenv("REPLINE_BODY_WEIGHT_KG"); v != "" {
		if kg, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Athlete.BodyWeightKg = kg
		}
	}
	if v := os.Getenv("REPLINE_DEFAULT_REST_SECONDS"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			cfg.Athlete.DefaultRestSeconds = sec
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Autosave.Dir == "" {
		cfg.Autosave.Dir = "data"
	}
	if cfg.Athlete.DefaultRestSeconds == 0 {
		cfg.Athlete.DefaultRestSeconds = 90
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Athlete.BodyWeightKg < 0 {
		return fmt.Errorf("athlete.body_weight_kg must not be negative")
	}
	return nil
}
