package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string `yaml:"server_address" validate:"required"`
	Environment   string `yaml:"environment" validate:"oneof=development staging production"`

	// Logging
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Authentication
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer"`

	// Remote annotation server
	Remote RemoteConfig `yaml:"remote"`

	// Feature flags
	EnableCORS bool `yaml:"enable_cors"`
}

// RemoteConfig holds the connection settings for the remote annotation
// server
type RemoteConfig struct {
	URL      string `yaml:"url" validate:"omitempty,url"`
	Email    string `yaml:"email" validate:"omitempty,email"`
	Password string `yaml:"password"`
	Token    string `yaml:"token"`
}

// LoadConfig loads configuration from an optional YAML file pointed at by
// CONFIG_FILE, with environment variables taking precedence
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: ":8080",
		Environment:   "development",
		LogLevel:      "info",
		JWTIssuer:     "annograph",
		EnableCORS:    true,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setEnv(&cfg.ServerAddress, "SERVER_ADDRESS")
	setEnv(&cfg.Environment, "ENVIRONMENT")
	setEnv(&cfg.LogLevel, "LOG_LEVEL")
	setEnv(&cfg.JWTSecret, "JWT_SECRET")
	setEnv(&cfg.JWTIssuer, "JWT_ISSUER")
	setEnv(&cfg.Remote.URL, "REMOTE_URL")
	setEnv(&cfg.Remote.Email, "REMOTE_EMAIL")
	setEnv(&cfg.Remote.Password, "REMOTE_PASSWORD")
	setEnv(&cfg.Remote.Token, "REMOTE_TOKEN")
	if v := os.Getenv("ENABLE_CORS"); v != "" {
		cfg.EnableCORS = v == "true" || v == "1" || v == "yes"
	}
}

func setEnv(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
