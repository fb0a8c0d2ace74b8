package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the restaurant ordering API
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// AuthConfig holds token verification configuration
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

// Load reads configuration from a YAML file
func Load(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config := &Config{}
	scanner := bufio.NewScanner(file)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Check for section headers
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			currentSection = strings.TrimSuffix(line, ":")
			continue
		}

		// Parse key-value pairs
		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if err := config.setValue(currentSection, key, value); err != nil {
				return nil, fmt.Errorf("failed to set config value %s.%s: %w", currentSection, key, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return config, nil
}

// setValue sets a configuration value based on section and key
func (c *Config) setValue(section, key, value string) error {
	switch section {
	case "database":
		return c.setDatabaseValue(key, value)
	case "http":
		return c.setHTTPValue(key, value)
	case "auth":
		return c.setAuthValue(key, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

// setDatabaseValue sets database configuration values
func (c *Config) setDatabaseValue(key, value string) error {
	switch key {
	case "host":
		c.Database.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Database.Port = port
	case "user":
		c.Database.User = value
	case "password":
		c.Database.Password = value
	case "database":
		c.Database.Database = value
	default:
		return fmt.Errorf("unknown database key: %s", key)
	}
	return nil
}

// setHTTPValue sets HTTP server configuration values
func (c *Config) setHTTPValue(key, value string) error {
	switch key {
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.HTTP.Port = port
	default:
		return fmt.Errorf("unknown http key: %s", key)
	}
	return nil
}

// setAuthValue sets token verification configuration values
func (c *Config) setAuthValue(key, value string) error {
	switch key {
	case "jwt_secret":
		c.Auth.JWTSecret = value
	case "token_ttl_minutes":
		ttl, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid token_ttl_minutes value: %w", err)
		}
		c.Auth.TokenTTLMinutes = ttl
	default:
		return fmt.Errorf("unknown auth key: %s", key)
	}
	return nil
}

// TokenTTL returns the configured token lifetime
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}
