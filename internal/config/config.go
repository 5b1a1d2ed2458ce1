// Package config reads the immutable process configuration from the
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// minKeyLength is the shortest secret accepted for JWT_KEY or CSRF_KEY.
const minKeyLength = 16

// Config is built once at startup and handed to every component that needs
// it. Nothing reads the environment after Load returns.
type Config struct {
	JWTKey  string // session token signing secret
	CSRFKey string // CSRF token signing secret, distinct from JWTKey

	DBPath     string
	Port       int
	PolicyPath string // optional endpoint policy file

	// AllowedOrigin enables credentialed CORS for one cross-site front end.
	AllowedOrigin string

	IssuerDomain string
}

// Load reads the configuration. Each envFile that exists is loaded first;
// variables already set in the environment win over file values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("failed to load %s: %v", file, err)
		}
	}

	port, err := getEnvAsInt("PORT", 8000)
	if err != nil {
		return nil, err
	}

	config := &Config{
		JWTKey:        getEnv("JWT_KEY", ""),
		CSRFKey:       getEnv("CSRF_KEY", ""),
		DBPath:        getEnv("DB_PATH", "tally.db"),
		Port:          port,
		PolicyPath:    getEnv("POLICY_PATH", ""),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", ""),
		IssuerDomain:  getEnv("ISSUER_DOMAIN", "tally"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks required secrets and ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTKey == "" {
		errs = append(errs, errors.New("JWT_KEY is required"))
	} else if len(c.JWTKey) < minKeyLength {
		errs = append(errs, fmt.Errorf("JWT_KEY must be at least %d bytes", minKeyLength))
	}
	if c.CSRFKey == "" {
		errs = append(errs, errors.New("CSRF_KEY is required"))
	} else if len(c.CSRFKey) < minKeyLength {
		errs = append(errs, fmt.Errorf("CSRF_KEY must be at least %d bytes", minKeyLength))
	}
	if c.JWTKey != "" && c.JWTKey == c.CSRFKey {
		errs = append(errs, errors.New("JWT_KEY and CSRF_KEY must differ"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH must not be empty"))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %v", key, err)
	}
	return n, nil
}
