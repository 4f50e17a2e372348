// Package config resolves the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultGreeting is served by GET / unless GREETING overrides it.
	DefaultGreeting = "Hello from Spring Boot Web App!"

	defaultPort          = 8080
	defaultShutdownGrace = 10 * time.Second
)

// Config holds the runtime configuration. All values are fixed at startup;
// the process never re-reads the environment.
type Config struct {
	Host          string
	Port          int
	Greeting      string
	ShutdownGrace time.Duration
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; already-set variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Host:          os.Getenv("HOST"),
		Port:          defaultPort,
		Greeting:      DefaultGreeting,
		ShutdownGrace: defaultShutdownGrace,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("PORT %d out of range 1-65535", port)
		}
		cfg.Port = port
	}

	if v := os.Getenv("GREETING"); v != "" {
		cfg.Greeting = v
	}

	if v := os.Getenv("SHUTDOWN_GRACE"); v != "" {
		grace, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SHUTDOWN_GRACE %q: %w", v, err)
		}
		if grace <= 0 {
			return nil, fmt.Errorf("SHUTDOWN_GRACE must be positive, got %s", grace)
		}
		cfg.ShutdownGrace = grace
	}

	return cfg, nil
}
