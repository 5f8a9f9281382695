package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Remote cash-flow API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Consistency after mutations: "refetch" or "optimistic"
	WritePolicy string

	// Notifications
	NotifyDuration time.Duration

	// Auth: "local" checks the fixed pair below, "remote" posts to AuthEndpoint
	AuthMode         string
	AuthUsername     string
	AuthPassword     string
	AuthPasswordHash string
	AuthEndpoint     string

	// Session persistence: "sqlite" or "memory"
	SessionBackend string
	SessionDBPath  string

	// AMQP (optional; empty URL disables mutation events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		APIBaseURL:  getEnv("API_BASE_URL", "https://cash-flow-rouge.vercel.app/cashflows"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 15*time.Second),

		WritePolicy: getEnv("WRITE_POLICY", "refetch"),

		NotifyDuration: getEnvDuration("NOTIFY_DURATION", 3*time.Second),

		AuthMode:         getEnv("AUTH_MODE", "local"),
		AuthUsername:     getEnv("AUTH_USERNAME", "cafein"),
		AuthPassword:     getEnv("AUTH_PASSWORD", "pass1234"),
		AuthPasswordHash: getEnv("AUTH_PASSWORD_HASH", ""),
		AuthEndpoint:     getEnv("AUTH_ENDPOINT", ""),

		SessionBackend: getEnv("SESSION_BACKEND", "sqlite"),
		SessionDBPath:  getEnv("SESSION_DB_PATH", "./data/aruskas.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "aruskas"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "cashflow_mutations"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.APIBaseURL == "" {
		problems = append(problems, "API base URL cannot be empty")
	} else if u, err := url.Parse(c.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		problems = append(problems, fmt.Sprintf("invalid API base URL '%s'", c.APIBaseURL))
	}

	if c.WritePolicy != "refetch" && c.WritePolicy != "optimistic" {
		problems = append(problems, fmt.Sprintf("invalid write policy '%s': must be 'refetch' or 'optimistic'", c.WritePolicy))
	}

	if c.NotifyDuration < 100*time.Millisecond || c.NotifyDuration > time.Minute {
		problems = append(problems, fmt.Sprintf("invalid notify duration %v: must be between 100ms and 1m", c.NotifyDuration))
	}

	switch c.AuthMode {
	case "local":
		if c.AuthUsername == "" {
			problems = append(problems, "auth username cannot be empty in local mode")
		}
		if c.AuthPassword == "" && c.AuthPasswordHash == "" {
			problems = append(problems, "either AUTH_PASSWORD or AUTH_PASSWORD_HASH is required in local mode")
		}
	case "remote":
		if c.AuthEndpoint == "" {
			problems = append(problems, "AUTH_ENDPOINT is required in remote auth mode")
		} else if u, err := url.Parse(c.AuthEndpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			problems = append(problems, fmt.Sprintf("invalid auth endpoint '%s'", c.AuthEndpoint))
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid auth mode '%s': must be 'local' or 'remote'", c.AuthMode))
	}

	switch c.SessionBackend {
	case "sqlite":
		if c.SessionDBPath == "" {
			problems = append(problems, "session database path cannot be empty when using the sqlite backend")
		}
	case "memory":
		// nothing to check
	default:
		problems = append(problems, fmt.Sprintf("invalid session backend '%s': must be 'sqlite' or 'memory'", c.SessionBackend))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// ProxyTarget returns the scheme+host of the API base URL, the upstream the
// /api path prefix is forwarded to.
func (c *Config) ProxyTarget() (*url.URL, error) {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse API base URL: %w", err)
	}
	return &url.URL{Scheme: u.Scheme, Host: u.Host}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
