// Package config provides configuration for the marketplace client.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds the client configuration.
type Config struct {
	// Backend settings
	APIURL      string        `env:"NAAFE_API_URL" envDefault:"http://localhost:3000"`
	SocketURL   string        `env:"NAAFE_SOCKET_URL" envDefault:"ws://localhost:3000/ws"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// Auth settings
	AccessToken string `env:"NAAFE_ACCESS_TOKEN"`
	UserID      string `env:"NAAFE_USER_ID"` // Derived from the token when empty

	// Third-party keys
	ImgBBAPIKey string `env:"IMGBB_API_KEY"`

	// Local state
	StateDB string `env:"NAAFE_STATE_DB" envDefault:"file:naafe_state.db?cache=shared&mode=rwc"`

	// Chat settings
	StatusPollInterval time.Duration `env:"STATUS_POLL_INTERVAL" envDefault:"30s"`
	MessagePageSize    int           `env:"MESSAGE_PAGE_SIZE" envDefault:"50"`

	// WebSocket settings
	PingInterval      time.Duration `env:"WS_PING_INTERVAL" envDefault:"25s"`
	WriteTimeout      time.Duration `env:"WS_WRITE_TIMEOUT" envDefault:"10s"`
	ReadTimeout       time.Duration `env:"WS_READ_TIMEOUT" envDefault:"60s"`
	ReconnectDelay    time.Duration `env:"WS_RECONNECT_DELAY" envDefault:"1s"`
	MaxReconnectDelay time.Duration `env:"WS_MAX_RECONNECT_DELAY" envDefault:"30s"`

	// Checkout return listener, 0 disables it
	CallbackPort int `env:"CALLBACK_PORT" envDefault:"8787"`

	// Logging
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot.
func (c *Config) Validate() error {
	if _, err := url.ParseRequestURI(c.APIURL); err != nil {
		return fmt.Errorf("NAAFE_API_URL is invalid: %w", err)
	}
	u, err := url.Parse(c.SocketURL)
	if err != nil {
		return fmt.Errorf("NAAFE_SOCKET_URL is invalid: %w", err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("NAAFE_SOCKET_URL must use ws or wss, got %q", u.Scheme)
	}
	if c.MessagePageSize <= 0 {
		return fmt.Errorf("MESSAGE_PAGE_SIZE must be positive")
	}
	if c.StatusPollInterval <= 0 {
		return fmt.Errorf("STATUS_POLL_INTERVAL must be positive")
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	return nil
}

// CallbackAddr returns the checkout return listen address.
func (c *Config) CallbackAddr() string {
	return fmt.Sprintf("127.0.0.1:%d", c.CallbackPort)
}
