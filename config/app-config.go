// Package config holds the application's configuration settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// AppConfig defines environment-based configuration for the application.
type AppConfig struct {
	Http   HttpConfig
	Klarna KlarnaConfig
}

type HttpConfig struct {
	Port            string        `env:"PORT" env-default:"3000" env-description:"port the HTTP server listens on"`
	StaticDir       string        `env:"STATIC_DIR" env-default:"./frontend" env-description:"directory served at /"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s" env-description:"graceful shutdown budget"`
}

// Addr is the listen address derived from Port.
func (c HttpConfig) Addr() string {
	return ":" + c.Port
}

type KlarnaConfig struct {
	APIURL   string        `env:"KLARNA_API_URL" env-default:"https://api-na.playground.klarna.com" env-description:"Klarna API base URL"`
	Username string        `env:"KLARNA_API_USERNAME" env-description:"Klarna API username (UID)"`
	Password string        `env:"KLARNA_API_PASSWORD" env-description:"Klarna API password"`
	Timeout  time.Duration `env:"KLARNA_TIMEOUT" env-default:"8s" env-description:"timeout for every outbound Klarna call"`
}

// HasCredentials reports whether both Basic-Auth values are set.
func (c KlarnaConfig) HasCredentials() bool {
	return c.Username != "" && c.Password != ""
}

// Load reads an optional dotenv file and then the process environment.
// A missing env file is not an error.
func Load(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
		}
	}

	var cfg AppConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	return &cfg, nil
}

// Description lists every supported environment variable.
func Description() string {
	header := "Environment variables:"
	text, err := cleanenv.GetDescription(&AppConfig{}, &header)
	if err != nil {
		return header
	}
	return text
}
