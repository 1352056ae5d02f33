// Package config loads the settings of the actionkit command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given. A missing default file is not an error.
const DefaultFile = "actionkit.yaml"

// Flash store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds everything the server needs to mount definitions.
type Config struct {
	Addr            string        `yaml:"addr" validate:"required,hostname_port"`
	LogLevel        string        `yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat       string        `yaml:"log_format" validate:"oneof=text json"`
	Templates       string        `yaml:"templates"`
	Layout          string        `yaml:"layout"`
	Definitions     []string      `yaml:"definitions" validate:"dive,required"`
	SessionCookie   string        `yaml:"session_cookie" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	Flash           Flash         `yaml:"flash"`
	Metrics         Metrics       `yaml:"metrics"`
}

// Flash selects where flash messages live between requests.
type Flash struct {
	Store         string        `yaml:"store" validate:"oneof=memory redis"`
	TTL           time.Duration `yaml:"ttl" validate:"gte=0"`
	RedisAddr     string        `yaml:"redis_addr" validate:"required_if=Store redis,omitempty,hostname_port"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"gte=0"`
	Prefix        string        `yaml:"prefix"`
	// EncryptionKey is a base64 AES-256 key; messages are encrypted at rest when set.
	EncryptionKey  string   `yaml:"encryption_key" validate:"omitempty,base64"`
	FallbackKeys   []string `yaml:"fallback_keys" validate:"dive,base64"`
	RedactPatterns []string `yaml:"redact" validate:"dive,required"`
}

// Metrics toggles the prometheus endpoint.
type Metrics struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       "text",
		Layout:          "layouts/application",
		SessionCookie:   "_actionkit_session",
		ShutdownTimeout: 5 * time.Second,
		Flash: Flash{
			Store: StoreMemory,
			TTL:   10 * time.Minute,
		},
		Metrics: Metrics{
			Enabled:   true,
			Namespace: "actionkit",
		},
	}
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads path from fsys over the defaults and validates the result.
// When path is DefaultFile and it does not exist, the defaults are returned.
func Load(fsys afero.Fs, path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
	}

	data, err := afero.ReadFile(fsys, path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && path == DefaultFile:
		return cfg, cfg.Validate()
	case err != nil:
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}
