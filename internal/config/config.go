package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"80"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Settings source: file, backend or mock
	SettingsSource string        `envconfig:"SETTINGS_SOURCE" default:"file"`
	SettingsFile   string        `envconfig:"SETTINGS_FILE" default:"rates.yaml"`
	BackendURL     string        `envconfig:"BACKEND_URL"`
	BackendAPIKey  string        `envconfig:"BACKEND_API_KEY"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"30s"`

	// Shipping
	VolumetricDivisor float64 `envconfig:"VOLUMETRIC_DIVISOR" default:"5000"`
	LocalDeliveryKm   float64 `envconfig:"LOCAL_DELIVERY_KM" default:"5"`
	Currency          string  `envconfig:"CURRENCY" default:"INR"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://localhost:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"shipcost"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	switch c.SettingsSource {
	case "file", "backend", "mock":
	default:
		return fmt.Errorf("SETTINGS_SOURCE must be file, backend or mock, got %q", c.SettingsSource)
	}
	if c.SettingsSource == "backend" && c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL is required when SETTINGS_SOURCE=backend")
	}
	if c.VolumetricDivisor <= 0 {
		return fmt.Errorf("VOLUMETRIC_DIVISOR must be positive, got %v", c.VolumetricDivisor)
	}
	if c.LocalDeliveryKm < 0 {
		return fmt.Errorf("LOCAL_DELIVERY_KM must not be negative, got %v", c.LocalDeliveryKm)
	}
	return nil
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.String("settings.source", c.SettingsSource),
		attribute.Float64("shipping.volumetric_divisor", c.VolumetricDivisor),
		attribute.String("shipping.currency", c.Currency),
	}
}
