// SPDX-License-Identifier: MIT

// Package config provides configuration for the commonsvc reference server.
// Values are layered with precedence Defaults < YAML file < environment.
package config

import "time"

// AppConfig is the resolved configuration of the reference server.
type AppConfig struct {
	ListenAddr      string        `yaml:"listenAddr" validate:"required,hostname_port"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" validate:"gt=0"`
	MaxBodyBytes    int64         `yaml:"maxBodyBytes" validate:"gte=0"`

	LogLevel   string `yaml:"logLevel" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	LogService string `yaml:"logService"`

	Catalog   CatalogConfig   `yaml:"catalog"`
	Audit     AuditConfig     `yaml:"audit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// CatalogConfig lists error catalog files folded after the built-in defaults,
// in order. Later files override earlier ones.
type CatalogConfig struct {
	Files []string `yaml:"files" validate:"dive,required"`
}

// AuditConfig controls request/response audit logging.
type AuditConfig struct {
	Enabled       bool `yaml:"enabled"`
	MaxLoggedBody int  `yaml:"maxLoggedBody" validate:"gte=0"`
}

// MetricsConfig controls the Prometheus endpoint and HTTP metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"required,startswith=/"`
}

// TracingConfig controls OpenTelemetry server spans and their export.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	ServiceName  string  `yaml:"serviceName" validate:"required_if=Enabled true"`
	Environment  string  `yaml:"environment"`
	Exporter     string  `yaml:"exporter" validate:"oneof=none grpc http"`
	Endpoint     string  `yaml:"endpoint" validate:"required_unless=Exporter none"`
	SamplingRate float64 `yaml:"samplingRate" validate:"gte=0,lte=1"`
}

// RateLimitConfig controls per-client request rate limiting.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Requests int           `yaml:"requests" validate:"required_if=Enabled true,gte=0"`
	Window   time.Duration `yaml:"window" validate:"required_if=Enabled true,gte=0"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ListenAddr:      ":8080",
		ShutdownTimeout: 10 * time.Second,
		MaxBodyBytes:    1 << 20,
		LogLevel:        "info",
		LogService:      "commonsvc",
		Audit: AuditConfig{
			Enabled:       true,
			MaxLoggedBody: 64 << 10,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Tracing: TracingConfig{
			ServiceName:  "commonsvc",
			Environment:  "development",
			Exporter:     "none",
			SamplingRate: 1,
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
	}
}
