// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
}

// NewLoader creates a loader reading configPath. An empty path skips the file layer.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load resolves configuration with precedence ENV > File > Defaults and
// validates the result.
func (l *Loader) Load() (AppConfig, error) {
	// 1. Defaults
	cfg := Defaults()

	// 2. File (strict)
	if l.configPath != "" {
		if err := loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	// 3. Environment (highest priority)
	mergeEnv(&cfg)

	// 4. Validate
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a YAML file over cfg. Keys absent from the file keep the
// values already in cfg; unknown keys are rejected.
func loadFile(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("%w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func mergeEnv(cfg *AppConfig) {
	cfg.ListenAddr = ParseString(EnvPrefix+"LISTEN_ADDR", cfg.ListenAddr)
	cfg.ShutdownTimeout = ParseDuration(EnvPrefix+"SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.MaxBodyBytes = ParseInt64(EnvPrefix+"MAX_BODY_BYTES", cfg.MaxBodyBytes)

	cfg.LogLevel = ParseString(EnvPrefix+"LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = ParseString(EnvPrefix+"LOG_SERVICE", cfg.LogService)

	cfg.Catalog.Files = ParseList(EnvPrefix+"CATALOG_FILES", cfg.Catalog.Files)

	cfg.Audit.Enabled = ParseBool(EnvPrefix+"AUDIT_ENABLED", cfg.Audit.Enabled)
	cfg.Audit.MaxLoggedBody = ParseInt(EnvPrefix+"AUDIT_MAX_LOGGED_BODY", cfg.Audit.MaxLoggedBody)

	cfg.Metrics.Enabled = ParseBool(EnvPrefix+"METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Path = ParseString(EnvPrefix+"METRICS_PATH", cfg.Metrics.Path)

	cfg.Tracing.Enabled = ParseBool(EnvPrefix+"TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.ServiceName = ParseString(EnvPrefix+"TRACING_SERVICE_NAME", cfg.Tracing.ServiceName)
	cfg.Tracing.Environment = ParseString(EnvPrefix+"TRACING_ENVIRONMENT", cfg.Tracing.Environment)
	cfg.Tracing.Exporter = ParseString(EnvPrefix+"TRACING_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.Endpoint = ParseString(EnvPrefix+"TRACING_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.SamplingRate = ParseFloat(EnvPrefix+"TRACING_SAMPLING_RATE", cfg.Tracing.SamplingRate)

	cfg.RateLimit.Enabled = ParseBool(EnvPrefix+"RATELIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Requests = ParseInt(EnvPrefix+"RATELIMIT_REQUESTS", cfg.RateLimit.Requests)
	cfg.RateLimit.Window = ParseDuration(EnvPrefix+"RATELIMIT_WINDOW", cfg.RateLimit.Window)
}
