// FILE: logdot/src/internal/config/validation.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// validateConfig is the centralized validator for the entire configuration
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateClient(&cfg.Client); err != nil {
		return fmt.Errorf("client config: %w", err)
	}

	if cfg.Logger.MaxMessageBytes < 1 {
		return fmt.Errorf("logger config: max_message_bytes must be positive: %d", cfg.Logger.MaxMessageBytes)
	}

	if err := validateMetrics(&cfg.Metrics); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}

	if err := validateCapture(&cfg.Capture); err != nil {
		return fmt.Errorf("capture config: %w", err)
	}

	if cfg.Logging != nil {
		if err := validateLogConfig(cfg.Logging); err != nil {
			return fmt.Errorf("logging config: %w", err)
		}
	}

	return nil
}

// Validate checks a configuration built in code rather than loaded.
func (c *Config) Validate() error {
	return validateConfig(c)
}

func validateClient(cfg *ClientConfig) error {
	if cfg.APIKey == "" && !cfg.DryRun {
		return fmt.Errorf("api_key is required (set LOGDOT_CLIENT_API_KEY)")
	}
	if cfg.Hostname == "" {
		return fmt.Errorf("hostname is required")
	}

	for name, raw := range map[string]string{"logs_url": cfg.LogsURL, "metrics_url": cfg.MetricsURL} {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s must use http or https: %s", name, raw)
		}
		if u.Host == "" {
			return fmt.Errorf("%s has no host: %s", name, raw)
		}
	}

	if cfg.TimeoutMS < 1 {
		return fmt.Errorf("timeout_ms must be positive: %d", cfg.TimeoutMS)
	}
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative: %d", cfg.MaxRetries)
	}
	if cfg.RetryDelayMS < 0 {
		return fmt.Errorf("retry_delay_ms cannot be negative: %d", cfg.RetryDelayMS)
	}
	if cfg.RetryBackoff < 1.0 {
		return fmt.Errorf("retry_backoff must be at least 1.0: %f", cfg.RetryBackoff)
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		if err := validateTLS(cfg.TLS); err != nil {
			return err
		}
	}

	return nil
}

func validateTLS(cfg *TLSClientConfig) error {
	if (cfg.ClientCertFile == "") != (cfg.ClientKeyFile == "") {
		return fmt.Errorf("tls: both client_cert_file and client_key_file must be provided for mTLS")
	}

	for name, path := range map[string]string{
		"client_cert_file": cfg.ClientCertFile,
		"client_key_file":  cfg.ClientKeyFile,
		"server_ca_file":   cfg.ServerCAFile,
	} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("tls: %s is not accessible: %w", name, err)
		}
	}

	return nil
}

func validateMetrics(cfg *MetricsConfig) error {
	switch cfg.Cache.Type {
	case "", "memory":
	case "redis":
		if cfg.Cache.Redis.Addr == "" {
			return fmt.Errorf("redis cache requires an addr")
		}
	default:
		return fmt.Errorf("invalid entity cache type: %s", cfg.Cache.Type)
	}
	return nil
}

func validateCapture(cfg *CaptureConfig) error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "": true,
	}
	if !validLevels[strings.ToLower(cfg.Level)] {
		return fmt.Errorf("invalid capture level: %s", cfg.Level)
	}

	if cfg.RateLimit.Rate < 0 {
		return fmt.Errorf("rate limit rate cannot be negative")
	}
	if cfg.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit burst cannot be negative")
	}

	for i := range cfg.Filters {
		if err := validateFilter(i, &cfg.Filters[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateLogConfig(cfg *LogConfig) error {
	validOutputs := map[string]bool{
		"file": true, "stdout": true, "stderr": true,
		"both": true, "none": true,
	}
	if !validOutputs[cfg.Output] {
		return fmt.Errorf("invalid log output mode: %s", cfg.Output)
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[cfg.Level] {
		return fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	if cfg.Console != nil {
		validTargets := map[string]bool{
			"stdout": true, "stderr": true, "split": true,
		}
		if !validTargets[cfg.Console.Target] {
			return fmt.Errorf("invalid console target: %s", cfg.Console.Target)
		}

		validFormats := map[string]bool{
			"txt": true, "json": true, "": true,
		}
		if !validFormats[cfg.Console.Format] {
			return fmt.Errorf("invalid console format: %s", cfg.Console.Format)
		}
	}

	return nil
}
