// FILE: logdot/src/internal/config/config.go
package config

import "logdot/src/internal/filter"

// Config is the full SDK configuration.
type Config struct {
	Client     ClientConfig     `toml:"client"`
	Logger     LoggerConfig     `toml:"logger"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Capture    CaptureConfig    `toml:"capture"`
	Middleware MiddlewareConfig `toml:"middleware"`
	Logging    *LogConfig       `toml:"logging"`
}

// ClientConfig configures delivery to the ingestion API.
type ClientConfig struct {
	APIKey     string `toml:"api_key"`
	Hostname   string `toml:"hostname"`
	LogsURL    string `toml:"logs_url"`
	MetricsURL string `toml:"metrics_url"`

	// Per-request timeout in milliseconds
	TimeoutMS int64 `toml:"timeout_ms"`

	MaxRetries   int64   `toml:"max_retries"`
	RetryDelayMS int64   `toml:"retry_delay_ms"`
	RetryBackoff float64 `toml:"retry_backoff"`

	// Gzip request bodies
	Compress bool `toml:"compress"`

	// Record requests in memory instead of sending them
	DryRun bool `toml:"dry_run"`

	TLS *TLSClientConfig `toml:"tls"`
}

// LoggerConfig configures the logging client.
type LoggerConfig struct {
	MaxMessageBytes int64 `toml:"max_message_bytes"`
}

// MetricsConfig configures the metrics client and entity resolution.
type MetricsConfig struct {
	// Entity used by the middleware and CLI; defaults to the client hostname
	EntityName        string `toml:"entity_name"`
	EntityDescription string `toml:"entity_description"`

	Cache EntityCacheConfig `toml:"cache"`
}

// EntityCacheConfig selects where resolved entity ids are remembered.
type EntityCacheConfig struct {
	// "memory" or "redis"
	Type  string           `toml:"type"`
	Redis RedisCacheConfig `toml:"redis"`
}

type RedisCacheConfig struct {
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	KeyPrefix string `toml:"key_prefix"`
}

// CaptureConfig configures interception of slog records and process output.
type CaptureConfig struct {
	// Install the slog handler as the default logger
	Logging bool `toml:"logging"`
	// Tee stdout/stderr into the logging client
	Print bool `toml:"print"`
	// Minimum slog level forwarded: debug, info, warn, error
	Level string `toml:"level"`
	// Name reported as logger_name for captured slog records
	Name string `toml:"name"`

	RateLimit RateLimitConfig `toml:"rate_limit"`

	// Regex filters applied to captured entries before forwarding
	Filters []filter.Config `toml:"filters"`
}

// MiddlewareConfig configures the HTTP request middleware.
type MiddlewareConfig struct {
	LogRequests bool     `toml:"log_requests"`
	LogMetrics  bool     `toml:"log_metrics"`
	IgnorePaths []string `toml:"ignore_paths"`
}

func defaults() *Config {
	return &Config{
		Client: ClientConfig{
			LogsURL:      "https://logs.logdot.io/api/v1",
			MetricsURL:   "https://metrics.logdot.io/api/v1",
			TimeoutMS:    5000,
			MaxRetries:   3,
			RetryDelayMS: 1000,
			RetryBackoff: 2.0,
		},
		Logger: LoggerConfig{
			MaxMessageBytes: 16000,
		},
		Metrics: MetricsConfig{
			Cache: EntityCacheConfig{
				Type: "memory",
				Redis: RedisCacheConfig{
					Addr:      "localhost:6379",
					KeyPrefix: "logdot:entity:",
				},
			},
		},
		Capture: CaptureConfig{
			Level: "debug",
			Name:  "root",
		},
		Middleware: MiddlewareConfig{
			LogRequests: true,
			LogMetrics:  true,
		},
		Logging: DefaultLogConfig(),
	}
}

// Default returns the built-in configuration without reading any source.
func Default() *Config {
	return defaults()
}
