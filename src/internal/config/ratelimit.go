// FILE: logdot/src/internal/config/ratelimit.go
package config

// RateLimitConfig bounds how many captured writes are forwarded per second.
type RateLimitConfig struct {
	// Rate is the number of forwards allowed per second. Default: 0 (disabled).
	Rate float64 `toml:"rate"`
	// Burst is the number of forwards allowed in a short burst. Defaults to the Rate.
	Burst int `toml:"burst"`
}
