// FILE: logdot/src/internal/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// LoadWithCLI builds the configuration from defaults, the config file,
// LOGDOT_ environment variables and CLI arguments, highest priority last.
func LoadWithCLI(cliArgs []string) (*Config, error) {
	configPath := GetConfigPath()

	cfg, err := lconfig.NewBuilder().
		WithDefaults(defaults()).
		WithEnvPrefix("LOGDOT_").
		WithFile(configPath).
		WithArgs(cliArgs).
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		// A missing config file is fine, defaults and env still apply
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	finalConfig := &Config{}
	if err := cfg.Scan(finalConfig, ""); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	finalConfig.applyFallbacks()
	return finalConfig, validateConfig(finalConfig)
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = "LOGDOT_" + env
	return env
}

// GetConfigPath resolves the config file from LOGDOT_CONFIG_FILE,
// LOGDOT_CONFIG_DIR or the user config directory.
func GetConfigPath() string {
	if configFile := os.Getenv("LOGDOT_CONFIG_FILE"); configFile != "" {
		if filepath.IsAbs(configFile) {
			return configFile
		}
		if configDir := os.Getenv("LOGDOT_CONFIG_DIR"); configDir != "" {
			return filepath.Join(configDir, configFile)
		}
		return configFile
	}

	if configDir := os.Getenv("LOGDOT_CONFIG_DIR"); configDir != "" {
		return filepath.Join(configDir, "logdot.toml")
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config", "logdot.toml")
	}

	return "logdot.toml"
}

// applyFallbacks fills values derived from other fields.
func (c *Config) applyFallbacks() {
	if c.Client.Hostname == "" {
		if host, err := os.Hostname(); err == nil {
			c.Client.Hostname = host
		}
	}
	if c.Metrics.EntityName == "" {
		c.Metrics.EntityName = c.Client.Hostname
	}
	if c.Metrics.EntityDescription == "" {
		c.Metrics.EntityDescription = fmt.Sprintf("Go app: %s", c.Metrics.EntityName)
	}
	if c.Logging == nil {
		c.Logging = DefaultLogConfig()
	}
}
