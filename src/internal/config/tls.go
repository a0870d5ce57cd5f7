// FILE: logdot/src/internal/config/tls.go
package config

// TLSClientConfig configures TLS for connections to the ingestion API.
type TLSClientConfig struct {
	Enabled bool `toml:"enabled"`

	// Client certificate for mTLS
	ClientCertFile string `toml:"client_cert_file"`
	ClientKeyFile  string `toml:"client_key_file"`

	// CA used to verify the API's certificate instead of the system pool
	ServerCAFile string `toml:"server_ca_file"`
	ServerName   string `toml:"server_name"`

	InsecureSkipVerify bool `toml:"insecure_skip_verify"`

	// TLS version constraints
	MinVersion string `toml:"min_version"` // "TLS1.2", "TLS1.3"
	MaxVersion string `toml:"max_version"`

	// Cipher suites (comma-separated list)
	CipherSuites string `toml:"cipher_suites"`
}
