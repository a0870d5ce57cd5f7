// FILE: logdot/src/internal/transport/tls.go
package transport

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"

	"logdot/src/internal/config"

	"github.com/lixenwraith/log"
)

// TLSManager builds the TLS configuration used to reach the ingestion API.
type TLSManager struct {
	config    *config.TLSClientConfig
	tlsConfig *tls.Config
	logger    *log.Logger
}

// NewTLSManager returns nil when TLS customization is disabled; the HTTP
// client then uses the system defaults.
func NewTLSManager(cfg *config.TLSClientConfig, logger *log.Logger) (*TLSManager, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	m := &TLSManager{
		config: cfg,
		logger: logger,
		tlsConfig: &tls.Config{
			MinVersion: parseTLSVersion(cfg.MinVersion, tls.VersionTLS12),
			MaxVersion: parseTLSVersion(cfg.MaxVersion, tls.VersionTLS13),
		},
	}

	if cfg.CipherSuites != "" {
		m.tlsConfig.CipherSuites = parseCipherSuites(cfg.CipherSuites)
	}

	// Load client certificate for mTLS, if provided.
	if cfg.ClientCertFile != "" && cfg.ClientKeyFile != "" {
		clientCert, err := tls.LoadX509KeyPair(cfg.ClientCertFile, cfg.ClientKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client cert/key: %w", err)
		}
		m.tlsConfig.Certificates = []tls.Certificate{clientCert}
	} else if cfg.ClientCertFile != "" || cfg.ClientKeyFile != "" {
		return nil, fmt.Errorf("both client_cert_file and client_key_file must be provided for mTLS")
	}

	// Load server CA for verification.
	if cfg.ServerCAFile != "" {
		caCert, err := os.ReadFile(cfg.ServerCAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read server CA file: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse server CA certificate")
		}
		m.tlsConfig.RootCAs = caCertPool
	}

	m.tlsConfig.InsecureSkipVerify = cfg.InsecureSkipVerify
	m.tlsConfig.ServerName = cfg.ServerName

	logger.Info("msg", "TLS client configured",
		"component", "transport",
		"has_client_cert", cfg.ClientCertFile != "",
		"has_server_ca", cfg.ServerCAFile != "",
		"min_version", tlsVersionString(m.tlsConfig.MinVersion))
	return m, nil
}

// GetConfig returns a copy of the TLS configuration.
func (m *TLSManager) GetConfig() *tls.Config {
	if m == nil {
		return nil
	}
	return m.tlsConfig.Clone()
}

// GetStats describes the active TLS settings.
func (m *TLSManager) GetStats() map[string]any {
	if m == nil {
		return map[string]any{"enabled": false}
	}
	return map[string]any{
		"enabled":              true,
		"min_version":          tlsVersionString(m.tlsConfig.MinVersion),
		"max_version":          tlsVersionString(m.tlsConfig.MaxVersion),
		"has_client_cert":      m.config.ClientCertFile != "",
		"has_server_ca":        m.config.ServerCAFile != "",
		"insecure_skip_verify": m.config.InsecureSkipVerify,
	}
}

// parseTLSVersion converts a name such as "TLS1.2" into a crypto/tls constant.
func parseTLSVersion(version string, defaultVersion uint16) uint16 {
	switch strings.ToUpper(version) {
	case "TLS1.2", "TLS12":
		return tls.VersionTLS12
	case "TLS1.3", "TLS13":
		return tls.VersionTLS13
	default:
		return defaultVersion
	}
}

// parseCipherSuites converts a comma-separated list of suite names. Unknown names are skipped.
func parseCipherSuites(suites string) []uint16 {
	var result []uint16

	suiteMap := map[string]uint16{
		"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384":         tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256":         tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384":       tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256":       tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256":   tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256": tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
	}

	for _, suite := range strings.Split(suites, ",") {
		suite = strings.TrimSpace(suite)
		if id, ok := suiteMap[suite]; ok {
			result = append(result, id)
		}
	}

	return result
}

func tlsVersionString(version uint16) string {
	switch version {
	case tls.VersionTLS12:
		return "TLS1.2"
	case tls.VersionTLS13:
		return "TLS1.3"
	default:
		return fmt.Sprintf("0x%04x", version)
	}
}
