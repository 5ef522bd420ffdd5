package config

import (
	"os"
	"strings"
	"time"
)

// Required broker variables, in the order they are reported when missing.
const (
	EnvConnectionID  = "NANGO_CONNECTION_ID"
	EnvIntegrationID = "NANGO_INTEGRATION_ID"
	EnvBaseURL       = "NANGO_BASE_URL"
	EnvSecretKey     = "NANGO_SECRET_KEY"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds everything the server reads from the environment. It is built
// once at startup and passed down explicitly.
type Config struct {
	Nango NangoConfig

	Transport string // MCP_TRANSPORT, "stdio" (default) or "http"
	HTTPAddr  string // MCP_HTTP_ADDR, default ":8090"
	APIKeys   string // MCP_API_KEYS, "client:key,..." guarding the HTTP transport

	MetricsAddr  string // METRICS_ADDR, empty disables the listener
	OTLPEndpoint string // OTEL_EXPORTER_OTLP_ENDPOINT
	ServiceName  string // OTEL_SERVICE_NAME, default "activecampaign-mcp"
	AuditDSN     string // AUDIT_DATABASE_URL, empty disables the audit trail
	LogLevel     string // LOG_LEVEL
}

// NangoConfig identifies the broker connection that holds the API credentials.
type NangoConfig struct {
	ConnectionID  string
	IntegrationID string
	BaseURL       string
	SecretKey     string
	Timeout       time.Duration // NANGO_TIMEOUT_SECONDS, default 15s
}

// Load reads configuration from environment variables with defaults. It never
// fails; use NangoConfig.Missing to find absent required values.
func Load() Config {
	return Config{
		Nango: NangoConfig{
			ConnectionID:  strings.TrimSpace(os.Getenv(EnvConnectionID)),
			IntegrationID: strings.TrimSpace(os.Getenv(EnvIntegrationID)),
			BaseURL:       strings.TrimSpace(os.Getenv(EnvBaseURL)),
			SecretKey:     strings.TrimSpace(os.Getenv(EnvSecretKey)),
			Timeout:       EnvOrSeconds("NANGO_TIMEOUT_SECONDS", 15*time.Second),
		},
		Transport:    strings.ToLower(EnvOr("MCP_TRANSPORT", TransportStdio)),
		HTTPAddr:     EnvOr("MCP_HTTP_ADDR", ":8090"),
		APIKeys:      os.Getenv("MCP_API_KEYS"),
		MetricsAddr:  os.Getenv("METRICS_ADDR"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		ServiceName:  EnvOr("OTEL_SERVICE_NAME", "activecampaign-mcp"),
		AuditDSN:     os.Getenv("AUDIT_DATABASE_URL"),
		LogLevel:     EnvOr("LOG_LEVEL", "info"),
	}
}

// Missing returns the names of the required broker variables that are unset.
func (n NangoConfig) Missing() []string {
	var missing []string
	if n.ConnectionID == "" {
		missing = append(missing, EnvConnectionID)
	}
	if n.IntegrationID == "" {
		missing = append(missing, EnvIntegrationID)
	}
	if n.BaseURL == "" {
		missing = append(missing, EnvBaseURL)
	}
	if n.SecretKey == "" {
		missing = append(missing, EnvSecretKey)
	}
	return missing
}
