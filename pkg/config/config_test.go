package config

import (
	"log/slog"
	"reflect"
	"testing"
	"time"
)

func TestEnvOr(t *testing.T) {
	t.Setenv("AC_TEST_VALUE", "set")
	if got := EnvOr("AC_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("expected set, got %q", got)
	}
	if got := EnvOr("AC_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestEnvOrInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("AC_TEST_INT", "abc")
	if got := EnvOrInt("AC_TEST_INT", 7); got != 7 {
		t.Errorf("expected fallback 7, got %d", got)
	}
	t.Setenv("AC_TEST_INT", "12")
	if got := EnvOrInt("AC_TEST_INT", 7); got != 12 {
		t.Errorf("expected 12, got %d", got)
	}
}

func TestEnvOrSeconds(t *testing.T) {
	t.Setenv("AC_TEST_SECS", "0")
	if got := EnvOrSeconds("AC_TEST_SECS", 15*time.Second); got != 15*time.Second {
		t.Errorf("expected fallback, got %v", got)
	}
	t.Setenv("AC_TEST_SECS", "3")
	if got := EnvOrSeconds("AC_TEST_SECS", 15*time.Second); got != 3*time.Second {
		t.Errorf("expected 3s, got %v", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{EnvConnectionID, EnvIntegrationID, EnvBaseURL, EnvSecretKey, "MCP_TRANSPORT", "NANGO_TIMEOUT_SECONDS"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Transport != TransportStdio {
		t.Errorf("expected stdio transport, got %q", cfg.Transport)
	}
	if cfg.Nango.Timeout != 15*time.Second {
		t.Errorf("expected 15s broker timeout, got %v", cfg.Nango.Timeout)
	}
	want := []string{EnvConnectionID, EnvIntegrationID, EnvBaseURL, EnvSecretKey}
	if got := cfg.Nango.Missing(); !reflect.DeepEqual(got, want) {
		t.Errorf("Missing() = %v, want %v", got, want)
	}
}

func TestMissing_ListsExactlyAbsentNames(t *testing.T) {
	tests := []struct {
		name string
		cfg  NangoConfig
		want []string
	}{
		{"all present", NangoConfig{ConnectionID: "c", IntegrationID: "i", BaseURL: "u", SecretKey: "s"}, nil},
		{"secret missing", NangoConfig{ConnectionID: "c", IntegrationID: "i", BaseURL: "u"}, []string{EnvSecretKey}},
		{"two missing", NangoConfig{IntegrationID: "i", SecretKey: "s"}, []string{EnvConnectionID, EnvBaseURL}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Missing(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Missing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := LogLevel(in); got != want {
			t.Errorf("LogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
