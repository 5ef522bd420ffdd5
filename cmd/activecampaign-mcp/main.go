// Activecampaign-mcp exposes the ActiveCampaign v3 REST API as MCP tools.
// Credentials are fetched from Nango on every call. It serves stdio by
// default and streamable HTTP when MCP_TRANSPORT=http.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bturcanu/activecampaign-mcp/pkg/activecampaign"
	"github.com/bturcanu/activecampaign-mcp/pkg/audit"
	"github.com/bturcanu/activecampaign-mcp/pkg/auth"
	"github.com/bturcanu/activecampaign-mcp/pkg/config"
	"github.com/bturcanu/activecampaign-mcp/pkg/metrics"
	"github.com/bturcanu/activecampaign-mcp/pkg/nango"
	"github.com/bturcanu/activecampaign-mcp/pkg/telemetry"
	"github.com/bturcanu/activecampaign-mcp/pkg/tools"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()

	// stdout carries the stdio transport; logs always go to stderr.
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel(cfg.LogLevel)}))
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if missing := cfg.Nango.Missing(); len(missing) > 0 {
		log.Warn("missing required Nango environment variables; tools will report configuration errors",
			"missing", strings.Join(missing, ", "))
	}

	// ── OpenTelemetry ────────────────────────────────────────────────────
	otelShutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: tools.ServerVersion,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Metrics:        cfg.MetricsAddr != "",
	})
	if err != nil {
		log.Error("otel setup failed", "error", err)
	} else {
		defer otelShutdown(context.Background()) //nolint:errcheck // best-effort shutdown
	}

	// ── Audit trail (optional) ───────────────────────────────────────────
	var store audit.Recorder
	if cfg.AuditDSN != "" {
		s, err := audit.Connect(ctx, cfg.AuditDSN)
		if err != nil {
			log.Error("audit store unavailable, continuing without it", "error", err)
		} else {
			defer s.Close()
			store = s
		}
	}

	// ── Dependencies ─────────────────────────────────────────────────────
	resolver := nango.NewResolver(cfg.Nango)
	client := activecampaign.NewClient(resolver)

	opts := []tools.Option{
		tools.WithLogger(log),
		tools.WithRecorder(audit.NewLogger(store, log)),
	}
	if cfg.MetricsAddr != "" {
		opts = append(opts, tools.WithMetrics(metrics.NewToolMetrics()))
	}
	registry := tools.NewRegistry(client, resolver, opts...)

	probe(ctx, log, resolver)

	// ── Metrics (internal) ───────────────────────────────────────────────
	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metricsMux,
			ReadTimeout:       5 * time.Second,
			ReadHeaderTimeout: 2 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       30 * time.Second,
		}
		go func() {
			log.Info("metrics server starting", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("metrics server error", "error", err)
			}
		}()
	}

	// ── Transport ────────────────────────────────────────────────────────
	switch cfg.Transport {
	case config.TransportStdio:
		server := registry.NewServer()
		log.Info("serving MCP over stdio", "tools", len(registry.Names()))
		if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			log.Error("stdio transport stopped", "error", err)
		}
	case config.TransportHTTP:
		keys := auth.ParseKeys(cfg.APIKeys)
		if keys.Len() == 0 {
			log.Error("MCP_API_KEYS must be set when MCP_TRANSPORT=http")
			os.Exit(1)
		}
		serveHTTP(ctx, cancel, log, cfg.HTTPAddr, newRouter(registry, keys, log))
	default:
		log.Error("unknown MCP_TRANSPORT", "transport", cfg.Transport)
		os.Exit(1)
	}

	if metricsSrv != nil {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		if err := metricsSrv.Shutdown(shutCtx); err != nil {
			log.Error("metrics server shutdown error", "error", err)
		}
	}
}

// newRouter mounts the streamable MCP endpoint behind key authentication.
// Each authenticated client is served by its own MCP server.
func newRouter(registry *tools.Registry, keys *auth.KeyStore, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(auth.RequireKey(keys, log, "/healthz"))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/mcp", mcp.NewStreamableHTTPHandler(serverFor(registry), nil))
	return r
}

func serverFor(registry *tools.Registry) func(*http.Request) *mcp.Server {
	return func(req *http.Request) *mcp.Server {
		return registry.ServerFor(auth.ClientFromContext(req.Context()))
	}
}

func serveHTTP(ctx context.Context, cancel context.CancelFunc, log *slog.Logger, addr string, h http.Handler) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		log.Info("serving MCP over streamable HTTP", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Error("server shutdown error", "error", err)
	}
}

// probe checks the broker once at startup. Failure is logged, never fatal.
func probe(ctx context.Context, log *slog.Logger, resolver *nango.Resolver) {
	conn, err := resolver.Connection(ctx)
	if err != nil {
		log.Warn("Nango connection test failed", "error", err)
		return
	}
	baseURL, _, err := resolver.APIConfig(ctx)
	if err != nil {
		log.Warn("Nango connection test failed", "error", err)
		return
	}
	log.Info("Nango connection test succeeded",
		"connection_id", conn.ConnectionID,
		"provider", conn.Provider,
		"hostname", conn.Hostname,
		"api_url", baseURL,
		"last_fetched_at", conn.LastFetchedAt,
	)
}
