// Package tools exposes the ActiveCampaign operations as MCP tools.
//
// Every tool performs at most one broker lookup and one API call, and always
// answers with its typed envelope: failures are reported in the envelope's
// error field rather than as protocol errors.
package tools

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bturcanu/activecampaign-mcp/pkg/activecampaign"
	"github.com/bturcanu/activecampaign-mcp/pkg/auth"
	"github.com/bturcanu/activecampaign-mcp/pkg/metrics"
	"github.com/bturcanu/activecampaign-mcp/pkg/nango"
	"github.com/bturcanu/activecampaign-mcp/pkg/types"
	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	ServerName    = "ActiveCampaign API"
	ServerVersion = "1.0.0"
)

var tracer = otel.Tracer("github.com/bturcanu/activecampaign-mcp/pkg/tools")

// ConnectionSource returns the broker's connection record.
type ConnectionSource interface {
	Connection(ctx context.Context) (*nango.Connection, error)
}

// InvocationRecorder receives one record per finished tool call.
type InvocationRecorder interface {
	Record(context.Context, types.Invocation) error
}

// Registry binds the tool catalogue to its collaborators.
type Registry struct {
	api     *activecampaign.Client
	broker  ConnectionSource
	log     *slog.Logger
	metrics *metrics.ToolMetrics
	audit   InvocationRecorder

	mu      sync.Mutex
	names   []string
	servers map[string]*mcp.Server // by authenticated client name
}

// Option configures a Registry.
type Option func(*Registry)

func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

func WithMetrics(m *metrics.ToolMetrics) Option {
	return func(r *Registry) { r.metrics = m }
}

func WithRecorder(rec InvocationRecorder) Option {
	return func(r *Registry) { r.audit = rec }
}

// NewRegistry creates a registry over the given API client and broker.
func NewRegistry(api *activecampaign.Client, broker ConnectionSource, opts ...Option) *Registry {
	r := &Registry{api: api, broker: broker, log: slog.Default(), servers: map[string]*mcp.Server{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewServer returns the MCP server used by unauthenticated transports.
func (r *Registry) NewServer() *mcp.Server {
	return r.ServerFor("")
}

// ServerFor returns the MCP server bound to an authenticated client. Each
// client gets one server, built on first use, so its invocations are
// attributed to it.
func (r *Registry) ServerFor(client string) *mcp.Server {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.servers[client]; ok {
		return s
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}, nil)
	r.names = r.names[:0]
	r.register(binding{r: r, server: server, client: client})
	r.servers[client] = server
	return server
}

// Names lists the registered tools in registration order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.names...)
}

// binding is the target of one catalogue registration.
type binding struct {
	r      *Registry
	server *mcp.Server
	client string
}

// outcome is implemented by every tool result.
type outcome interface {
	Failure() (string, *int)
	ErrorKind() types.Kind
}

// addTool registers fn under tool.Name, wrapping it with tracing, metrics and
// the invocation log.
func addTool[In any, Out outcome](b binding, tool *mcp.Tool, fn func(context.Context, In) Out) {
	r := b.r
	r.names = append(r.names, tool.Name)
	mcp.AddTool(b.server, tool, func(ctx context.Context, _ *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		inv := types.Invocation{
			ID:        uuid.NewString(),
			Tool:      tool.Name,
			Client:    b.client,
			StartedAt: time.Now().UTC(),
		}
		if inv.Client == "" {
			inv.Client = auth.ClientFromContext(ctx)
		}

		ctx, span := tracer.Start(ctx, "tool."+tool.Name)
		span.SetAttributes(
			attribute.String("mcp.tool", tool.Name),
			attribute.String("invocation.id", inv.ID),
		)
		out := fn(ctx, in)
		msg, code := out.Failure()
		if msg != "" {
			span.SetStatus(codes.Error, msg)
		}
		span.End()

		inv.Error = msg
		inv.ErrorKind = out.ErrorKind()
		if code != nil {
			inv.StatusCode = *code
		}
		r.finish(ctx, inv)
		return nil, out, nil
	})
}

func (r *Registry) finish(ctx context.Context, inv types.Invocation) {
	inv.DurationMS = time.Since(inv.StartedAt).Milliseconds()
	if inv.Error != "" && inv.ErrorKind == "" && inv.StatusCode != 0 {
		inv.ErrorKind = types.KindTransport
	}
	inv.Normalize()

	r.metrics.Observe(inv)
	if r.audit != nil {
		_ = r.audit.Record(ctx, inv) // already logged by the recorder
		return
	}
	if inv.Failed() {
		r.log.WarnContext(ctx, "tool call failed",
			"invocation_id", inv.ID, "tool", inv.Tool, "client", inv.Client,
			"error_kind", string(inv.ErrorKind), "error", inv.Error, "status_code", inv.StatusCode)
		return
	}
	r.log.DebugContext(ctx, "tool call completed", "invocation_id", inv.ID, "tool", inv.Tool, "duration_ms", inv.DurationMS)
}
