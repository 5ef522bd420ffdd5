package audit

import (
	"context"
	"log/slog"

	"github.com/bturcanu/activecampaign-mcp/pkg/types"
)

// Recorder persists invocation records.
type Recorder interface {
	RecordInvocation(context.Context, types.Invocation) error
}

// Logger emits a structured log line for every invocation and, when a
// Recorder is configured, persists it too.
type Logger struct {
	store Recorder
	log   *slog.Logger
}

// NewLogger creates an audit logger. store may be nil.
func NewLogger(store Recorder, log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{store: store, log: log}
}

// Record logs inv and hands it to the store. A store failure is logged and
// returned; it never changes what the tool caller receives.
func (l *Logger) Record(ctx context.Context, inv types.Invocation) error {
	inv.Normalize()

	attrs := []any{
		"invocation_id", inv.ID,
		"tool", inv.Tool,
		"client", inv.Client,
		"status", string(inv.Status),
		"duration_ms", inv.DurationMS,
	}
	if inv.Failed() {
		attrs = append(attrs, "error_kind", string(inv.ErrorKind), "error", inv.Error, "status_code", inv.StatusCode)
		l.log.WarnContext(ctx, "tool call failed", attrs...)
	} else {
		l.log.InfoContext(ctx, "tool call completed", attrs...)
	}

	if l.store == nil {
		return nil
	}
	if err := l.store.RecordInvocation(ctx, inv); err != nil {
		l.log.ErrorContext(ctx, "audit record failed",
			"invocation_id", inv.ID,
			"tool", inv.Tool,
			"error", err,
		)
		return err
	}
	return nil
}
